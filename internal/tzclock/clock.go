package tzclock

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// ErrUnknownTimezone возвращается, если IANA-идентификатор не распознан
var ErrUnknownTimezone = errors.New("unknown timezone")

const MinutesPerDay = 24 * 60

// DateTime гражданское время в часовом поясе компании
type DateTime struct {
	Year   int
	Month  time.Month
	Day    int
	Hour   int
	Minute int
}

// Date возвращает дату без времени
func (dt DateTime) Date() Date {
	return Date{Year: dt.Year, Month: dt.Month, Day: dt.Day}
}

// Minutes возвращает минуты от полуночи
func (dt DateTime) Minutes() int {
	return dt.Hour*60 + dt.Minute
}

// Clock переводит моменты времени в гражданское время настроенного часового пояса.
// Это единственный источник ответа на вопрос "который там час".
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// New создаёт часы для IANA-идентификатора. Ошибка конфигурации возвращается один раз здесь,
// а не при каждом преобразовании.
func New(timezone string) (*Clock, error) {
	if strings.TrimSpace(timezone) == "" {
		return nil, fmt.Errorf("%w: empty id", ErrUnknownTimezone)
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrUnknownTimezone, timezone, err)
	}

	return &Clock{loc: loc, now: time.Now}, nil
}

// MustNew как New, но паникует. Только для тестов и констант.
func MustNew(timezone string) *Clock {
	c, err := New(timezone)
	if err != nil {
		panic(err)
	}
	return c
}

// WithNow подменяет источник текущего времени
func (c *Clock) WithNow(now func() time.Time) *Clock {
	return &Clock{loc: c.loc, now: now}
}

// Location возвращает часовой пояс
func (c *Clock) Location() *time.Location {
	return c.loc
}

// Name возвращает IANA-идентификатор
func (c *Clock) Name() string {
	return c.loc.String()
}

// Now возвращает текущий момент
func (c *Clock) Now() time.Time {
	return c.now()
}

// Today возвращает текущую гражданскую дату
func (c *Clock) Today() Date {
	return c.Civil(c.now()).Date()
}

// Civil раскладывает момент на гражданские поля
func (c *Clock) Civil(t time.Time) DateTime {
	lt := t.In(c.loc)
	return DateTime{
		Year:   lt.Year(),
		Month:  lt.Month(),
		Day:    lt.Day(),
		Hour:   lt.Hour(),
		Minute: lt.Minute(),
	}
}

// DateOf возвращает гражданскую дату момента
func (c *Clock) DateOf(t time.Time) Date {
	return c.Civil(t).Date()
}

// DateString возвращает дату в формате YYYY-MM-DD
func (c *Clock) DateString(t time.Time) string {
	return c.DateOf(t).String()
}

// Weekday возвращает день недели в часовом поясе
func (c *Clock) Weekday(t time.Time) time.Weekday {
	return t.In(c.loc).Weekday()
}

// WeekdayName возвращает имя дня недели ("monday", ...)
func (c *Clock) WeekdayName(t time.Time) string {
	return WeekdayName(c.Weekday(t))
}

// Instant возвращает момент для гражданской даты и минут от полуночи.
// minutes == 1440 означает полночь следующего дня.
// Несуществующее время (переход на летнее) сдвигается вперёд так же, как time.Date.
func (c *Clock) Instant(d Date, minutes int) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, minutes, 0, 0, c.loc)
}

// InstantOf собирает момент из гражданских полей
func (c *Clock) InstantOf(dt DateTime) time.Time {
	return time.Date(dt.Year, dt.Month, dt.Day, dt.Hour, dt.Minute, 0, 0, c.loc)
}

// StartOfDay возвращает момент полуночи гражданской даты
func (c *Clock) StartOfDay(d Date) time.Time {
	return c.Instant(d, 0)
}

// MinutesInto возвращает минуты момента t относительно полуночи дня d, ограниченные [0, 1440].
// События, начавшиеся накануне или заканчивающиеся завтра, обрезаются по границам дня.
func (c *Clock) MinutesInto(d Date, t time.Time) int {
	start := c.StartOfDay(d)
	end := c.StartOfDay(d.AddDays(1))

	if !t.After(start) {
		return 0
	}
	if !t.Before(end) {
		return MinutesPerDay
	}

	// Разница по гражданским полям, а не по длительности, чтобы дни перехода
	// на летнее время давали стенные минуты.
	if c.DateOf(t) == d {
		return c.Civil(t).Minutes()
	}
	return MinutesPerDay
}
