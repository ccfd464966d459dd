package tzclock

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date гражданская дата без часового пояса
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate нормализует дату (32 января -> 1 февраля)
func NewDate(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseDate разбирает дату формата YYYY-MM-DD
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// String возвращает дату в формате YYYY-MM-DD
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero проверяет, задана ли дата
func (d Date) IsZero() bool {
	return d == Date{}
}

// noon используется для арифметики дат без влияния переходов времени
func (d Date) noon() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC)
}

// Weekday возвращает день недели даты
func (d Date) Weekday() time.Weekday {
	return d.noon().Weekday()
}

// AddDays сдвигает дату на n дней
func (d Date) AddDays(n int) Date {
	return NewDate(d.Year, d.Month, d.Day+n)
}

// AddMonths сдвигает дату на n месяцев, день приводится к первому числу
func (d Date) AddMonths(n int) Date {
	return NewDate(d.Year, d.Month+time.Month(n), 1)
}

// Before сравнивает даты
func (d Date) Before(other Date) bool {
	return d.noon().Before(other.noon())
}

// After сравнивает даты
func (d Date) After(other Date) bool {
	return d.noon().After(other.noon())
}

// DaysUntil возвращает количество дней от d до other
func (d Date) DaysUntil(other Date) int {
	return int(other.noon().Sub(d.noon()).Hours() / 24)
}

// StartOfWeek возвращает понедельник недели, содержащей дату
func (d Date) StartOfWeek() Date {
	daysSinceMonday := int(d.Weekday()) - 1
	if d.Weekday() == time.Sunday {
		daysSinceMonday = 6
	}
	return d.AddDays(-daysSinceMonday)
}

// FirstOfMonth возвращает первое число месяца
func (d Date) FirstOfMonth() Date {
	return Date{Year: d.Year, Month: d.Month, Day: 1}
}

var weekdayNames = map[time.Weekday]string{
	time.Sunday:    "sunday",
	time.Monday:    "monday",
	time.Tuesday:   "tuesday",
	time.Wednesday: "wednesday",
	time.Thursday:  "thursday",
	time.Friday:    "friday",
	time.Saturday:  "saturday",
}

// WeekdayName возвращает имя дня недели в нижнем регистре
func WeekdayName(w time.Weekday) string {
	return weekdayNames[w]
}

// ParseWeekday разбирает имя дня недели без учёта регистра
func ParseWeekday(name string) (time.Weekday, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for w, n := range weekdayNames {
		if n == name {
			return w, true
		}
	}
	return time.Sunday, false
}

// FormatMinutes форматирует минуты от полуночи как HH:MM
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseClock разбирает HH:MM в минуты от полуночи
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// MarshalText сериализует дату как YYYY-MM-DD
func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return []byte{}, nil
	}
	return []byte(d.String()), nil
}

// UnmarshalText разбирает дату формата YYYY-MM-DD
func (d *Date) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
