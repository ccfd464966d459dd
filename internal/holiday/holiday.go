package holiday

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/Freeeeeet/schedule_grid/internal/tzclock"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	observedSuffix = " (Observed)"
	nameSeparator  = ", "
)

// Holiday праздник на гражданскую дату. Не хранится, вычисляется по году.
type Holiday struct {
	Date     tzclock.Date `json:"date"`
	Name     string       `json:"name"`
	Observed bool         `json:"observed"`
}

type fixedHoliday struct {
	name  string
	month time.Month
	day   int
}

type floatingHoliday struct {
	name    string
	month   time.Month
	weekday time.Weekday
	n       int // 0 - последний в месяце
}

var fixedHolidays = []fixedHoliday{
	{"New Year's Day", time.January, 1},
	{"Juneteenth", time.June, 19},
	{"Independence Day", time.July, 4},
	{"Veterans Day", time.November, 11},
	{"Christmas Day", time.December, 25},
}

var floatingHolidays = []floatingHoliday{
	{"Martin Luther King Jr. Day", time.January, time.Monday, 3},
	{"Presidents' Day", time.February, time.Monday, 3},
	{"Memorial Day", time.May, time.Monday, 0},
	{"Labor Day", time.September, time.Monday, 1},
	{"Columbus Day", time.October, time.Monday, 2},
	{"Thanksgiving Day", time.November, time.Thursday, 4},
}

// ForYear возвращает праздники года, упорядоченные по дате.
// Для фиксированных праздников, выпавших на выходные, добавляется запись "(Observed)":
// суббота -> предыдущая пятница, воскресенье -> следующий понедельник.
func ForYear(year int) []Holiday {
	holidays := make([]Holiday, 0, len(fixedHolidays)+len(floatingHolidays)+len(fixedHolidays))

	for _, fh := range fixedHolidays {
		date := tzclock.Date{Year: year, Month: fh.month, Day: fh.day}
		holidays = append(holidays, Holiday{Date: date, Name: fh.name})

		switch date.Weekday() {
		case time.Saturday:
			holidays = append(holidays, Holiday{Date: date.AddDays(-1), Name: fh.name + observedSuffix, Observed: true})
		case time.Sunday:
			holidays = append(holidays, Holiday{Date: date.AddDays(1), Name: fh.name + observedSuffix, Observed: true})
		}
	}

	for _, fh := range floatingHolidays {
		var date tzclock.Date
		if fh.n == 0 {
			date = lastWeekday(year, fh.month, fh.weekday)
		} else {
			date = nthWeekday(year, fh.month, fh.weekday, fh.n)
		}
		holidays = append(holidays, Holiday{Date: date, Name: fh.name})
	}

	sort.SliceStable(holidays, func(i, j int) bool {
		return holidays[i].Date.Before(holidays[j].Date)
	})

	return holidays
}

// nthWeekday находит n-й день недели месяца, перебирая дни 1..31 до смены месяца
func nthWeekday(year int, month time.Month, weekday time.Weekday, n int) tzclock.Date {
	count := 0
	for day := 1; day <= 31; day++ {
		date := tzclock.NewDate(year, month, day)
		if date.Month != month {
			break
		}
		if date.Weekday() == weekday {
			count++
			if count == n {
				return date
			}
		}
	}
	return tzclock.Date{}
}

// lastWeekday находит последний день недели месяца
func lastWeekday(year int, month time.Month, weekday time.Weekday) tzclock.Date {
	var last tzclock.Date
	for day := 1; day <= 31; day++ {
		date := tzclock.NewDate(year, month, day)
		if date.Month != month {
			break
		}
		if date.Weekday() == weekday {
			last = date
		}
	}
	return last
}

// Calendar кеширует праздники по годам
type Calendar struct {
	cache *lru.Cache[int, []Holiday]
}

// NewCalendar создаёт календарь с LRU-кешем на size лет
func NewCalendar(size int) (*Calendar, error) {
	if size <= 0 {
		size = 8
	}
	cache, err := lru.New[int, []Holiday](size)
	if err != nil {
		return nil, err
	}
	return &Calendar{cache: cache}, nil
}

// Year возвращает праздники года, вычисляя их при промахе кеша
func (c *Calendar) Year(year int) []Holiday {
	if holidays, ok := c.cache.Get(year); ok {
		return holidays
	}
	holidays := ForYear(year)
	c.cache.Add(year, holidays)
	return holidays
}

// Around объединяет праздники year-1, year и year+1 в карту "YYYY-MM-DD" -> название,
// чтобы виды на стыке годов показывали верные праздники.
func (c *Calendar) Around(year int) map[string]string {
	result := make(map[string]string)
	for y := year - 1; y <= year+1; y++ {
		for _, h := range c.Year(y) {
			key := h.Date.String()
			result[key] = joinName(result[key], h.Name)
		}
	}
	return result
}

// joinName добавляет название к списку через ", ", если его там ещё нет
func joinName(names, name string) string {
	if names == "" {
		return name
	}
	if slices.Contains(strings.Split(names, nameSeparator), name) {
		return names
	}
	return names + nameSeparator + name
}

// On возвращает название праздника на дату
func (c *Calendar) On(d tzclock.Date) (string, bool) {
	names := make([]string, 0, 1)
	// Запись "(Observed)" за 31 декабря принадлежит следующему году
	for _, y := range []int{d.Year, d.Year + 1} {
		for _, h := range c.Year(y) {
			if h.Date == d {
				names = append(names, h.Name)
			}
		}
	}
	if len(names) == 0 {
		return "", false
	}
	return strings.Join(names, nameSeparator), true
}
