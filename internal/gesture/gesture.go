// Package gesture содержит конечные автоматы жестов сетки: выделение нового слота
// и перетаскивание края существующего события. Все переходы - чистые функции.
package gesture

import (
	"github.com/Freeeeeet/schedule_grid/internal/grid"
	"github.com/Freeeeeet/schedule_grid/internal/tzclock"
)

const (
	// DefaultSlotMinutes длительность слота при простом клике
	DefaultSlotMinutes = 60
	// MinDurationMinutes минимальная длительность при изменении размера
	MinDurationMinutes = grid.QuantumMinutes
)

type Edge string

const (
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
)

// Valid проверяет значение края
func (e Edge) Valid() bool {
	return e == EdgeTop || e == EdgeBottom
}

// Selection выделенный диапазон дня, 0 <= start < end <= 1440
type Selection struct {
	Day          tzclock.Date `json:"day"`
	StartMinutes int          `json:"start_minutes"`
	EndMinutes   int          `json:"end_minutes"`
}

// Duration возвращает длительность в минутах
func (s Selection) Duration() int {
	return s.EndMinutes - s.StartMinutes
}

// Preview временное положение события во время изменения размера
type Preview struct {
	EventID      string `json:"event_id"`
	StartMinutes int    `json:"start_minutes"`
	EndMinutes   int    `json:"end_minutes"`
}

// State текущее состояние жеста: Idle, Dragging или Resizing
type State interface {
	isGesture()
}

// Idle нет активного жеста
type Idle struct{}

// Dragging идёт выделение нового слота
type Dragging struct {
	Day           tzclock.Date
	AnchorMinutes int
	Selection     Selection
}

// Resizing идёт перетаскивание края события
type Resizing struct {
	EventID       string
	Day           tzclock.Date
	Edge          Edge
	OriginalStart int
	OriginalEnd   int
	Preview       Preview
}

func (Idle) isGesture()     {}
func (Dragging) isGesture() {}
func (Resizing) isGesture() {}

// StartSelection начинает выделение по нажатию в ячейке часа.
// offsetInCell - смещение указателя от верха ячейки в пикселях.
func StartSelection(day tzclock.Date, hour int, offsetInCell, hourHeight float64) Dragging {
	bucket := 0
	if hourHeight > 0 {
		bucket = int(offsetInCell / (hourHeight / 4))
	}
	bucket = min(max(bucket, 0), 3)

	start := grid.Quantize(hour*60 + bucket*grid.QuantumMinutes)

	return Dragging{
		Day:           day,
		AnchorMinutes: start,
		Selection: Selection{
			Day:          day,
			StartMinutes: start,
			EndMinutes:   start + grid.QuantumMinutes,
		},
	}
}

// Move пересчитывает выделение по абсолютной минуте под указателем.
// День всегда остаётся днём начала жеста.
func (d Dragging) Move(minute int) Dragging {
	minute = grid.Quantize(minute)

	d.Selection = Selection{
		Day:          d.Day,
		StartMinutes: min(d.AnchorMinutes, minute),
		EndMinutes:   max(d.AnchorMinutes, minute) + grid.QuantumMinutes,
	}
	return d
}

// Release завершает выделение. Клик без перетаскивания превращается в слот на час.
func (d Dragging) Release() Selection {
	sel := d.Selection
	if sel.EndMinutes-sel.StartMinutes <= grid.QuantumMinutes {
		sel.EndMinutes = min(sel.StartMinutes+DefaultSlotMinutes, tzclock.MinutesPerDay)
	}
	return sel
}

// StartResize начинает перетаскивание края события
func StartResize(eventID string, day tzclock.Date, edge Edge, start, end int) Resizing {
	return Resizing{
		EventID:       eventID,
		Day:           day,
		Edge:          edge,
		OriginalStart: start,
		OriginalEnd:   end,
		Preview: Preview{
			EventID:      eventID,
			StartMinutes: start,
			EndMinutes:   end,
		},
	}
}

// Move пересчитывает предпросмотр. Длительность никогда не становится меньше 15 минут,
// как бы далеко ни утащили край за противоположный.
func (r Resizing) Move(minute int) Resizing {
	minute = grid.Quantize(minute)

	switch r.Edge {
	case EdgeBottom:
		r.Preview.StartMinutes = r.OriginalStart
		r.Preview.EndMinutes = max(r.OriginalStart+MinDurationMinutes, minute+grid.QuantumMinutes)
	case EdgeTop:
		r.Preview.StartMinutes = min(r.OriginalEnd-MinDurationMinutes, minute)
		r.Preview.EndMinutes = r.OriginalEnd
	}
	return r
}

// Changed сообщает, отличается ли предпросмотр от исходного положения
func (r Resizing) Changed() bool {
	return r.Preview.StartMinutes != r.OriginalStart || r.Preview.EndMinutes != r.OriginalEnd
}

// Release возвращает итоговую пару для переноса
func (r Resizing) Release() Preview {
	return r.Preview
}

// Kind возвращает имя состояния для клиента
func Kind(s State) string {
	switch s.(type) {
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	default:
		return "idle"
	}
}
