package grid

import (
	"math"

	"github.com/Freeeeeet/schedule_grid/internal/tzclock"
)

const (
	// QuantumMinutes шаг сетки времени
	QuantumMinutes = 15

	DefaultHourHeight = 60.0
	DefaultMinHeight  = 20.0
)

// Window видимое окно часов колонки и масштаб в пикселях
type Window struct {
	StartHour  int     `json:"start_hour"`  // первый видимый час
	HourCount  int     `json:"hour_count"`  // количество видимых часов
	HourHeight float64 `json:"hour_height"` // пикселей на час
	MinHeight  float64 `json:"min_height"`  // минимальная высота блока, чтобы подпись была читаемой
}

// DefaultWindow полные сутки с масштабом по умолчанию
func DefaultWindow() Window {
	return Window{
		StartHour:  0,
		HourCount:  24,
		HourHeight: DefaultHourHeight,
		MinHeight:  DefaultMinHeight,
	}
}

// WorkingWindow окно вокруг рабочих часов с запасом в час с каждой стороны
func WorkingWindow(startHour, endHour int) Window {
	w := DefaultWindow()
	w.StartHour = max(startHour-1, 0)
	last := min(endHour+1, 24)
	w.HourCount = last - w.StartHour
	return w
}

// StartMinutes возвращает первую видимую минуту
func (w Window) StartMinutes() int {
	return w.StartHour * 60
}

// EndMinutes возвращает минуту сразу после окна
func (w Window) EndMinutes() int {
	return (w.StartHour + w.HourCount) * 60
}

// Height возвращает полную высоту колонки
func (w Window) Height() float64 {
	return float64(w.HourCount) * w.HourHeight
}

// Span интервал события в минутах от полуночи дня колонки
type Span struct {
	ID           string
	StartMinutes int
	EndMinutes   int
}

// Block геометрия отрисованного события
type Block struct {
	ID            string  `json:"id"`
	Top           float64 `json:"top"`
	Height        float64 `json:"height"`
	StartMinutes  int     `json:"start_minutes"` // после обрезки окном
	EndMinutes    int     `json:"end_minutes"`
	ClippedTop    bool    `json:"clipped_top"`
	ClippedBottom bool    `json:"clipped_bottom"`
	Preview       bool    `json:"preview"`
}

// Place вычисляет геометрию одного интервала. false - интервал вне окна.
func (w Window) Place(span Span) (Block, bool) {
	windowStart := w.StartMinutes()
	windowEnd := w.EndMinutes()

	if span.EndMinutes <= windowStart || span.StartMinutes >= windowEnd {
		return Block{}, false
	}

	start := max(span.StartMinutes, windowStart)
	end := min(span.EndMinutes, windowEnd)
	if end <= start {
		return Block{}, false
	}

	top := (float64(start)/60 - float64(w.StartHour)) * w.HourHeight
	height := float64(end-start) / 60 * w.HourHeight
	if height < w.MinHeight {
		height = w.MinHeight
	}

	return Block{
		ID:            span.ID,
		Top:           top,
		Height:        height,
		StartMinutes:  start,
		EndMinutes:    end,
		ClippedTop:    span.StartMinutes < windowStart,
		ClippedBottom: span.EndMinutes > windowEnd,
	}, true
}

// Layout раскладывает интервалы колонки. Пересечения рисуются поверх друг друга
// на всю ширину, порядок сохраняется (последний сверху). previews подменяют интервал
// события на время перетаскивания края.
func (w Window) Layout(spans []Span, previews map[string]Span) []Block {
	blocks := make([]Block, 0, len(spans))
	for _, span := range spans {
		preview := false
		if p, ok := previews[span.ID]; ok {
			span.StartMinutes = p.StartMinutes
			span.EndMinutes = p.EndMinutes
			preview = true
		}

		block, ok := w.Place(span)
		if !ok {
			continue
		}
		block.Preview = preview
		blocks = append(blocks, block)
	}
	return blocks
}

// NowOffset возвращает вертикальное положение линии текущего времени
func (w Window) NowOffset(minutes int) (float64, bool) {
	if minutes < w.StartMinutes() || minutes >= w.EndMinutes() {
		return 0, false
	}
	return (float64(minutes)/60 - float64(w.StartHour)) * w.HourHeight, true
}

// HourAt возвращает час ячейки под указателем и смещение внутри ячейки
func (w Window) HourAt(y float64) (int, float64) {
	if y < 0 {
		y = 0
	}
	idx := int(math.Floor(y / w.HourHeight))
	if idx >= w.HourCount {
		idx = w.HourCount - 1
	}
	return w.StartHour + idx, y - float64(idx)*w.HourHeight
}

// MinuteAt переводит вертикальную координату в абсолютную минуту суток,
// квантованную вниз до 15 минут и ограниченную [0, 1440).
func (w Window) MinuteAt(y float64) int {
	raw := float64(w.StartMinutes()) + y/w.HourHeight*60
	return Quantize(int(math.Floor(raw)))
}

// Quantize округляет минуты вниз до шага сетки и ограничивает [0, 1440-15]
func Quantize(minutes int) int {
	if minutes < 0 {
		return 0
	}
	q := minutes - minutes%QuantumMinutes
	if q > tzclock.MinutesPerDay-QuantumMinutes {
		q = tzclock.MinutesPerDay - QuantumMinutes
	}
	return q
}
