package render

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"

	"github.com/Freeeeeet/schedule_grid/internal/grid"
	"github.com/Freeeeeet/schedule_grid/internal/model"
	"github.com/Freeeeeet/schedule_grid/internal/orchestrator"
	"github.com/Freeeeeet/schedule_grid/internal/tzclock"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

var ErrNoColumns = errors.New("snapshot has no day columns")

// Константы размеров и отступов
const (
	imageWidth        = 1400
	imageHeight       = 900
	headerHeight      = 100
	bannerHeight      = 18
	leftLabelsWidth   = 80
	legendWidth       = 150
	dayPaddingX       = 8
	blockBorderRadius = 6.0
	shadowOffset      = 3.0
	titleMaxChars     = 22
)

// Цветовая схема
var (
	bgColor            = color.RGBA{245, 246, 248, 255}
	textColor          = color.RGBA{80, 85, 90, 220}
	hourLabelColor     = color.RGBA{110, 115, 120, 200}
	hourLineColor      = color.NRGBA{150, 150, 150, 255}
	todayBgColor       = color.NRGBA{255, 99, 71, 60}
	evenDayColor       = color.NRGBA{240, 240, 240, 255}
	oddDayColor        = color.NRGBA{228, 228, 228, 255}
	offHoursColor      = color.NRGBA{120, 120, 130, 40}
	nonWorkingDayColor = color.NRGBA{190, 190, 200, 255}
	holidayColor       = color.RGBA{255, 214, 102, 255}
	currentTimeColor   = color.NRGBA{255, 80, 80, 200}

	blockTextColor   = color.RGBA{20, 24, 28, 230}
	blockShadowColor = color.RGBA{0, 0, 0, 20}

	legendTextColor = color.RGBA{70, 74, 78, 220}
)

var statusColors = map[model.EventStatus]color.RGBA{
	model.EventStatusScheduled:           {120, 170, 230, 230},
	model.EventStatusConfirmed:           {133, 193, 85, 220},
	model.EventStatusPendingConfirmation: {250, 210, 110, 230},
	model.EventStatusRescheduled:         {180, 150, 220, 230},
	model.EventStatusCompleted:           {158, 158, 158, 200},
	model.EventStatusNoShow:              {255, 182, 193, 255},
}

// StatusColor возвращает цвет блока по статусу события
func StatusColor(s model.EventStatus) color.RGBA {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return color.RGBA{220, 220, 220, 200}
}

// WeekImage рисует колонки недельного или дневного вида в PNG.
// Геометрия блоков берётся из сетки и масштабируется под высоту изображения.
func WeekImage(snap orchestrator.Snapshot, bounds model.WorkingBounds) ([]byte, error) {
	if len(snap.Columns) == 0 {
		return nil, ErrNoColumns
	}

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	window := snap.Window
	dayWidth := float64(imageWidth-leftLabelsWidth-legendWidth) / float64(len(snap.Columns))
	dayHeight := float64(imageHeight - headerHeight)
	scale := dayHeight / window.Height()

	drawHeader(dc, snap)
	drawHourLabels(dc, window, scale)

	for i, col := range snap.Columns {
		x := float64(leftLabelsWidth) + float64(i)*dayWidth
		drawColumn(dc, col, i, x, dayWidth, dayHeight, window, scale, bounds)
	}

	if snap.Now.Visible {
		drawNowLine(dc, snap, dayWidth, scale)
	}
	drawLegend(dc, float64(leftLabelsWidth)+float64(len(snap.Columns))*dayWidth+12)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// drawHeader рисует заголовок с месяцем, часовым поясом и рабочими часами
func drawHeader(dc *gg.Context, snap orchestrator.Snapshot) {
	first := snap.Columns[0].Date
	last := snap.Columns[len(snap.Columns)-1].Date

	title := fmt.Sprintf("%s %d", first.Month, first.Year)
	if first.Month != last.Month {
		title = fmt.Sprintf("%s - %s %d", first.Month, last.Month, last.Year)
	}

	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, 12, 20, 0, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%s, working hours %s", snap.Timezone, snap.WorkingHours), 12, 38, 0, 0.5)
}

// drawHourLabels рисует колонку с часами слева
func drawHourLabels(dc *gg.Context, window grid.Window, scale float64) {
	dc.SetColor(hourLabelColor)
	for h := 0; h <= window.HourCount; h++ {
		y := float64(headerHeight) + float64(h)*window.HourHeight*scale
		label := tzclock.FormatMinutes((window.StartHour + h) * 60)
		dc.DrawStringAnchored(label, float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

func drawColumn(dc *gg.Context, col orchestrator.Column, index int, x, width, height float64, window grid.Window, scale float64, bounds model.WorkingBounds) {
	y := float64(headerHeight)

	// фон дня
	switch {
	case !col.IsWorkingDay:
		dc.SetColor(nonWorkingDayColor)
	case index%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, width, height)
	dc.Fill()

	if col.IsToday {
		dc.SetColor(todayBgColor)
		dc.DrawRectangle(x, y, width, height)
		dc.Fill()
	}

	// нерабочие часы рабочего дня
	if col.IsWorkingDay {
		shadeMinutes(dc, x, width, window, scale, window.StartMinutes(), bounds.StartHour()*60)
		shadeMinutes(dc, x, width, window, scale, bounds.EndHour()*60, window.EndMinutes())
	}

	// линии часов
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)
	for h := 0; h <= window.HourCount; h++ {
		hy := y + float64(h)*window.HourHeight*scale
		dc.DrawLine(x, hy, x+width, hy)
		dc.Stroke()
	}

	// заголовок дня
	dc.SetColor(textColor)
	label := fmt.Sprintf("%s %02d.%02d", col.Date.Weekday().String()[:3], col.Date.Day, int(col.Date.Month))
	dc.DrawStringAnchored(label, x+width/2, y-bannerHeight-12, 0.5, 0.5)

	if col.Holiday != "" {
		dc.SetColor(holidayColor)
		dc.DrawRectangle(x+2, y-bannerHeight-2, width-4, bannerHeight)
		dc.Fill()
		dc.SetColor(textColor)
		dc.DrawStringAnchored(truncate(col.Holiday, int(width/7)-1), x+width/2, y-bannerHeight/2-2, 0.5, 0.5)
	}

	events := make(map[string]model.CalendarEvent, len(col.Events))
	for _, ev := range col.Events {
		events[ev.ID] = ev
	}
	for _, block := range col.Blocks {
		drawBlock(dc, block, events[block.ID], x, width, scale)
	}
}

func shadeMinutes(dc *gg.Context, x, width float64, window grid.Window, scale float64, from, to int) {
	from = max(from, window.StartMinutes())
	to = min(to, window.EndMinutes())
	if to <= from {
		return
	}
	top := float64(headerHeight) + float64(from-window.StartMinutes())/60*window.HourHeight*scale
	h := float64(to-from) / 60 * window.HourHeight * scale

	dc.SetColor(offHoursColor)
	dc.DrawRectangle(x, top, width, h)
	dc.Fill()
}

// drawBlock рисует одно событие
func drawBlock(dc *gg.Context, block grid.Block, ev model.CalendarEvent, x, width, scale float64) {
	top := float64(headerHeight) + block.Top*scale
	height := block.Height * scale
	blockWidth := width - dayPaddingX*2
	fill := StatusColor(ev.Status)

	// Тень
	dc.SetColor(blockShadowColor)
	dc.DrawRoundedRectangle(x+dayPaddingX+shadowOffset, top+1+shadowOffset, blockWidth, height-2, blockBorderRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x+dayPaddingX, top+1, blockWidth, height-2, blockBorderRadius)
	dc.Fill()

	// Рамка
	dc.SetColor(darkenColor(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x+dayPaddingX, top+1, blockWidth, height-2, blockBorderRadius)
	dc.Stroke()

	dc.SetColor(blockTextColor)
	txtX := x + dayPaddingX + 6
	dc.DrawStringAnchored(tzclock.FormatMinutes(block.StartMinutes), txtX, top+10, 0, 0.5)
	if height > 28 {
		dc.DrawStringAnchored(truncate(ev.Title, titleMaxChars), txtX, top+24, 0, 0.5)
	}
}

// darkenColor затемняет цвет на указанный множитель
func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// drawNowLine рисует красную линию текущего времени через колонку сегодняшнего дня
func drawNowLine(dc *gg.Context, snap orchestrator.Snapshot, dayWidth, scale float64) {
	for i, col := range snap.Columns {
		if col.Date != snap.Now.Date {
			continue
		}
		x := float64(leftLabelsWidth) + float64(i)*dayWidth
		y := float64(headerHeight) + snap.Now.Offset*scale

		dc.SetColor(currentTimeColor)
		dc.SetLineWidth(2.0)
		dc.DrawLine(x, y, x+dayWidth, y)
		dc.Stroke()
		dc.DrawCircle(x, y, 4)
		dc.Fill()
	}
}

// drawLegend рисует легенду статусов справа
func drawLegend(dc *gg.Context, legendX float64) {
	items := []model.EventStatus{
		model.EventStatusScheduled,
		model.EventStatusPendingConfirmation,
		model.EventStatusConfirmed,
		model.EventStatusRescheduled,
		model.EventStatusCompleted,
		model.EventStatusNoShow,
	}

	boxW, boxH := 20.0, 14.0
	y := float64(imageHeight) - float64(len(items))*(boxH+12) - 20

	for _, status := range items {
		dc.SetColor(StatusColor(status))
		dc.DrawRoundedRectangle(legendX, y, boxW, boxH, 3)
		dc.Fill()

		dc.SetColor(legendTextColor)
		dc.DrawStringAnchored(string(status), legendX+boxW+6, y+boxH/2, 0, 0.5)
		y += boxH + 12
	}
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if limit <= 0 || len(r) <= limit {
		return s
	}
	if limit <= 3 {
		return string(r[:limit])
	}
	return string(r[:limit-3]) + "..."
}
