package orchestrator

import (
	"errors"
	"sort"
	"time"

	"github.com/Freeeeeet/schedule_grid/internal/availability"
	"github.com/Freeeeeet/schedule_grid/internal/gesture"
	"github.com/Freeeeeet/schedule_grid/internal/grid"
	"github.com/Freeeeeet/schedule_grid/internal/model"
	"github.com/Freeeeeet/schedule_grid/internal/tzclock"
	"go.uber.org/zap"
)

var (
	ErrNoCreatePanel  = errors.New("no create panel is open")
	ErrCreatePending  = errors.New("create request is already in flight")
	ErrEventNotLoaded = errors.New("event is not shown in the current view")
	ErrEventFinished  = errors.New("event is finished and cannot be resized")
	ErrInvalidEdge    = errors.New("invalid resize edge")
	ErrInvalidAction  = errors.New("invalid event action")
)

// Options параметры оркестратора
type Options struct {
	Window      grid.Window
	AgendaDays  int
	SyncTargets []model.SyncTarget
	Logger      *zap.Logger
}

// Orchestrator держит дату и режим просмотра, фильтр, коллекцию событий и состояние
// жестов. Пересчитывает сетки при каждом изменении входных данных.
// Не потокобезопасен: вызывающая сторона сериализует сообщения одной сессии.
type Orchestrator struct {
	avail  *availability.Model
	clock  *tzclock.Clock
	window grid.Window
	logger *zap.Logger

	mode       Mode
	viewDate   tzclock.Date
	filter     map[model.EventType]bool
	agendaDays int

	events  []model.CalendarEvent
	visible []model.CalendarEvent

	holidays     map[string]string
	holidaysYear int

	month   []MonthCell
	columns []Column
	agenda  []AgendaDay

	gesture     gesture.State
	panel       Panel
	nowAt       time.Time
	syncTargets []model.SyncTarget
}

// New создаёт оркестратор на сегодняшнюю дату в недельном режиме
func New(avail *availability.Model, opts Options) *Orchestrator {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Window.HourCount <= 0 {
		opts.Window = grid.DefaultWindow()
	}
	if opts.AgendaDays <= 0 {
		opts.AgendaDays = defaultAgendaDays
	}

	o := &Orchestrator{
		avail:       avail,
		clock:       avail.Clock(),
		window:      opts.Window,
		logger:      opts.Logger,
		mode:        ModeWeek,
		agendaDays:  opts.AgendaDays,
		filter:      make(map[model.EventType]bool),
		gesture:     gesture.Idle{},
		syncTargets: opts.SyncTargets,
	}
	o.viewDate = o.clock.Today()
	o.recompute()
	o.Tick(o.clock.Now())

	return o
}

// ========================
// Входные данные
// ========================

// SetEvents заменяет коллекцию событий
func (o *Orchestrator) SetEvents(events []model.CalendarEvent) {
	o.events = append([]model.CalendarEvent(nil), events...)
	o.recompute()
}

// UpsertEvent заменяет событие целиком (или добавляет новое) после ответа сервиса
func (o *Orchestrator) UpsertEvent(event model.CalendarEvent) {
	for i := range o.events {
		if o.events[i].ID == event.ID {
			o.events[i] = event
			o.recompute()
			return
		}
	}
	o.events = append(o.events, event)
	o.recompute()
}

// SetFilter оставляет только указанные типы событий. Пустой список - все типы.
func (o *Orchestrator) SetFilter(types ...model.EventType) {
	o.filter = make(map[model.EventType]bool, len(types))
	for _, t := range types {
		o.filter[t] = true
	}
	o.recompute()
}

// SetMode переключает режим просмотра
func (o *Orchestrator) SetMode(mode Mode) {
	o.mode = mode
	o.recompute()
}

// SetViewDate переходит к дате
func (o *Orchestrator) SetViewDate(d tzclock.Date) {
	o.viewDate = d
	o.recompute()
}

// SetSyncTargets задаёт внешние календари по умолчанию для новых событий
func (o *Orchestrator) SetSyncTargets(targets []model.SyncTarget) {
	o.syncTargets = append([]model.SyncTarget(nil), targets...)
}

// Next переходит вперёд на месяц, неделю или день в зависимости от режима
func (o *Orchestrator) Next() {
	o.shift(1)
}

// Prev переходит назад
func (o *Orchestrator) Prev() {
	o.shift(-1)
}

// Today возвращает вид к сегодняшней дате
func (o *Orchestrator) Today() {
	o.SetViewDate(o.clock.Today())
}

func (o *Orchestrator) shift(dir int) {
	switch o.mode {
	case ModeMonth:
		o.viewDate = o.viewDate.AddMonths(dir)
	case ModeDay:
		o.viewDate = o.viewDate.AddDays(dir)
	default:
		o.viewDate = o.viewDate.AddDays(dir * daysInWeek)
	}
	o.recompute()
}

// ========================
// Пересчёт видов
// ========================

func (o *Orchestrator) recompute() {
	o.visible = o.filterEvents()

	if o.holidays == nil || o.holidaysYear != o.viewDate.Year {
		if cal := o.avail.Holidays(); cal != nil {
			o.holidays = cal.Around(o.viewDate.Year)
		} else {
			o.holidays = map[string]string{}
		}
		o.holidaysYear = o.viewDate.Year
	}

	byDate := o.bucketByDate()
	today := o.clock.Today()

	o.month = o.buildMonth(byDate, today)
	o.columns = o.buildColumns(byDate, today)
	o.agenda = o.buildAgenda(byDate)
}

func (o *Orchestrator) filterEvents() []model.CalendarEvent {
	return o.Filter(o.events)
}

// Filter отбрасывает отменённые события и события вне фильтра по типу,
// остальные сортирует по началу. Исходный срез не меняется.
func (o *Orchestrator) Filter(events []model.CalendarEvent) []model.CalendarEvent {
	visible := make([]model.CalendarEvent, 0, len(events))
	for _, ev := range events {
		if ev.Status == model.EventStatusCancelled {
			continue
		}
		if len(o.filter) > 0 && !o.filter[ev.EventType] {
			continue
		}
		visible = append(visible, ev)
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].StartTime.Before(visible[j].StartTime)
	})
	return visible
}

// bucketByDate группирует события по гражданской дате начала в часовом поясе компании
func (o *Orchestrator) bucketByDate() map[tzclock.Date][]model.CalendarEvent {
	byDate := make(map[tzclock.Date][]model.CalendarEvent)
	for _, ev := range o.visible {
		d := o.clock.DateOf(ev.StartTime)
		byDate[d] = append(byDate[d], ev)
	}
	return byDate
}

func (o *Orchestrator) buildMonth(byDate map[tzclock.Date][]model.CalendarEvent, today tzclock.Date) []MonthCell {
	first := o.viewDate.FirstOfMonth()
	start := first.StartOfWeek()

	cells := make([]MonthCell, 0, monthGridCells)
	for i := 0; i < monthGridCells; i++ {
		d := start.AddDays(i)
		cells = append(cells, MonthCell{
			Date:    d,
			InMonth: d.Month == first.Month,
			IsToday: d == today,
			Holiday: o.holidays[d.String()],
			Events:  byDate[d],
		})
	}
	return cells
}

func (o *Orchestrator) columnDates() []tzclock.Date {
	if o.mode == ModeDay {
		return []tzclock.Date{o.viewDate}
	}
	start := o.viewDate.StartOfWeek()
	dates := make([]tzclock.Date, 0, daysInWeek)
	for i := 0; i < daysInWeek; i++ {
		dates = append(dates, start.AddDays(i))
	}
	return dates
}

func (o *Orchestrator) buildColumns(byDate map[tzclock.Date][]model.CalendarEvent, today tzclock.Date) []Column {
	dates := o.columnDates()
	columns := make([]Column, 0, len(dates))
	for _, d := range dates {
		events := byDate[d]
		spans := make([]grid.Span, 0, len(events))
		for _, ev := range events {
			spans = append(spans, grid.Span{
				ID:           ev.ID,
				StartMinutes: o.clock.MinutesInto(d, ev.StartTime),
				EndMinutes:   o.clock.MinutesInto(d, ev.EndTime),
			})
		}
		columns = append(columns, Column{
			Date:         d,
			Holiday:      o.holidays[d.String()],
			IsWorkingDay: o.avail.IsWorkingDay(d),
			IsToday:      d == today,
			Events:       events,
			spans:        spans,
		})
	}
	return columns
}

func (o *Orchestrator) buildAgenda(byDate map[tzclock.Date][]model.CalendarEvent) []AgendaDay {
	var days []AgendaDay
	for i := 0; i < o.agendaDays; i++ {
		d := o.viewDate.AddDays(i)
		events := byDate[d]
		if len(events) == 0 {
			continue
		}
		days = append(days, AgendaDay{
			Date:    d,
			Holiday: o.holidays[d.String()],
			Events:  events,
		})
	}
	return days
}

// ========================
// Доступ к видам
// ========================

// Mode возвращает режим просмотра
func (o *Orchestrator) Mode() Mode { return o.mode }

// ViewDate возвращает дату просмотра
func (o *Orchestrator) ViewDate() tzclock.Date { return o.viewDate }

// Window возвращает окно сетки
func (o *Orchestrator) Window() grid.Window { return o.window }

// Availability возвращает модель доступности
func (o *Orchestrator) Availability() *availability.Model { return o.avail }

// Panel возвращает открытую панель
func (o *Orchestrator) Panel() Panel { return o.panel }

// Gesture возвращает текущее состояние жеста
func (o *Orchestrator) Gesture() gesture.State { return o.gesture }

// SyncTargets возвращает внешние календари по умолчанию
func (o *Orchestrator) SyncTargets() []model.SyncTarget { return o.syncTargets }

// MonthGrid возвращает 42 ячейки месяца, начиная с понедельника первой недели
func (o *Orchestrator) MonthGrid() []MonthCell {
	return o.month
}

// Columns возвращает колонки недели (7) или дня (1) с геометрией событий.
// Активный предпросмотр изменения размера подменяет положение своего события.
func (o *Orchestrator) Columns() []Column {
	previews := o.previews()

	out := make([]Column, len(o.columns))
	for i, col := range o.columns {
		col.Blocks = o.window.Layout(col.spans, previews)
		out[i] = col
	}
	return out
}

// Agenda возвращает список событий по дням начиная с даты просмотра
func (o *Orchestrator) Agenda() []AgendaDay {
	return o.agenda
}

// Holidays возвращает карту праздников для года даты просмотра и соседних лет
func (o *Orchestrator) Holidays() map[string]string {
	return o.holidays
}

// Visible возвращает события после фильтра, отсортированные по началу
func (o *Orchestrator) Visible() []model.CalendarEvent {
	return o.visible
}

// VisibleRange возвращает интервал моментов [from, to), покрывающий текущий вид.
// По нему загружаются события.
func (o *Orchestrator) VisibleRange() (time.Time, time.Time) {
	var first, last tzclock.Date

	switch o.mode {
	case ModeMonth:
		first = o.viewDate.FirstOfMonth().StartOfWeek()
		last = first.AddDays(monthGridCells)
	case ModeAgenda:
		first = o.viewDate
		last = first.AddDays(o.agendaDays)
	default:
		dates := o.columnDates()
		first = dates[0]
		last = dates[len(dates)-1].AddDays(1)
	}

	return o.clock.StartOfDay(first), o.clock.StartOfDay(last)
}

// Event ищет событие в текущей коллекции, включая отменённые и скрытые фильтром
func (o *Orchestrator) Event(id string) (model.CalendarEvent, bool) {
	for _, ev := range o.events {
		if ev.ID == id {
			return ev, true
		}
	}
	return model.CalendarEvent{}, false
}

// shown ищет событие среди отображаемых. Жесты, панели и действия работают только с ними.
func (o *Orchestrator) shown(id string) (model.CalendarEvent, bool) {
	for _, ev := range o.visible {
		if ev.ID == id {
			return ev, true
		}
	}
	return model.CalendarEvent{}, false
}

func (o *Orchestrator) previews() map[string]grid.Span {
	r, ok := o.gesture.(gesture.Resizing)
	if !ok {
		return nil
	}
	return map[string]grid.Span{
		r.EventID: {ID: r.EventID, StartMinutes: r.Preview.StartMinutes, EndMinutes: r.Preview.EndMinutes},
	}
}

// Snapshot собирает состояние вида для клиента
func (o *Orchestrator) Snapshot() Snapshot {
	snap := Snapshot{
		Mode:         o.mode,
		ViewDate:     o.viewDate,
		Timezone:     o.clock.Name(),
		WorkingHours: o.avail.Label(),
		Window:       o.window,
		Panel:        o.panel,
		Now:          o.Now(),
		SyncTargets:  o.syncTargets,
	}

	for t := range o.filter {
		snap.Filter = append(snap.Filter, t)
	}
	sort.Slice(snap.Filter, func(i, j int) bool { return snap.Filter[i] < snap.Filter[j] })

	if r, ok := o.gesture.(gesture.Resizing); ok {
		snap.Previews = []gesture.Preview{r.Preview}
	}

	switch o.mode {
	case ModeMonth:
		snap.Month = o.MonthGrid()
	case ModeAgenda:
		snap.Agenda = o.Agenda()
	default:
		snap.Columns = o.Columns()
	}
	return snap
}

// ========================
// Текущее время
// ========================

// Tick пересчитывает линию текущего времени. Вызывается раз в минуту.
func (o *Orchestrator) Tick(now time.Time) NowIndicator {
	prev := o.nowAt
	o.nowAt = now
	if !prev.IsZero() && o.clock.DateOf(prev) != o.clock.DateOf(now) {
		// смена суток меняет подсветку сегодняшнего дня
		o.recompute()
	}
	return o.Now()
}

// Now возвращает линию текущего времени для последнего тика и текущего вида
func (o *Orchestrator) Now() NowIndicator {
	civil := o.clock.Civil(o.nowAt)
	indicator := NowIndicator{
		Date:    civil.Date(),
		Minutes: civil.Minutes(),
	}

	if o.mode != ModeWeek && o.mode != ModeDay {
		return indicator
	}
	for _, d := range o.columnDates() {
		if d != indicator.Date {
			continue
		}
		if offset, ok := o.window.NowOffset(indicator.Minutes); ok {
			indicator.Offset = offset
			indicator.Visible = true
		}
	}
	return indicator
}
