package orchestrator

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/schedule_grid/internal/gesture"
	"github.com/Freeeeeet/schedule_grid/internal/model"
	"github.com/Freeeeeet/schedule_grid/internal/tzclock"
	"go.uber.org/zap"
)

// Commit результат отпускания указателя
type Commit struct {
	// Panel заполняется, когда выделение открыло панель создания
	Panel *CreatePanel
	// Reschedule заполняется, когда изменение размера нужно отправить сервису
	Reschedule *model.UpdateEventRequest
}

// CreateDraft данные, введённые в панели создания
type CreateDraft struct {
	Title           string             `json:"title"`
	EventType       model.EventType    `json:"event_type"`
	ContactID       *string            `json:"contact_id,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	DurationMinutes int                `json:"duration_minutes,omitempty"` // 0 - из выделения
	SyncTargets     []model.SyncTarget `json:"sync_targets,omitempty"`
}

// PointerDown нажатие в пустой области колонки дня. y - смещение от верха сетки.
// Возвращает false, если уже идёт другой жест.
func (o *Orchestrator) PointerDown(day tzclock.Date, y float64) bool {
	if _, idle := o.gesture.(gesture.Idle); !idle {
		return false
	}

	o.panel = Panel{}
	hour, offset := o.window.HourAt(y)
	o.gesture = gesture.StartSelection(day, hour, offset, o.window.HourHeight)
	return true
}

// EdgeDown нажатие на верхний или нижний край события
func (o *Orchestrator) EdgeDown(eventID string, edge gesture.Edge) error {
	if !edge.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidEdge, edge)
	}
	if _, idle := o.gesture.(gesture.Idle); !idle {
		return nil
	}

	ev, ok := o.shown(eventID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrEventNotLoaded, eventID)
	}
	if ev.Status.Terminal() {
		return fmt.Errorf("%w: %s is %s", ErrEventFinished, eventID, ev.Status)
	}

	day := o.clock.DateOf(ev.StartTime)
	start := o.clock.MinutesInto(day, ev.StartTime)
	end := o.clock.MinutesInto(day, ev.EndTime)

	// жесты взаимоисключающие: начало изменения размера закрывает любую панель
	o.panel = Panel{}
	o.gesture = gesture.StartResize(eventID, day, edge, start, end)
	return nil
}

// PointerMove движение указателя. Только локальная геометрия, без ввода-вывода.
func (o *Orchestrator) PointerMove(y float64) {
	minute := o.window.MinuteAt(y)

	switch g := o.gesture.(type) {
	case gesture.Dragging:
		o.gesture = g.Move(minute)
	case gesture.Resizing:
		o.gesture = g.Move(minute)
	}
}

// PointerUp завершает жест. Предпросмотр изменения размера сбрасывается всегда,
// независимо от того, чем закончится запрос к сервису.
func (o *Orchestrator) PointerUp() Commit {
	switch g := o.gesture.(type) {
	case gesture.Dragging:
		o.gesture = gesture.Idle{}
		return Commit{Panel: o.openCreatePanel(g.Release())}

	case gesture.Resizing:
		o.gesture = gesture.Idle{}
		if !g.Changed() {
			return Commit{}
		}
		req, err := o.rescheduleRequest(g)
		if err != nil {
			o.logger.Warn("Resize dropped", zap.String("event_id", g.EventID), zap.Error(err))
			return Commit{}
		}
		return Commit{Reschedule: req}
	}

	return Commit{}
}

func (o *Orchestrator) openCreatePanel(sel gesture.Selection) *CreatePanel {
	panel := &CreatePanel{
		Selection:       sel,
		Date:            sel.Day.String(),
		StartLabel:      tzclock.FormatMinutes(sel.StartMinutes),
		DurationMinutes: sel.Duration(),
		Advisory:        o.avail.Advise(sel.Day, sel.StartMinutes),
	}
	o.panel = Panel{Kind: PanelCreate, Create: panel}

	o.logger.Debug("Selection committed",
		zap.String("day", panel.Date),
		zap.String("start", panel.StartLabel),
		zap.Int("duration", panel.DurationMinutes),
		zap.Bool("outside_working_hours", panel.Advisory.OutsideWorkingHours),
	)
	return panel
}

func (o *Orchestrator) rescheduleRequest(r gesture.Resizing) (*model.UpdateEventRequest, error) {
	ev, ok := o.shown(r.EventID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEventNotLoaded, r.EventID)
	}

	p := r.Release()

	// неизменный край берётся из исходного события без пересчёта
	newStart := ev.StartTime
	if p.StartMinutes != r.OriginalStart {
		newStart = o.clock.Instant(r.Day, p.StartMinutes)
	}
	newEnd := ev.EndTime
	if p.EndMinutes != r.OriginalEnd {
		newEnd = o.clock.Instant(r.Day, p.EndMinutes)
	}

	o.logger.Debug("Resize committed",
		zap.String("event_id", r.EventID),
		zap.String("edge", string(r.Edge)),
		zap.Time("new_start", newStart),
		zap.Time("new_end", newEnd),
	)

	return &model.UpdateEventRequest{
		EventID:      r.EventID,
		Action:       model.EventActionReschedule,
		NewStartTime: &newStart,
		NewEndTime:   &newEnd,
	}, nil
}

// OpenEvent открывает панель просмотра события (закрывает панель создания)
func (o *Orchestrator) OpenEvent(eventID string) error {
	if _, ok := o.shown(eventID); !ok {
		return fmt.Errorf("%w: %s", ErrEventNotLoaded, eventID)
	}
	o.panel = Panel{Kind: PanelView, EventID: eventID}
	return nil
}

// Dismiss - Escape или клик вне панели: отбрасывает выделение без отправки.
// Уже отпущенное изменение размера не отменяется.
func (o *Orchestrator) Dismiss() {
	if _, dragging := o.gesture.(gesture.Dragging); dragging {
		o.gesture = gesture.Idle{}
	}
	o.panel = Panel{}
}

// SubmitCreate превращает открытую панель создания в запрос к сервису и помечает
// панель как ожидающую ответа. Ответ сервиса передаётся в FinishCreate.
// Предупреждение о нерабочем времени не блокирует отправку.
func (o *Orchestrator) SubmitCreate(draft CreateDraft) (model.CreateEventRequest, error) {
	if o.panel.Kind != PanelCreate || o.panel.Create == nil {
		return model.CreateEventRequest{}, ErrNoCreatePanel
	}
	if o.panel.Create.Pending {
		return model.CreateEventRequest{}, ErrCreatePending
	}
	sel := o.panel.Create.Selection

	duration := draft.DurationMinutes
	if duration <= 0 {
		duration = sel.Duration()
	}

	start := o.clock.Instant(sel.Day, sel.StartMinutes)
	end := start.Add(time.Duration(duration) * time.Minute)

	targets := draft.SyncTargets
	if targets == nil {
		targets = o.syncTargets
	}

	req := model.CreateEventRequest{
		Title:       strings.TrimSpace(draft.Title),
		StartTime:   start,
		EndTime:     end,
		EventType:   draft.EventType,
		ContactID:   draft.ContactID,
		SyncTargets: targets,
	}
	if notes := strings.TrimSpace(draft.Notes); notes != "" {
		req.Notes = &notes
	}

	o.panel.Create.Pending = true
	return req, nil
}

// FinishCreate применяет ответ сервиса к ожидающей панели: при успехе панель
// закрывается и событие попадает в коллекцию, при ошибке панель с выделением
// остаётся для повторной отправки. Панель, открытая новым жестом, не трогается.
func (o *Orchestrator) FinishCreate(created *model.CalendarEvent) {
	if o.panel.Kind == PanelCreate && o.panel.Create != nil && o.panel.Create.Pending {
		if created != nil {
			o.panel = Panel{}
		} else {
			o.panel.Create.Pending = false
		}
	}
	if created != nil {
		o.UpsertEvent(*created)
	}
}

// CloseEvent закрывает панель просмотра, если в ней открыто это событие
func (o *Orchestrator) CloseEvent(eventID string) {
	if o.panel.Kind == PanelView && o.panel.EventID == eventID {
		o.panel = Panel{}
	}
}

// ActionRequest собирает запрос перехода статуса для события из панели просмотра.
// Панель закрывается через CloseEvent после ответа сервиса.
func (o *Orchestrator) ActionRequest(eventID string, action model.EventAction) (model.UpdateEventRequest, error) {
	if !action.Valid() || action == model.EventActionReschedule {
		return model.UpdateEventRequest{}, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}
	if _, ok := o.shown(eventID); !ok {
		return model.UpdateEventRequest{}, fmt.Errorf("%w: %s", ErrEventNotLoaded, eventID)
	}
	return model.UpdateEventRequest{EventID: eventID, Action: action}, nil
}
