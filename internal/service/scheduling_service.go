package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/schedule_grid/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PreferenceSyncTargets ключ предпочтения с последними выбранными внешними календарями
const PreferenceSyncTargets = "sync_targets"

type EventStore interface {
	Create(ctx context.Context, ev *model.CalendarEvent) error
	GetByID(ctx context.Context, id string) (*model.CalendarEvent, error)
	ListRange(ctx context.Context, from, to time.Time) ([]model.CalendarEvent, error)
	Modify(ctx context.Context, id string, fn func(ev *model.CalendarEvent) error) (*model.CalendarEvent, error)
}

type SettingsStore interface {
	Get(ctx context.Context) (*model.AvailabilitySettings, error)
	Save(ctx context.Context, s model.AvailabilitySettings) error
}

type PreferenceStore interface {
	Get(ctx context.Context, key string) ([]string, error)
	Set(ctx context.Context, key string, values []string) error
}

type ContactStore interface {
	List(ctx context.Context, search string, limit int) ([]model.Contact, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// SchedulingService внешний сервис планирования: создание событий, переходы статусов,
// настройки доступности, предпочтения и контакты
type SchedulingService struct {
	events   EventStore
	settings SettingsStore
	prefs    PreferenceStore
	contacts ContactStore
	logger   *zap.Logger
}

func NewSchedulingService(
	events EventStore,
	settings SettingsStore,
	prefs PreferenceStore,
	contacts ContactStore,
	logger *zap.Logger,
) *SchedulingService {
	return &SchedulingService{
		events:   events,
		settings: settings,
		prefs:    prefs,
		contacts: contacts,
		logger:   logger,
	}
}

// CreateEvent проверяет и сохраняет новое событие, затем запоминает выбранные внешние календари
func (s *SchedulingService) CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.CalendarEvent, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if !req.EventType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, req.EventType)
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidTimeRange
	}
	for _, target := range req.SyncTargets {
		if target != model.SyncTargetGoogle && target != model.SyncTargetOutlook {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSyncTarget, target)
		}
	}

	if req.ContactID != nil {
		if _, err := uuid.Parse(*req.ContactID); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrContactNotFound, *req.ContactID)
		}
		exists, err := s.contacts.Exists(ctx, *req.ContactID)
		if err != nil {
			return nil, fmt.Errorf("check contact: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: %s", ErrContactNotFound, *req.ContactID)
		}
	}

	ev := &model.CalendarEvent{
		ID:        uuid.NewString(),
		Title:     title,
		StartTime: req.StartTime.UTC(),
		EndTime:   req.EndTime.UTC(),
		EventType: req.EventType,
		Status:    model.EventStatusScheduled,
		Source:    model.EventSourceManual,
		ContactID: req.ContactID,
	}
	if req.Notes != nil {
		ev.Notes = strings.TrimSpace(*req.Notes)
	}

	if err := s.events.Create(ctx, ev); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.logger.Info("Event created",
		zap.String("event_id", ev.ID),
		zap.String("event_type", string(ev.EventType)),
		zap.Time("start", ev.StartTime),
		zap.Time("end", ev.EndTime),
	)

	if req.SyncTargets != nil {
		// событие уже создано: ошибка сохранения предпочтений не откатывает его
		if err := s.SaveSyncTargets(ctx, req.SyncTargets); err != nil {
			s.logger.Warn("Failed to save sync targets", zap.String("event_id", ev.ID), zap.Error(err))
		}
	}

	return ev, nil
}

// UpdateEvent применяет переход статуса или перенос атомарно
func (s *SchedulingService) UpdateEvent(ctx context.Context, req model.UpdateEventRequest) (*model.CalendarEvent, error) {
	if _, err := uuid.Parse(req.EventID); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, req.EventID)
	}
	if !req.Action.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}

	ev, err := s.events.Modify(ctx, req.EventID, func(ev *model.CalendarEvent) error {
		return ApplyAction(ev, req)
	})
	if err != nil {
		if IsValidation(err) {
			return nil, err
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	if ev == nil {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, req.EventID)
	}

	s.logger.Info("Event updated",
		zap.String("event_id", ev.ID),
		zap.String("action", string(req.Action)),
		zap.String("status", string(ev.Status)),
	)

	return ev, nil
}

// GetEvent возвращает событие по ID
func (s *SchedulingService) GetEvent(ctx context.Context, id string) (*model.CalendarEvent, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}

	ev, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if ev == nil {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}
	return ev, nil
}

// ListEvents возвращает события, пересекающие [from, to)
func (s *SchedulingService) ListEvents(ctx context.Context, from, to time.Time) ([]model.CalendarEvent, error) {
	if !to.After(from) {
		return nil, ErrInvalidTimeRange
	}

	events, err := s.events.ListRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// ResolveSettings возвращает сохранённые настройки, а если их нет - seed.
// Сохранённые настройки, не прошедшие проверку, игнорируются с предупреждением.
func (s *SchedulingService) ResolveSettings(ctx context.Context, seed model.AvailabilitySettings) (model.AvailabilitySettings, error) {
	stored, err := s.settings.Get(ctx)
	if err != nil {
		return model.AvailabilitySettings{}, fmt.Errorf("get settings: %w", err)
	}
	if stored == nil {
		return seed, nil
	}

	if err := stored.Validate(); err != nil {
		s.logger.Warn("Stored availability settings are invalid, using file settings", zap.Error(err))
		return seed, nil
	}

	return *stored, nil
}

// SaveSettings проверяет и сохраняет настройки доступности
func (s *SchedulingService) SaveSettings(ctx context.Context, settings model.AvailabilitySettings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	if err := s.settings.Save(ctx, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	s.logger.Info("Availability settings saved",
		zap.String("timezone", settings.Timezone),
		zap.String("start", settings.WorkingHoursStart),
		zap.String("end", settings.WorkingHoursEnd),
	)
	return nil
}

// SyncTargets возвращает последние выбранные внешние календари
func (s *SchedulingService) SyncTargets(ctx context.Context) ([]model.SyncTarget, error) {
	values, err := s.prefs.Get(ctx, PreferenceSyncTargets)
	if err != nil {
		return nil, fmt.Errorf("get sync targets: %w", err)
	}

	targets := make([]model.SyncTarget, 0, len(values))
	for _, v := range values {
		targets = append(targets, model.SyncTarget(v))
	}
	return targets, nil
}

// SaveSyncTargets запоминает выбранные внешние календари
func (s *SchedulingService) SaveSyncTargets(ctx context.Context, targets []model.SyncTarget) error {
	values := make([]string, 0, len(targets))
	for _, t := range targets {
		values = append(values, string(t))
	}
	return s.prefs.Set(ctx, PreferenceSyncTargets, values)
}

// Contacts возвращает контакты для выбора в панели создания
func (s *SchedulingService) Contacts(ctx context.Context, search string, limit int) ([]model.Contact, error) {
	contacts, err := s.contacts.List(ctx, strings.TrimSpace(search), limit)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

// IsNotFound проверяет, что событие не найдено
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEventNotFound)
}
