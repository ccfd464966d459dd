package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/schedule_grid/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryStore хранилище в памяти для всех интерфейсов сервиса
type memoryStore struct {
	mu       sync.Mutex
	events   map[string]model.CalendarEvent
	settings *model.AvailabilitySettings
	prefs    map[string][]string
	contacts []model.Contact
	prefErr  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		events: make(map[string]model.CalendarEvent),
		prefs:  make(map[string][]string),
	}
}

func (m *memoryStore) Create(_ context.Context, ev *model.CalendarEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev.CreatedAt = time.Now()
	ev.UpdatedAt = ev.CreatedAt
	m.events[ev.ID] = *ev
	return nil
}

func (m *memoryStore) GetByID(_ context.Context, id string) (*model.CalendarEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.events[id]
	if !ok {
		return nil, nil
	}
	return &ev, nil
}

func (m *memoryStore) ListRange(_ context.Context, from, to time.Time) ([]model.CalendarEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.CalendarEvent
	for _, ev := range m.events {
		if ev.StartTime.Before(to) && ev.EndTime.After(from) {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (m *memoryStore) Modify(_ context.Context, id string, fn func(ev *model.CalendarEvent) error) (*model.CalendarEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.events[id]
	if !ok {
		return nil, nil
	}
	if err := fn(&ev); err != nil {
		return nil, err
	}
	ev.UpdatedAt = time.Now()
	m.events[id] = ev
	return &ev, nil
}

type settingsStore struct{ *memoryStore }

func (s settingsStore) Get(_ context.Context) (*model.AvailabilitySettings, error) {
	return s.settings, nil
}

func (s settingsStore) Save(_ context.Context, settings model.AvailabilitySettings) error {
	s.settings = &settings
	return nil
}

type prefStore struct{ *memoryStore }

func (p prefStore) Get(_ context.Context, key string) ([]string, error) {
	return p.prefs[key], nil
}

func (p prefStore) Set(_ context.Context, key string, values []string) error {
	if p.prefErr != nil {
		return p.prefErr
	}
	p.prefs[key] = values
	return nil
}

type contactStore struct{ *memoryStore }

func (c contactStore) List(_ context.Context, _ string, _ int) ([]model.Contact, error) {
	return c.contacts, nil
}

func (c contactStore) Exists(_ context.Context, id string) (bool, error) {
	for _, ct := range c.contacts {
		if ct.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func newService(t *testing.T) (*SchedulingService, *memoryStore) {
	t.Helper()
	store := newMemoryStore()
	svc := NewSchedulingService(store, settingsStore{store}, prefStore{store}, contactStore{store}, zap.NewNop())
	return svc, store
}

func validCreate() model.CreateEventRequest {
	start := time.Date(2026, time.October, 13, 14, 15, 0, 0, time.UTC)
	return model.CreateEventRequest{
		Title:     " Intro call ",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		EventType: model.EventTypeCall,
	}
}

func TestCreateEvent(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	req := validCreate()
	req.SyncTargets = []model.SyncTarget{model.SyncTargetGoogle}

	ev, err := svc.CreateEvent(ctx, req)
	require.NoError(t, err)

	_, err = uuid.Parse(ev.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Intro call", ev.Title)
	assert.Equal(t, model.EventStatusScheduled, ev.Status)
	assert.Equal(t, model.EventSourceManual, ev.Source)
	assert.Contains(t, store.events, ev.ID)

	targets, err := svc.SyncTargets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.SyncTarget{model.SyncTargetGoogle}, targets)
}

func TestCreateEventValidation(t *testing.T) {
	missing := uuid.NewString()

	tests := []struct {
		name   string
		modify func(r *model.CreateEventRequest)
		want   error
	}{
		{"empty title", func(r *model.CreateEventRequest) { r.Title = "   " }, ErrEmptyTitle},
		{"unknown type", func(r *model.CreateEventRequest) { r.EventType = "lunch" }, ErrUnknownEventType},
		{"end before start", func(r *model.CreateEventRequest) { r.EndTime = r.StartTime.Add(-time.Minute) }, ErrInvalidTimeRange},
		{"zero length", func(r *model.CreateEventRequest) { r.EndTime = r.StartTime }, ErrInvalidTimeRange},
		{"unknown sync target", func(r *model.CreateEventRequest) { r.SyncTargets = []model.SyncTarget{"icloud"} }, ErrUnknownSyncTarget},
		{"missing contact", func(r *model.CreateEventRequest) { r.ContactID = &missing }, ErrContactNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newService(t)
			req := validCreate()
			tt.modify(&req)

			_, err := svc.CreateEvent(context.Background(), req)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsValidation(err))
			assert.Empty(t, store.events)
		})
	}
}

func TestCreateEventWithContact(t *testing.T) {
	svc, store := newService(t)
	contactID := uuid.NewString()
	store.contacts = []model.Contact{{ID: contactID, Name: "Ann"}}

	req := validCreate()
	req.ContactID = &contactID

	ev, err := svc.CreateEvent(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, ev.ContactID)
	assert.Equal(t, contactID, *ev.ContactID)
}

func TestCreateEventSurvivesPreferenceFailure(t *testing.T) {
	svc, store := newService(t)
	store.prefErr = errors.New("db is down")

	req := validCreate()
	req.SyncTargets = []model.SyncTarget{model.SyncTargetOutlook}

	ev, err := svc.CreateEvent(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, store.events, ev.ID)
}

func TestUpdateEventTransitions(t *testing.T) {
	newStart := time.Date(2026, time.October, 14, 15, 0, 0, 0, time.UTC)
	newEnd := newStart.Add(30 * time.Minute)

	tests := []struct {
		name       string
		from       model.EventStatus
		req        model.UpdateEventRequest
		wantStatus model.EventStatus
		wantErr    error
	}{
		{"confirm scheduled", model.EventStatusScheduled, model.UpdateEventRequest{Action: model.EventActionConfirm}, model.EventStatusConfirmed, nil},
		{"confirm pending", model.EventStatusPendingConfirmation, model.UpdateEventRequest{Action: model.EventActionConfirm}, model.EventStatusConfirmed, nil},
		{"confirm confirmed", model.EventStatusConfirmed, model.UpdateEventRequest{Action: model.EventActionConfirm}, "", ErrInvalidTransition},
		{"cancel confirmed", model.EventStatusConfirmed, model.UpdateEventRequest{Action: model.EventActionCancel}, model.EventStatusCancelled, nil},
		{"cancel cancelled", model.EventStatusCancelled, model.UpdateEventRequest{Action: model.EventActionCancel}, "", ErrInvalidTransition},
		{"no show confirmed", model.EventStatusConfirmed, model.UpdateEventRequest{Action: model.EventActionNoShow}, model.EventStatusNoShow, nil},
		{"no show pending", model.EventStatusPendingConfirmation, model.UpdateEventRequest{Action: model.EventActionNoShow}, "", ErrInvalidTransition},
		{"no show completed", model.EventStatusCompleted, model.UpdateEventRequest{Action: model.EventActionNoShow}, "", ErrInvalidTransition},
		{"reschedule", model.EventStatusConfirmed, model.UpdateEventRequest{Action: model.EventActionReschedule, NewStartTime: &newStart, NewEndTime: &newEnd}, model.EventStatusRescheduled, nil},
		{"reschedule without times", model.EventStatusScheduled, model.UpdateEventRequest{Action: model.EventActionReschedule}, "", ErrInvalidTimeRange},
		{"reschedule inverted", model.EventStatusScheduled, model.UpdateEventRequest{Action: model.EventActionReschedule, NewStartTime: &newEnd, NewEndTime: &newStart}, "", ErrInvalidTimeRange},
		{"unknown action", model.EventStatusScheduled, model.UpdateEventRequest{Action: "archive"}, "", ErrUnknownAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newService(t)
			ctx := context.Background()

			ev, err := svc.CreateEvent(ctx, validCreate())
			require.NoError(t, err)
			stored := store.events[ev.ID]
			stored.Status = tt.from
			store.events[ev.ID] = stored

			tt.req.EventID = ev.ID
			updated, err := svc.UpdateEvent(ctx, tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, store.events[ev.ID].Status, "failed transition leaves event unchanged")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, updated.Status)
			assert.Equal(t, tt.wantStatus, store.events[ev.ID].Status)

			if tt.req.Action == model.EventActionConfirm {
				assert.Equal(t, "confirmed", updated.ConfirmationStatus)
			}
			if tt.req.Action == model.EventActionReschedule {
				assert.True(t, updated.StartTime.Equal(newStart))
				assert.True(t, updated.EndTime.Equal(newEnd))
			}
		})
	}
}

func TestUpdateEventNotFound(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.UpdateEvent(ctx, model.UpdateEventRequest{EventID: uuid.NewString(), Action: model.EventActionCancel})
	assert.ErrorIs(t, err, ErrEventNotFound)

	_, err = svc.UpdateEvent(ctx, model.UpdateEventRequest{EventID: "not-a-uuid", Action: model.EventActionCancel})
	assert.ErrorIs(t, err, ErrEventNotFound)
	assert.True(t, IsNotFound(err))
}

func TestListEvents(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	first, err := svc.CreateEvent(ctx, validCreate())
	require.NoError(t, err)

	later := validCreate()
	later.StartTime = later.StartTime.Add(48 * time.Hour)
	later.EndTime = later.EndTime.Add(48 * time.Hour)
	_, err = svc.CreateEvent(ctx, later)
	require.NoError(t, err)

	from := first.StartTime.Add(-time.Hour)
	events, err := svc.ListEvents(ctx, from, from.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, first.ID, events[0].ID)

	_, err = svc.ListEvents(ctx, from, from)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestResolveSettings(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	seed := model.DefaultAvailabilitySettings()

	got, err := svc.ResolveSettings(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, seed, got)

	stored := seed
	stored.Timezone = "Asia/Kolkata"
	require.NoError(t, svc.SaveSettings(ctx, stored))

	got, err = svc.ResolveSettings(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", got.Timezone)

	// испорченная строка в базе не мешает запуску
	store.settings = &model.AvailabilitySettings{Timezone: "Mars/Olympus", WorkingHoursStart: "09:00", WorkingHoursEnd: "18:00"}
	got, err = svc.ResolveSettings(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, seed, got)

	bad := seed
	bad.WorkingHoursEnd = "08:00"
	err = svc.SaveSettings(ctx, bad)
	assert.ErrorIs(t, err, ErrInvalidSettings)
}
