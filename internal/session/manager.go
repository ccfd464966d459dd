package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/schedule_grid/internal/model"
	"github.com/Freeeeeet/schedule_grid/internal/orchestrator"
)

var ErrEmptySessionID = errors.New("empty session id")

// Factory создаёт оркестратор для новой сессии
type Factory func(ctx context.Context, id string) (*orchestrator.Orchestrator, error)

// Loader загружает события для видимого интервала
type Loader interface {
	ListEvents(ctx context.Context, from, to time.Time) ([]model.CalendarEvent, error)
}

// Session оркестратор одного клиента. Сообщения одной сессии обрабатываются по очереди.
type Session struct {
	ID string

	mu       sync.Mutex
	orch     *orchestrator.Orchestrator
	lastSeen time.Time
}

// Do выполняет fn с эксклюзивным доступом к оркестратору сессии
func (s *Session) Do(fn func(o *orchestrator.Orchestrator) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSeen = time.Now()
	return fn(s.orch)
}

// Refresh перезагружает события для текущего вида. Вызывается внутри Do.
func Refresh(ctx context.Context, o *orchestrator.Orchestrator, loader Loader) error {
	from, to := o.VisibleRange()
	events, err := loader.ListEvents(ctx, from, to)
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}
	o.SetEvents(events)
	return nil
}

// Manager управляет сессиями клиентов
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session // id сессии -> Session
	factory  Factory
}

// NewManager создаёт новый менеджер сессий
func NewManager(factory Factory) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		factory:  factory,
	}
}

// Get получает существующую сессию
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	return s, ok
}

// GetOrCreate получает сессию или создаёт новую через фабрику
func (m *Manager) GetOrCreate(ctx context.Context, id string) (*Session, bool, error) {
	if id == "" {
		return nil, false, ErrEmptySessionID
	}

	if s, ok := m.Get(id); ok {
		return s, false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Могла быть создана, пока ждали блокировку
	if s, ok := m.sessions[id]; ok {
		return s, false, nil
	}

	orch, err := m.factory(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("create session %s: %w", id, err)
	}

	s := &Session{ID: id, orch: orch, lastSeen: time.Now()}
	m.sessions[id] = s
	return s, true, nil
}

// Delete удаляет сессию
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
}

// Len возвращает количество сессий
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}

func (m *Manager) snapshot() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

// TickAll продвигает линию текущего времени во всех сессиях
func (m *Manager) TickAll(now time.Time) {
	for _, s := range m.snapshot() {
		s.mu.Lock()
		s.orch.Tick(now)
		s.mu.Unlock()
	}
}

// EvictIdle удаляет сессии, не получавшие сообщений дольше idle. Возвращает количество удалённых.
func (m *Manager) EvictIdle(now time.Time, idle time.Duration) int {
	var stale []string
	for _, s := range m.snapshot() {
		s.mu.Lock()
		if now.Sub(s.lastSeen) > idle {
			stale = append(stale, s.ID)
		}
		s.mu.Unlock()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range stale {
		delete(m.sessions, id)
	}
	return len(stale)
}
