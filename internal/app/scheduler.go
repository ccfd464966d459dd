package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	tickInterval  = time.Minute
	sessionIdle   = 12 * time.Hour
	evictInterval = time.Hour
)

// Ticker получатель ежеминутных тиков
type Ticker interface {
	TickAll(now time.Time)
	EvictIdle(now time.Time, idle time.Duration) int
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	sessions Ticker
	logger   *zap.Logger
	now      func() time.Time
	stopChan chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(sessions Ticker, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	go s.runNowTicker(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runNowTicker раз в минуту продвигает линию текущего времени во всех сессиях
// и раз в час удаляет простаивающие сессии
func (s *Scheduler) runNowTicker(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	lastEvict := s.now()

	for {
		select {
		case <-ticker.C:
			now := s.now()
			s.sessions.TickAll(now)

			if now.Sub(lastEvict) >= evictInterval {
				lastEvict = now
				if n := s.sessions.EvictIdle(now, sessionIdle); n > 0 {
					s.logger.Info("Idle sessions evicted", zap.Int("count", n))
				}
			}
		case <-s.stopChan:
			s.logger.Info("Now ticker stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Now ticker cancelled")
			return
		}
	}
}
