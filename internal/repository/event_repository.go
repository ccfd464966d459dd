package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/schedule_grid/internal/model"
	"github.com/Freeeeeet/schedule_grid/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository struct {
	*base.Repository
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{Repository: base.NewRepository(pool)}
}

const eventColumns = `
	e.id::text, e.title, e.start_time, e.end_time, e.event_type, e.status,
	e.confirmation_status, e.source, e.contact_id::text, e.notes, e.created_at, e.updated_at,
	c.name, c.phone
`

func scanEvent(row pgx.Row) (*model.CalendarEvent, error) {
	var (
		ev           model.CalendarEvent
		contactName  *string
		contactPhone *string
	)

	err := row.Scan(
		&ev.ID,
		&ev.Title,
		&ev.StartTime,
		&ev.EndTime,
		&ev.EventType,
		&ev.Status,
		&ev.ConfirmationStatus,
		&ev.Source,
		&ev.ContactID,
		&ev.Notes,
		&ev.CreatedAt,
		&ev.UpdatedAt,
		&contactName,
		&contactPhone,
	)
	if err != nil {
		return nil, err
	}

	if ev.ContactID != nil && contactName != nil {
		ev.Contact = &model.Contact{ID: *ev.ContactID, Name: *contactName}
		if contactPhone != nil {
			ev.Contact.Phone = *contactPhone
		}
	}

	return &ev, nil
}

// Create сохраняет новое событие
func (r *EventRepository) Create(ctx context.Context, ev *model.CalendarEvent) error {
	query := `
		INSERT INTO calendar_events (id, title, start_time, end_time, event_type, status, confirmation_status, source, contact_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		ev.ID,
		ev.Title,
		ev.StartTime,
		ev.EndTime,
		ev.EventType,
		ev.Status,
		ev.ConfirmationStatus,
		ev.Source,
		ev.ContactID,
		ev.Notes,
	).Scan(&ev.CreatedAt, &ev.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}

	return nil
}

// GetByID получает событие по ID. nil, если не найдено.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.CalendarEvent, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM calendar_events e
		LEFT JOIN contacts c ON c.id = e.contact_id
		WHERE e.id = $1
	`

	ev, err := scanEvent(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get event by id: %w", err)
	}

	return ev, nil
}

// ListRange получает события, пересекающие интервал [from, to)
func (r *EventRepository) ListRange(ctx context.Context, from, to time.Time) ([]model.CalendarEvent, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM calendar_events e
		LEFT JOIN contacts c ON c.id = e.contact_id
		WHERE e.start_time < $2 AND e.end_time > $1
		ORDER BY e.start_time, e.id
	`

	rows, err := r.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.CalendarEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}

// Modify блокирует строку события, передаёт его в fn и сохраняет результат в одной транзакции.
// Ошибка fn откатывает транзакцию. nil, если событие не найдено.
func (r *EventRepository) Modify(ctx context.Context, id string, fn func(ev *model.CalendarEvent) error) (*model.CalendarEvent, error) {
	var result *model.CalendarEvent

	err := r.InTx(ctx, func(q base.Querier) error {
		query := `
			SELECT ` + eventColumns + `
			FROM calendar_events e
			LEFT JOIN contacts c ON c.id = e.contact_id
			WHERE e.id = $1
			FOR UPDATE OF e
		`

		ev, err := scanEvent(q.QueryRow(ctx, query, id))
		if err != nil {
			if base.IsNotFound(err) {
				return nil
			}
			return fmt.Errorf("lock event: %w", err)
		}

		if err := fn(ev); err != nil {
			return err
		}

		if err := update(ctx, q, ev); err != nil {
			return err
		}

		result = ev
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// update заменяет изменяемые поля события целиком
func update(ctx context.Context, q base.Querier, ev *model.CalendarEvent) error {
	query := `
		UPDATE calendar_events
		SET start_time = $2, end_time = $3, status = $4, confirmation_status = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := q.QueryRow(
		ctx, query,
		ev.ID,
		ev.StartTime,
		ev.EndTime,
		ev.Status,
		ev.ConfirmationStatus,
	).Scan(&ev.UpdatedAt)

	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}

	return nil
}
