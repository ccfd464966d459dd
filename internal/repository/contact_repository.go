package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/schedule_grid/internal/model"
	"github.com/Freeeeeet/schedule_grid/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ContactRepository struct {
	*base.Repository
}

func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{Repository: base.NewRepository(pool)}
}

// List возвращает контакты по имени. limit <= 0 - без ограничения.
func (r *ContactRepository) List(ctx context.Context, search string, limit int) ([]model.Contact, error) {
	query := `
		SELECT id::text, name, COALESCE(phone, '')
		FROM contacts
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
		ORDER BY name
		LIMIT NULLIF($2, 0)
	`

	if limit < 0 {
		limit = 0
	}

	rows, err := r.Query(ctx, query, search, limit)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []model.Contact
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}

	return contacts, nil
}

// Exists проверяет, есть ли контакт с таким ID
func (r *ContactRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM contacts WHERE id::text = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check contact: %w", err)
	}
	return exists, nil
}
