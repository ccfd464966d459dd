package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/schedule_grid/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PreferenceRepository хранилище ключ-значение для пользовательских предпочтений
type PreferenceRepository struct {
	*base.Repository
}

func NewPreferenceRepository(pool *pgxpool.Pool) *PreferenceRepository {
	return &PreferenceRepository{Repository: base.NewRepository(pool)}
}

// Get возвращает значения по ключу. nil, если ключа нет.
func (r *PreferenceRepository) Get(ctx context.Context, key string) ([]string, error) {
	query := `SELECT value FROM preferences WHERE key = $1`

	var values []string
	err := r.QueryRow(ctx, query, key).Scan(&values)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get preference %s: %w", key, err)
	}

	return values, nil
}

// Set перезаписывает значения по ключу
func (r *PreferenceRepository) Set(ctx context.Context, key string, values []string) error {
	query := `
		INSERT INTO preferences (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if values == nil {
		values = []string{}
	}

	if _, err := r.ExecAffected(ctx, query, key, values); err != nil {
		return fmt.Errorf("set preference %s: %w", key, err)
	}

	return nil
}
