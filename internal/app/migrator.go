package app

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// Migrator применяет SQL миграции календаря из каталога
type Migrator struct {
	provider *goose.Provider
	dir      string
	logger   *zap.Logger
}

// NewMigrator открывает *sql.DB поверх пула и собирает goose provider для каталога dir
func NewMigrator(pool *pgxpool.Pool, dir string, logger *zap.Logger) (*Migrator, error) {
	db := stdlib.OpenDBFromPool(pool)

	provider, err := goose.NewProvider(goose.DialectPostgres, db, os.DirFS(dir))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create migration provider for %s: %w", dir, err)
	}

	return &Migrator{provider: provider, dir: dir, logger: logger}, nil
}

// Run применяет все новые миграции и логирует каждую
func (mg *Migrator) Run(ctx context.Context) error {
	results, err := mg.provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations from %s: %w", mg.dir, err)
	}

	for _, r := range results {
		mg.logger.Info("Migration applied",
			zap.Int64("version", r.Source.Version),
			zap.String("file", r.Source.Path),
			zap.Duration("took", r.Duration))
	}

	version, err := mg.Version(ctx)
	if err != nil {
		return err
	}
	mg.logger.Info("Database schema is up to date", zap.Int64("version", version), zap.Int("applied", len(results)))
	return nil
}

// Version текущая версия схемы
func (mg *Migrator) Version(ctx context.Context) (int64, error) {
	version, err := mg.provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("get schema version: %w", err)
	}
	return version, nil
}

// Close закрывает *sql.DB мигратора. Пул остаётся открытым.
func (mg *Migrator) Close() error {
	return mg.provider.Close()
}
