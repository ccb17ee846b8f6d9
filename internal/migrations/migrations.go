// Package migrations embeds the goose SQL migrations for the database backends.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// Directories inside FS, one per dialect
const (
	SQLiteDir     = "sqlite"
	ClickHouseDir = "clickhouse"
)

//go:embed sqlite/*.sql clickhouse/*.sql
var FS embed.FS

// Up applies every pending migration in dir to db
func Up(ctx context.Context, db *sql.DB, dialect goose.Dialect, dir string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	sub, err := fs.Sub(FS, dir)
	if err != nil {
		return fmt.Errorf("failed to open migrations %s: %w", dir, err)
	}
	provider, err := goose.NewProvider(dialect, db, sub)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	for _, r := range results {
		logger.Info("Migration applied",
			zap.String("source", r.Source.Path),
			zap.Duration("duration", r.Duration))
	}
	return nil
}
