package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/tern/v2/migrate"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationVersionTable = "schema_version_sql"

// RunSQLMigrations installs database functions that gorm cannot express (the refund procedure).
func RunSQLMigrations() error {
	dsn, err := DSN()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect for sql migrations: %w", err)
	}
	defer conn.Close(ctx)

	m, err := migrate.NewMigrator(ctx, conn, migrationVersionTable)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return err
	}
	if err := m.LoadMigrations(sub); err != nil {
		return fmt.Errorf("load sql migrations: %w", err)
	}

	m.OnStart = func(sequence int32, name, direction, sql string) {
		zap.S().Infof("Applying sql migration %d %s (%s)", sequence, name, direction)
	}

	if err := m.Migrate(ctx); err != nil {
		return fmt.Errorf("run sql migrations: %w", err)
	}
	return nil
}
