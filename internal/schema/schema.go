// Package schema bootstraps the insurance tables (Produkt, Kunden, Vertrag)
// and a small seed data set through embedded goose migrations.
package schema

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/bgunnarsson/insuresql/internal/db"
	"github.com/bgunnarsson/insuresql/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// goose keeps its base FS and dialect in package state.
var gooseMu sync.Mutex

// Migrate applies all pending migrations to sqldb.
func Migrate(ctx context.Context, sqldb *sql.DB, dialect db.Dialect) error {
	gooseMu.Lock()
	defer func() {
		goose.SetBaseFS(nil)
		gooseMu.Unlock()
	}()

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(logger.Printf{Logger: logger.FromContext(ctx)})
	if err := goose.SetDialect(dialect.Goose); err != nil {
		return fmt.Errorf("schema: set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqldb, "migrations"); err != nil {
		return fmt.Errorf("schema: apply migrations: %w", err)
	}
	return nil
}

// Version reports the currently applied migration version.
func Version(ctx context.Context, sqldb *sql.DB, dialect db.Dialect) (int64, error) {
	gooseMu.Lock()
	defer func() {
		goose.SetBaseFS(nil)
		gooseMu.Unlock()
	}()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect(dialect.Goose); err != nil {
		return 0, fmt.Errorf("schema: set goose dialect: %w", err)
	}
	v, err := goose.GetDBVersionContext(ctx, sqldb)
	if err != nil {
		return 0, fmt.Errorf("schema: read version: %w", err)
	}
	return v, nil
}
