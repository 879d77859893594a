package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/kaman1990/field-service-sub001/internal/client/migrations"
	"github.com/kaman1990/field-service-sub001/internal/client/repositories/images"
	"github.com/kaman1990/field-service-sub001/internal/client/repositories/inventory"
	"github.com/kaman1990/field-service-sub001/internal/client/repositories/metadata"
)

// Repositories bundles the local stores built on one SQLite database. DB is
// exposed for callers composing multi-repository transactions.
type Repositories struct {
	DB        *sql.DB
	Metadata  metadata.Repository
	Inventory inventory.Repository
	Images    images.Repository
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the local database, applies embedded migrations and
// wires the repositories. The caller owns the returned DB handle.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		DB:        db,
		Metadata:  metadata.NewSQLiteRepository(db),
		Inventory: inventory.NewSQLiteRepository(db),
		Images:    images.NewSQLiteRepository(db),
	}, nil
}
