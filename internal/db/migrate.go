package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/geocoder89/formhub/internal/db/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// MigratePostgres applies the embedded postgres migrations through pool.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	return migrate(ctx, goose.DialectPostgres, sqlDB, "postgres")
}

// MigrateMySQL applies the embedded mysql migrations.
func MigrateMySQL(ctx context.Context, sqlDB *sql.DB) error {
	return migrate(ctx, goose.DialectMySQL, sqlDB, "mysql")
}

func migrate(ctx context.Context, dialect goose.Dialect, sqlDB *sql.DB, dir string) error {
	fsys, err := fs.Sub(migrations.FS, dir)

	if err != nil {
		return fmt.Errorf("migrations %s: %w", dir, err)
	}

	provider, err := goose.NewProvider(dialect, sqlDB, fsys)

	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migrate %s: %w", dir, err)
	}

	return nil
}
