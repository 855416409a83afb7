package cmd

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fanaberia/fanaberia/internal/config"
	"github.com/fanaberia/fanaberia/internal/db"
)

// Loader reads configuration when a command runs, not when it is registered.
type Loader func() *config.Config

func openDB(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	database, err := db.Init(ctx, cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return database, nil
}

// openMigratedDB opens the database and applies pending migrations.
func openMigratedDB(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	database, err := openDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, err
	}
	return database, nil
}
