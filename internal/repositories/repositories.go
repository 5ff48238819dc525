// package repositories provides the SQLite persistence layer: run history and the local vocabulary target.
package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/vocx/internal/shared"
)

// Open opens the database described by cfg, applies connection limits and runs pending migrations.
func Open(cfg shared.DatabaseConfig) (*sql.DB, error) {
	db, err := shared.NewDatabase(cfg.Path)
	if err != nil {
		return nil, err
	}

	shared.ConfigureDatabase(db, cfg)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
