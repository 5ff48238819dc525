package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/vocx/internal/shared"
	"github.com/desertthunder/vocx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration to --config.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", configPath)
	r.writePlain("✓ Config written to %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set source.spreadsheet_id and target.spreadsheet_id\n")
	r.writePlain("2. Point credentials.google.service_account_file at your service account key\n")
	r.writePlain("3. Share both spreadsheets with the service account email\n")
	r.writePlain("4. Run 'vocx sync plan' to preview new words\n")
	return nil
}

// SetupDatabase initializes the database and runs migrations, creating the config from the template when missing.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		config, err := shared.LoadConfig(configPath)
		if err != nil {
			return err
		}
		r.config = config
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		}
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, r.config.Database)

	if cmd.Bool("rollback") {
		r.logger.Info("rolling back latest migration")
		if err := shared.RollbackMigration(db); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		version, err := shared.SchemaVersion(db)
		if err != nil {
			return err
		}
		r.writePlain("✓ Rolled back latest migration in %s (schema version %d)\n", r.config.Database.Path, version)
		return nil
	}

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	version, err := shared.SchemaVersion(db)
	if err != nil {
		return err
	}
	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	r.writePlain("✓ Database ready at %s (schema version %d)\n", r.config.Database.Path, version)
	return nil
}

// SetupHeaders writes the header row into an empty target. An existing header is left alone.
func (r *Runner) SetupHeaders(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}
	defer r.Close()

	target, err := r.targetStore(ctx)
	if err != nil {
		return err
	}

	engine := tasks.NewEngine(nil, target, nil, r.engineOptions(), nil, r.logger)
	written, err := engine.EnsureHeader(ctx, nil)
	if err != nil {
		return err
	}

	if written {
		return r.writePlain("✓ Headers added to target: %v\n", r.config.Target.Headers)
	}
	return r.writePlain("Target already has headers\n")
}
