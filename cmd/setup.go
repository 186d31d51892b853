package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/desertthunder/mvx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file when missing, initializes the database and runs migrations.
//
// With --rollback it reverts the latest applied migration instead.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	config := r.config
	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}
	if config == nil {
		config = shared.DefaultConfig()
	}
	r.config = config

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	migrator, err := shared.NewMigrator(db, shared.Schema)
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	if cmd.Bool("rollback") {
		return r.rollback(ctx, migrator)
	}

	r.logger.Info("running database migrations")
	applied, err := migrator.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	for _, m := range applied {
		r.logger.Info("applied migration", "migration", m.Label())
	}

	status, err := migrator.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", config.Database.Path)

	r.writePlain("✓ Database ready: %s (schema %s, %d applied now)\n", config.Database.Path, status.Current.Label(), len(applied))
	if config.OMDb.APIKey == "" {
		r.writePlainln("Next steps:")
		r.writePlain("1. Get an API key at https://www.omdbapi.com/apikey.aspx\n")
		r.writePlain("2. Set omdb.api_key in %s or export %s\n", configPath, shared.EnvAPIKey)
		r.writePlain("3. Run 'mvx search \"the matrix\"' to test it\n")
	}
	return nil
}

func (r *Runner) rollback(ctx context.Context, migrator *shared.Migrator) error {
	reverted, err := migrator.Down(ctx)
	if errors.Is(err, shared.ErrNoMigrations) {
		return r.writePlain("Nothing to roll back.\n")
	}
	if err != nil {
		return err
	}

	r.logger.Warn("rolled back migration", "migration", reverted.Label())
	return r.writePlain("✓ Rolled back %s\n", reverted.Label())
}
