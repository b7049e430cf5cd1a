package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/clickwheel/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the artwork cache database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := r.database()
	if err != nil {
		return err
	}

	applied, err := shared.AppliedMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	r.writePlainln("✓ Database ready: %s", r.config.Database.Path)
	for _, m := range applied {
		r.writePlainln("  migration %04d applied %s", m.Version, m.AppliedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// SetupRollback reverts the most recently applied migration.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RollbackMigration(db); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return r.writePlainln("✓ Rolled back latest migration")
}

// SetupConfig writes the example configuration to --output or the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")
	if path == "" {
		path = r.configPath
	}
	if path == "" {
		return fmt.Errorf("%w: config path", shared.ErrMissingArgument)
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	return r.writePlainln("✓ Wrote %s", path)
}
