package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/examhall/examhall-backend/internal/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	var migrationDir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect database migrations",
	}
	cmd.PersistentFlags().StringVar(&migrationDir, "path", "", "Path to migration files (default MIGRATIONS_PATH)")

	open := func() (*migrate.Migrate, error) {
		cfg := config.Load()
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is not set")
		}
		dir := migrationDir
		if dir == "" {
			dir = cfg.MigrationsPath
		}
		m, err := migrate.New("file://"+dir, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("initialize migrations: %w", err)
		}
		return m, nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, err := open()
				if err != nil {
					return err
				}
				defer m.Close()
				if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return fmt.Errorf("up: %w", err)
				}
				cmd.Println("Migrated up successfully")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, err := open()
				if err != nil {
					return err
				}
				defer m.Close()
				if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return fmt.Errorf("down: %w", err)
				}
				cmd.Println("Migrated down successfully")
				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, err := open()
				if err != nil {
					return err
				}
				defer m.Close()
				version, dirty, err := m.Version()
				if err != nil {
					return fmt.Errorf("version: %w", err)
				}
				cmd.Printf("Version: %d, Dirty: %t\n", version, dirty)
				return nil
			},
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Set the schema version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version %q: %w", args[0], err)
				}
				m, err := open()
				if err != nil {
					return err
				}
				defer m.Close()
				if err := m.Force(v); err != nil {
					return fmt.Errorf("force: %w", err)
				}
				cmd.Printf("Forced version to %d\n", v)
				return nil
			},
		},
	)
	return cmd
}
