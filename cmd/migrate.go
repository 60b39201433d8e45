package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/mvd-portal/internal"
	"github.com/frahmantamala/mvd-portal/internal/store/gormstore"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run db migration files under db/migrations directory",
		Long:  `Applies the SQL migrations for the postgres driver. The sqlite driver creates its table in place; memory and redis need no schema.`,
	}
	migrateRollback bool
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "db/migrations", "sql migrations directory")
}

func runMigration(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	initLogger(cfg)

	switch cfg.Database.Driver {
	case internal.DriverPostgres:
	case internal.DriverSQLite:
		backend, err := gormstore.OpenSQLite(cfg.Database.Source, cfg.Store.Key)
		if err != nil {
			return err
		}
		return backend.Close()
	default:
		fmt.Printf("driver %q has no schema to migrate\n", cfg.Database.Driver)
		return nil
	}

	db, err := goose.OpenDBWithDriver("pgx", cfg.Database.Source)
	if err != nil {
		return fmt.Errorf("goose: failed to open DB: %w", err)
	}
	defer db.Close()
	goose.SetTableName("schema_migrations")

	command := "up"
	if migrateRollback {
		command = "down"
	}
	if err := goose.RunContext(ctx, command, db, migrateDir); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
