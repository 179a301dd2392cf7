package main

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	root "openlark"
	"openlark/internal/config"
	"openlark/pkg/logger"
)

// migrateOutbox applies the deliveries and lark_tokens tables, or only
// prints their status.
func migrateOutbox(ctx context.Context, db *sql.DB, statusOnly bool) {
	goose.SetBaseFS(root.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		logger.Fatal(ctx, "could not set goose dialect to postgres", zap.Error(err))
	}

	if statusOnly {
		version, err := goose.GetDBVersionContext(ctx, db)
		if err != nil {
			logger.Fatal(ctx, "could not get schema version", zap.Error(err))
		}
		logger.Info(ctx, "outbox schema", zap.Int64("version", version))

		return
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		logger.Fatal(ctx, "could not migrate outbox tables", zap.Error(err))
	}
}

// migrateRiver brings the river job tables to the latest version the
// linked river release knows, or only prints their status.
func migrateRiver(ctx context.Context, db *sql.DB, statusOnly bool) {
	migrator, err := rivermigrate.New(riverdatabasesql.New(db), nil)
	if err != nil {
		logger.Fatal(ctx, "could not create river queue migrator", zap.Error(err))
	}

	all := migrator.AllVersions()
	latest := all[len(all)-1].Version
	current := 0
	existing, err := migrator.ExistingVersions(ctx)
	if err != nil {
		logger.Fatal(ctx, "could not get existing river queue migrations", zap.Error(err))
	}
	if len(existing) > 0 {
		current = existing[len(existing)-1].Version
	}

	if statusOnly || current >= latest {
		logger.Info(ctx, "river schema", zap.Int("version", current), zap.Int("latest", latest))

		return
	}

	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{
		TargetVersion: latest,
	}); err != nil {
		logger.Fatal(ctx, "could not migrate river queue tables", zap.Error(err))
	}
	logger.Info(ctx, "river schema migrated", zap.Int("from", current), zap.Int("to", latest))
}

// migrateCommand constructs the 'migrate' subcommand. The outbox tables are
// migrated with goose first, then the river job tables.
func migrateCommand(cfg *config.Config) *cobra.Command {
	var statusOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrates database to the latest version",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			db := strg.DB.(*sql.DB) //nolint: forcetypeassert
			migrateOutbox(ctx, db, statusOnly)
			migrateRiver(ctx, db, statusOnly)
		},
	}

	cmd.Flags().BoolVar(&statusOnly, "status", false, "Only print the current schema versions")

	return cmd
}
