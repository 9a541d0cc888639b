package main

import (
	"context"
	"fmt"
	"os"

	"github.com/srihar-15/EMS/internal/app"
	"github.com/srihar-15/EMS/internal/config"
	"github.com/srihar-15/EMS/internal/database"
	"github.com/srihar-15/EMS/internal/shared/connection"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "EMS schema migrations and seeding",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		_ = godotenv.Load()
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger, err := app.NewLogger(cfg.App)
		if err != nil {
			return err
		}
		zap.ReplaceGlobals(logger)
		cmd.SetContext(withConfig(cmd.Context(), cfg))
		return nil
	},
}

type configKey struct{}

func withConfig(ctx context.Context, cfg *config.Config) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, configKey{}, cfg)
}

func configFrom(ctx context.Context) *config.Config {
	return ctx.Value(configKey{}).(*config.Config)
}

func gooseCommand(use, short, command string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd.Context())
			db, err := goose.OpenDBWithDriver("pgx", connection.DSN(
				cfg.Database.Host,
				cfg.Database.User,
				cfg.Database.Password,
				cfg.Database.Name,
				cfg.Database.Port,
				cfg.Database.SSLMode,
			))
			if err != nil {
				return fmt.Errorf("goose: failed to open DB: %w", err)
			}
			defer db.Close()

			return database.Migrate(cmd.Context(), db, command, args...)
		},
	}
}

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Provision the first administrator from SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return app.SeedAdmin(cmd.Context(), configFrom(cmd.Context()))
	},
}

func init() {
	rootCmd.AddCommand(
		gooseCommand("up", "Apply all pending migrations", "up"),
		gooseCommand("down", "Roll back the latest migration", "down"),
		gooseCommand("status", "Print migration status", "status"),
		gooseCommand("version", "Print the current schema version", "version"),
		seedAdminCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
