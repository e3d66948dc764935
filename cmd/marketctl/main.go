// marketctl is the operator CLI: schema migration, account bootstrap, demo data,
// user maintenance and AI provider status.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ariefcatur/go-artisan-market/internal/auth"
	"github.com/ariefcatur/go-artisan-market/internal/config"
	"github.com/ariefcatur/go-artisan-market/internal/logging"
	"github.com/ariefcatur/go-artisan-market/internal/market"
	"github.com/ariefcatur/go-artisan-market/internal/postgres"
)

var (
	configPath string
	timeout    time.Duration
	verbose    bool

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:           "marketctl",
	Short:         "Artisan marketplace operator tools",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		if configPath != "" {
			if err := os.Setenv(config.ConfigPathEnv, configPath); err != nil {
				return err
			}
		}
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		logging.Init(logging.Config{Level: level, Format: "console"})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default: $CONFIG_PATH or ./config.yaml)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Operation timeout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(migrateCmd, createAdminCmd, seedDemoCmd, usersCmd, resetPasswordCmd, statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

// openRepo connects with a small pool; callers close the returned pool.
func openRepo(ctx context.Context) (*market.Repo, *pgxpool.Pool, error) {
	db, err := postgres.Connect(ctx, cfg.Postgres.DSN, 2)
	if err != nil {
		return nil, nil, fmt.Errorf("db connect: %w", err)
	}
	return &market.Repo{DB: db}, db, nil
}

func passwords() (auth.Passwords, error) {
	scheme, err := auth.ParseScheme(cfg.Session.PasswordHash)
	if err != nil {
		return auth.Passwords{}, err
	}
	return auth.Passwords{Scheme: scheme}, nil
}
