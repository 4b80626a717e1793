// Command ministryctl runs maintenance tasks against the ministry database.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"ministry/config"
	logs "ministry/internal/infra/log"
	"ministry/internal/infra/persistence/postgres"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "ministryctl",
		Short:         "Maintenance commands for the ministry API",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(createAdminCmd())
	rootCmd.AddCommand(reportCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// env is what every command needs: configuration, a logger and the database.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *gorm.DB
}

func openEnv() (*env, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}

	logger, err := logs.New(logs.Params{Config: cfg})
	if err != nil {
		return nil, err
	}

	db, err := postgres.Open(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, logger: logger, db: db}, nil
}

func (e *env) close() {
	if sqlDB, err := e.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
