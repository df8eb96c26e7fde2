package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/mini-maxit/modelboard/internal/config"
	"github.com/mini-maxit/modelboard/internal/database"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "modelboard",
		Short:         "Model evaluation and leaderboard service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newServeCmd(), newEvaluatorCmd(), newMigrateCmd())
	return cmd
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return db, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(_ *cobra.Command, _ []string) error {
			db, err := openDatabase(config.NewConfig())
			if err != nil {
				return err
			}
			return database.Close(db)
		},
	}
}
