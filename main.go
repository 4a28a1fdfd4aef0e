package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"notekeep/config"
	"notekeep/repository"
	"notekeep/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg    *config.Config
	logger *zap.Logger
)

// newRootCmd builds the command tree. Each call returns fresh commands with
// their flags at default values.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "notekeep",
		Short:         "Personal note-taking service and terminal client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			logger, err = utils.NewLogger(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			if cfg.Log.Level == "debug" {
				gin.SetMode(gin.DebugMode)
			} else {
				gin.SetMode(gin.ReleaseMode)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	root.AddCommand(newServeCmd(), newMigrateCmd())
	addClientCommands(root)
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the REST server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			return runServer(ctx, a)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the notes table and its indexes if they do not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := repository.Open(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := repository.SetupSchema(cmd.Context(), db, cfg.Database.Driver); err != nil {
				return err
			}
			logger.Info("schema ready", zap.String("driver", cfg.Database.Driver))
			return nil
		},
	}
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
