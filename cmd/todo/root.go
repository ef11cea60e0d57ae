package main

import (
	"github.com/deppfellow/todo-backend/internal/config"
	"github.com/deppfellow/todo-backend/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "todo",
		Short: "Todo list API backed by PostgreSQL or memory",
		Long: `todo serves a JSON API for listing, creating, updating and deleting
todos. Configuration is read from TODO_* environment variables (and a
.env file when present); database.session selects the orm, pgx or
memory session store.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newMigrateCommand())

	return rootCmd
}

// bootstrap loads configuration and builds the logger shared by every
// command.
type bootstrap struct {
	cfg           *config.Config
	log           zerolog.Logger
	loggerService *logger.LoggerService
}

func loadBootstrap() (*bootstrap, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	return &bootstrap{
		cfg:           cfg,
		log:           logger.NewLoggerWithService(cfg.Observability, loggerService),
		loggerService: loggerService,
	}, nil
}
