package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/todo-backend/internal/database"
	"github.com/deppfellow/todo-backend/internal/handler"
	"github.com/deppfellow/todo-backend/internal/repository"
	"github.com/deppfellow/todo-backend/internal/router"
	"github.com/deppfellow/todo-backend/internal/server"
	"github.com/deppfellow/todo-backend/internal/service"
	"github.com/spf13/cobra"
)

const (
	DefaultContextTimeout = 30
	migrateTimeout        = 60 * time.Second
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	b, err := loadBootstrap()
	if err != nil {
		return err
	}
	defer b.loggerService.Shutdown()

	cfg, log := b.cfg, b.log

	// Local databases are migrated by hand with `todo migrate`.
	if cfg.Primary.Env != "local" && cfg.Database.UsesPostgres() {
		ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
		err := database.Migrate(ctx, &log, cfg.Database.DSN())
		cancel()
		if err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	srv, err := server.New(cfg, &log, b.loggerService)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	repos, err := repository.NewRepositories(srv)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}
	services, err := service.NewService(srv, repos)
	if err != nil {
		return fmt.Errorf("could not create services: %w", err)
	}
	handlers := handler.NewHandlers(srv, services)

	srv.SetupHTTPServer(router.NewRouter(srv, handlers))

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-cmd.Context().Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultContextTimeout*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server exited properly")
	return nil
}
