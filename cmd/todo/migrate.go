package main

import (
	"errors"

	"github.com/deppfellow/todo-backend/internal/database"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the todos schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBootstrap()
			if err != nil {
				return err
			}
			defer b.loggerService.Shutdown()

			if !b.cfg.Database.UsesPostgres() {
				return errors.New("migrate needs a PostgreSQL session store, database.session is memory")
			}

			return database.Migrate(cmd.Context(), &b.log, b.cfg.Database.DSN())
		},
	}
}
