package main

import (
	"fmt"
	"io/fs"
	"path"

	"github.com/spf13/cobra"

	"github.com/jukmisael/japanese-glossary-generator/internal/database"
	"github.com/jukmisael/japanese-glossary-generator/schemas"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the collection database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Open > %w", err)
			}
			defer func() { _ = db.Close() }()

			entries, err := fs.ReadDir(schemas.Migrations, "migrations")
			if err != nil {
				return fmt.Errorf("fs.ReadDir > %w", err)
			}
			for _, entry := range entries {
				name := path.Join("migrations", entry.Name())
				statements, err := schemas.Migrations.ReadFile(name)
				if err != nil {
					return fmt.Errorf("schemas.Migrations.ReadFile(%s) > %w", name, err)
				}
				if _, err := db.ExecContext(cmd.Context(), string(statements)); err != nil {
					return fmt.Errorf("db.ExecContext(%s) > %w", entry.Name(), err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", entry.Name())
			}
			return nil
		},
	}
}
