/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package main

import (
	"fmt"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"

	"github.com/jerry-enebeli/caixa/config"
	"github.com/jerry-enebeli/caixa/database"
)

// migrateCommands only loads the configuration: opening the data source
// would apply the up migrations first.
func migrateCommands(app *caixaInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "migrate",
		Short:             "run caixa schema migrations",
		PersistentPreRunE: loadConfig(app),
	}

	cmd.AddCommand(migrateDirectionCommand(app, "up", migrate.Up))
	cmd.AddCommand(migrateDirectionCommand(app, "down", migrate.Down))

	return cmd
}

func migrateDirectionCommand(app *caixaInstance, use string, direction migrate.MigrationDirection) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("apply %s migrations", use),
		RunE: func(cmd *cobra.Command, args []string) error {
			driver := app.cnf.DataSource.Driver
			switch driver {
			case config.DriverPostgres, config.DriverSQLite, config.DriverMySQL:
			default:
				return fmt.Errorf("driver %q has no schema to migrate", driver)
			}

			db, err := database.ConnectDB(driver, app.cnf.DataSource.Dns)
			if err != nil {
				return fmt.Errorf("error connecting to database: %w", err)
			}
			defer db.Close()

			n, err := database.Migrate(db, driver, direction)
			if err != nil {
				return fmt.Errorf("error migrating %s: %w", use, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migrations!\n", n)
			return nil
		},
	}
}
