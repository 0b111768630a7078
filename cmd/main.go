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
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.elastic.co/apm/module/apmlogrus/v2"

	"github.com/jerry-enebeli/caixa"
	"github.com/jerry-enebeli/caixa/config"
	"github.com/jerry-enebeli/caixa/database"
	redlock "github.com/jerry-enebeli/caixa/internal/lock"
	"github.com/jerry-enebeli/caixa/internal/notification"
)

// Caixa represents the CLI application, encapsulating the root Cobra command.
type Caixa struct {
	cmd *cobra.Command
}

// caixaInstance holds what preRun builds for the subcommands.
type caixaInstance struct {
	configFile string
	caixa      *caixa.Caixa
	ds         *database.Datasource
	cnf        *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

func loadConfig(app *caixaInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := config.InitConfig(app.configFile); err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		cnf, err := config.Fetch()
		if err != nil {
			return err
		}
		app.cnf = cnf
		return nil
	}
}

// preRun loads the configuration and builds the datasource and service
// before any command that needs them.
func preRun(app *caixaInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(app)(cmd, args); err != nil {
			return err
		}
		addAPMHook(app.cnf)

		ds, c, err := setupCaixa(app.cnf)
		if err != nil {
			event := notification.Event{
				Kind:    notification.KindStorageFailure,
				Message: "could not open the data source",
				Err:     err,
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = notification.FromConfig(app.cnf).Notify(ctx, event)
			return err
		}
		app.ds = ds
		app.caixa = c
		return nil
	}
}

// addAPMHook sends logged errors to Elastic APM when tracing is on. The agent
// reads its server settings from the ELASTIC_APM_* environment.
func addAPMHook(cnf *config.Configuration) {
	if !cnf.Tracing.Enabled {
		return
	}
	for _, hook := range logrus.StandardLogger().Hooks[logrus.ErrorLevel] {
		if _, ok := hook.(*apmlogrus.Hook); ok {
			return
		}
	}
	logrus.AddHook(&apmlogrus.Hook{})
}

// setupCaixa connects to the configured data source. With Redis configured
// the write guard is a Redis lock so several processes can share a store.
func setupCaixa(cnf *config.Configuration) (*database.Datasource, *caixa.Caixa, error) {
	ds, err := database.NewDataSource(cnf)
	if err != nil {
		return nil, nil, fmt.Errorf("error getting datasource: %w", err)
	}

	var opts []caixa.Option
	if rdb := ds.Redis(); rdb != nil {
		opts = append(opts, caixa.WithWriteGuard(redlock.NewGuard(rdb, "", 0, 0)))
	}
	c, err := caixa.NewCaixaFromConfig(ds, cnf, opts...)
	if err != nil {
		_ = ds.Close()
		return nil, nil, fmt.Errorf("error creating caixa: %w", err)
	}
	return ds, c, nil
}

func postRun(app *caixaInstance) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		if app.ds == nil {
			return
		}
		if err := app.ds.Close(); err != nil {
			logrus.WithError(err).Warn("closing data source")
		}
	}
}

func NewCLI() *Caixa {
	app := &caixaInstance{}

	var rootCmd = &cobra.Command{
		Use:           "caixa",
		Short:         "Bank reconciliation and payment settlement for small businesses",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&app.configFile, "config", "./caixa.json", "Configuration file for caixa")
	rootCmd.PersistentPreRunE = preRun(app)
	rootCmd.PersistentPostRun = postRun(app)

	rootCmd.AddCommand(serverCommands(app))
	rootCmd.AddCommand(migrateCommands(app))
	rootCmd.AddCommand(configCommands(app))
	rootCmd.AddCommand(importCommands(app))
	rootCmd.AddCommand(dedupeCommands(app))
	rootCmd.AddCommand(reconcileCommands(app))
	rootCmd.AddCommand(refreshStatusesCommands(app))

	return &Caixa{cmd: rootCmd}
}

func (w Caixa) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
