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
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/caddyserver/certmagic"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jerry-enebeli/caixa/api"
	"github.com/jerry-enebeli/caixa/config"
	"github.com/jerry-enebeli/caixa/internal/traces"
)

// newTLSConfig obtains certificates for the configured domain through ACME,
// falling back to localhost when no domain is set.
func newTLSConfig(ctx context.Context, conf config.ServerConfig) (*tls.Config, error) {
	certmagic.DefaultACME.Agreed = true
	certmagic.DefaultACME.Email = conf.Email
	cfg := certmagic.NewDefault()
	cfg.Storage = &certmagic.FileStorage{Path: conf.CertStorage}

	domains := []string{conf.Domain}
	if conf.Domain == "" {
		logrus.Warn("No domain specified, defaulting to localhost")
		domains = []string{"localhost"}
	}
	if err := cfg.ManageSync(ctx, domains); err != nil {
		return nil, err
	}
	return cfg.TLSConfig(), nil
}

func initializeTracing(ctx context.Context, cnf *config.Configuration) (func(context.Context) error, error) {
	if !cnf.Tracing.Enabled {
		return func(context.Context) error { return nil }, nil
	}
	shutdown, err := traces.SetupOTelSDK(ctx, cnf.ProjectName)
	if err != nil {
		return nil, fmt.Errorf("error setting up OTel SDK: %w", err)
	}
	return shutdown, nil
}

// serverCommands starts the HTTP API and refreshes obligation statuses once
// a day so overdue obligations show up without a write.
func serverCommands(app *caixaInstance) *cobra.Command {
	var refreshEvery time.Duration

	cmd := &cobra.Command{
		Use:   "start",
		Short: "start caixa server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			shutdownTracing, err := initializeTracing(ctx, app.cnf)
			if err != nil {
				return err
			}
			defer func() {
				if err := shutdownTracing(context.Background()); err != nil {
					logrus.WithError(err).Warn("error during tracing shutdown")
				}
			}()

			newAPI := api.NewAPI(app.caixa)
			if newAPI == nil {
				return errors.New("configuration not loaded")
			}

			server := &http.Server{
				Addr:              ":" + app.cnf.Server.Port,
				Handler:           newAPI.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			if app.cnf.Server.SSL {
				tlsConfig, err := newTLSConfig(ctx, app.cnf.Server)
				if err != nil {
					return err
				}
				server.TLSConfig = tlsConfig
			}

			if refreshEvery > 0 {
				go refreshStatusesLoop(ctx, app, refreshEvery)
			}

			errCh := make(chan error, 1)
			go func() {
				if server.TLSConfig != nil {
					logrus.Infof("Starting HTTPS server on %s", app.cnf.Server.Port)
					errCh <- server.ListenAndServeTLS("", "")
					return
				}
				logrus.Infof("Starting server on http://localhost:%s", app.cnf.Server.Port)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			logrus.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().DurationVar(&refreshEvery, "refresh-statuses-every", 24*time.Hour, "interval between obligation status refreshes, 0 disables")
	return cmd
}

func refreshStatusesLoop(ctx context.Context, app *caixaInstance, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			changed, err := app.caixa.RefreshObligationStatuses(ctx)
			if err != nil {
				logrus.WithError(err).Error("refreshing obligation statuses")
				continue
			}
			logrus.WithField("updated", changed).Info("obligation statuses refreshed")
		}
	}
}
