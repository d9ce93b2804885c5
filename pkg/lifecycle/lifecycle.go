/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package lifecycle assembles the probe server and runs it until shutdown.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/probelane/probeserver/pkg/config"
	"github.com/probelane/probeserver/pkg/core"
	"github.com/probelane/probeserver/pkg/core/api"
	"github.com/probelane/probeserver/pkg/db"
	"github.com/probelane/probeserver/pkg/logger"
	"github.com/probelane/probeserver/pkg/metrics"
	"github.com/probelane/probeserver/pkg/notify"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// logTransport stands in for Telegram when no bot token is configured.
// Notifications still flow through the queue and land in the log.
type logTransport struct {
	logger logger.Logger
}

func (t *logTransport) Send(_ context.Context, _ int64, text string) error {
	t.logger.Info().Str("text", text).Msg("Notification (no transport configured)")

	return nil
}

// Run loads the configuration, wires the server together, and blocks until
// the context is canceled or a component fails fatally.
func Run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	database, err := db.New(ctx, cfg.Server.Database, log)
	if err != nil {
		return fmt.Errorf("failed to open client registry: %w", err)
	}
	defer database.Close()

	m := metrics.New()

	var transport notify.Transport
	if cfg.Telegram.BotToken != "" {
		transport = notify.NewTelegramTransport(cfg.Telegram.BotToken, cfg.Telegram.APIServer)
	} else {
		log.Warn().Msg("No telegram bot token configured, notifications go to the log only")

		transport = &logTransport{logger: log}
	}

	notifier := notify.New(transport, cfg.Telegram.Owner, log, m)
	coreServer := core.NewServer(cfg, database, notifier, m, log)
	apiServer := api.NewAPIServer(coreServer, cfg.Server.Token,
		cfg.Server.EffectiveAdminToken(), m,
		time.Duration(cfg.Watchdog.Timeout), log)

	httpServer := &http.Server{
		Addr:              cfg.Server.ListenAddr(),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup

	errCh := make(chan error, 2)

	wg.Add(1)

	go func() {
		defer wg.Done()
		notifier.Run(runCtx)
	}()

	wg.Add(1)

	go func() {
		defer wg.Done()

		if err := coreServer.Watchdog().Run(runCtx); err != nil {
			errCh <- fmt.Errorf("watchdog failed: %w", err)
		}
	}()

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("Probe server listening")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server failed: %w", err)
		}
	}()

	coreServer.SendStartupNotification()

	var runErr error

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutdown signal received")
	case runErr = <-errCh:
		log.Error().Err(runErr).Msg("Fatal component failure")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	coreServer.SendShutdownNotification()
	coreServer.Watchdog().Terminate()
	notifier.Terminate()
	cancel()
	wg.Wait()

	log.Info().Msg("Probe server stopped")

	return runErr
}
