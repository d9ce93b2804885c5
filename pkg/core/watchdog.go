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

package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/probelane/probeserver/pkg/config"
	"github.com/probelane/probeserver/pkg/db"
	"github.com/probelane/probeserver/pkg/logger"
	"github.com/probelane/probeserver/pkg/metrics"
	"github.com/probelane/probeserver/pkg/models"
	"github.com/probelane/probeserver/pkg/notify"
)

const commandQueueSize = 256

// Watchdog holds the set of clients currently believed online and sweeps it
// against the registry on a timer. Sweeps are time-driven; the command
// channel only feeds the tracked set (Seen) and shutdown (Terminate).
type Watchdog struct {
	db       db.Service
	notifier *notify.Notifier
	logger   logger.Logger
	metrics  *metrics.Metrics
	timeout  int64 // seconds
	interval time.Duration
	commands chan models.Command
	tracked  map[int64]struct{}
	now      func() int64
	done     chan struct{}
}

// NewWatchdog creates a scanner; Run starts it.
func NewWatchdog(database db.Service, notifier *notify.Notifier, cfg config.WatchdogConfig,
	log logger.Logger, m *metrics.Metrics) *Watchdog {
	return &Watchdog{
		db:       database,
		notifier: notifier,
		logger:   log.WithComponent("watchdog"),
		metrics:  m,
		timeout:  int64(time.Duration(cfg.Timeout) / time.Second),
		interval: time.Duration(cfg.PollInterval),
		commands: make(chan models.Command, commandQueueSize),
		tracked:  make(map[int64]struct{}),
		now:      func() int64 { return time.Now().Unix() },
		done:     make(chan struct{}),
	}
}

// Seen signals that a client reported in. Fire and forget: a full queue is
// logged and dropped, never surfaced to the request path, and the client is
// picked up again by its next heartbeat.
func (w *Watchdog) Seen(id int64) {
	select {
	case w.commands <- models.SeenCommand{ClientID: id}:
	default:
		w.logger.Warn().Int64("client_id", id).Msg("Watchdog queue full, dropping seen signal")
		w.metrics.DroppedCommands.Inc()
	}
}

// Terminate asks the run loop to exit and waits until it has.
func (w *Watchdog) Terminate() {
	w.commands <- models.TerminateCommand{}
	<-w.done
}

// Run seeds the tracked set from the registry, then loops until Terminate.
// A registry failure during seeding or sweeping is returned as fatal: the
// scanner cannot safely continue with stale state.
func (w *Watchdog) Run(ctx context.Context) error {
	defer close(w.done)

	if err := w.seed(ctx); err != nil {
		return fmt.Errorf("watchdog seed failed: %w", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-w.commands:
			switch c := cmd.(type) {
			case models.SeenCommand:
				w.track(c.ClientID)
			case models.TerminateCommand:
				w.logger.Info().Msg("Watchdog terminating")

				return nil
			case models.NotifyCommand:
				w.logger.Warn().Msg("Ignoring notify command on watchdog queue")
			}
		case <-ticker.C:
			if err := w.sweep(ctx); err != nil {
				return fmt.Errorf("watchdog sweep failed: %w", err)
			}
		}
	}
}

func (w *Watchdog) seed(ctx context.Context) error {
	active, err := w.db.ListActiveSince(ctx, w.now()-w.timeout)
	if err != nil {
		return err
	}

	for i := range active {
		w.tracked[active[i].ID] = struct{}{}
	}

	w.metrics.TrackedClients.Set(float64(len(w.tracked)))
	w.logger.Info().Int("clients", len(w.tracked)).Msg("Seeded tracked set from registry")

	return nil
}

func (w *Watchdog) track(id int64) {
	if _, ok := w.tracked[id]; ok {
		return
	}

	w.tracked[id] = struct{}{}
	w.metrics.TrackedClients.Set(float64(len(w.tracked)))
	w.logger.Debug().Int64("client_id", id).Msg("Tracking client")
}

// sweep re-reads last_seen for every tracked client and demotes the ones
// past the timeout. Removal from the tracked set and the offline
// notification happen in the same pass, so a client is reported at most
// once per occurrence.
func (w *Watchdog) sweep(ctx context.Context) error {
	now := w.now()

	var offline []models.Client

	for id := range w.tracked {
		client, err := w.db.GetClientByID(ctx, id)

		switch {
		case errors.Is(err, db.ErrClientNotFound):
			// Row removed out from under us; stop tracking quietly.
			delete(w.tracked, id)

			continue
		case err != nil:
			return err
		}

		if now-client.LastSeen > w.timeout {
			offline = append(offline, *client)
		}
	}

	if len(offline) == 0 {
		w.metrics.TrackedClients.Set(float64(len(w.tracked)))

		return nil
	}

	sort.Slice(offline, func(i, j int) bool { return offline[i].ID < offline[j].ID })

	for i := range offline {
		delete(w.tracked, offline[i].ID)

		w.logger.Info().
			Int64("client_id", offline[i].ID).
			Str("uuid", offline[i].UUID).
			Int64("last_seen", offline[i].LastSeen).
			Msg("Client went offline")
	}

	w.metrics.OfflineTotal.Add(float64(len(offline)))
	w.metrics.TrackedClients.Set(float64(len(w.tracked)))

	// One combined message per sweep; many clients expiring together must
	// not become a notification storm.
	w.notifier.Notify(formatOfflineBatch(offline))

	return nil
}

func formatOfflineBatch(offline []models.Client) string {
	var b strings.Builder

	for i := range offline {
		if i > 0 {
			b.WriteByte('\n')
		}

		fmt.Fprintf(&b, "%s (%s) goes offline", offline[i].DisplayHostname(), offline[i].UUID)
	}

	return b.String()
}
