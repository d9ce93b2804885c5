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

// Package core implements the client liveness tracking engine: heartbeat
// ingestion, reboot detection and the watchdog scanner that demotes silent
// clients to offline.
package core

import (
	"fmt"
	"time"

	"github.com/probelane/probeserver/pkg/config"
	"github.com/probelane/probeserver/pkg/db"
	"github.com/probelane/probeserver/pkg/logger"
	"github.com/probelane/probeserver/pkg/metrics"
	"github.com/probelane/probeserver/pkg/notify"
)

// Server ties the registry, the watchdog and the notifier together and
// exposes the ingestion entry point to the HTTP layer.
type Server struct {
	DB       db.Service
	config   *config.Config
	logger   logger.Logger
	metrics  *metrics.Metrics
	notifier *notify.Notifier
	watchdog *Watchdog
	now      func() int64
}

// NewServer wires a core server from its collaborators.
func NewServer(cfg *config.Config, database db.Service, notifier *notify.Notifier,
	m *metrics.Metrics, log logger.Logger) *Server {
	s := &Server{
		DB:       database,
		config:   cfg,
		logger:   log.WithComponent("core"),
		metrics:  m,
		notifier: notifier,
		now:      func() int64 { return time.Now().Unix() },
	}

	s.watchdog = NewWatchdog(database, notifier, cfg.Watchdog, log, m)
	s.watchdog.now = s.now

	return s
}

// Watchdog returns the background scanner for the lifecycle runner.
func (s *Server) Watchdog() *Watchdog {
	return s.watchdog
}

// SendStartupNotification tells the operator the server came up.
func (s *Server) SendStartupNotification() {
	s.notifier.Notify(fmt.Sprintf("Probe server started at %s",
		time.Unix(s.now(), 0).UTC().Format(time.RFC3339)))
}

// SendShutdownNotification tells the operator the server is going away.
func (s *Server) SendShutdownNotification() {
	s.notifier.Notify(fmt.Sprintf("Probe server stopping at %s",
		time.Unix(s.now(), 0).UTC().Format(time.RFC3339)))
}
