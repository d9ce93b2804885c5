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

// Package metrics exposes the probe server's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics bundles the counters and gauges shared by the ingestion path, the
// watchdog and the notifier.
type Metrics struct {
	registry *prometheus.Registry

	// EventsTotal counts ingestion events by action and result.
	EventsTotal *prometheus.CounterVec

	// OfflineTotal counts offline transitions detected by the watchdog.
	OfflineTotal prometheus.Counter

	// TrackedClients is the current size of the watchdog's tracked set.
	TrackedClients prometheus.Gauge

	// NotificationsSent and NotificationsFailed count transport attempts.
	NotificationsSent   prometheus.Counter
	NotificationsFailed prometheus.Counter

	// DroppedCommands counts fire-and-forget sends that hit a full queue.
	DroppedCommands prometheus.Counter
}

// New creates and registers the probe server metric set on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		EventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "probeserver_events_total",
			Help: "Ingestion events by action and result.",
		}, []string{"action", "result"}),
		OfflineTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "probeserver_offline_transitions_total",
			Help: "Clients demoted to offline by the watchdog.",
		}),
		TrackedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "probeserver_tracked_clients",
			Help: "Clients currently believed online.",
		}),
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "probeserver_notifications_sent_total",
			Help: "Notifications delivered to the transport.",
		}),
		NotificationsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "probeserver_notifications_failed_total",
			Help: "Notification sends rejected by the transport.",
		}),
		DroppedCommands: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "probeserver_dropped_commands_total",
			Help: "Commands dropped because a queue was full.",
		}),
	}

	registry.MustRegister(
		m.EventsTotal,
		m.OfflineTotal,
		m.TrackedClients,
		m.NotificationsSent,
		m.NotificationsFailed,
		m.DroppedCommands,
	)

	return m
}

// Registry returns the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
