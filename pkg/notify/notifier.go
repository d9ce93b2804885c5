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

// Package notify delivers operator notifications through a single-consumer
// queue: at most one in-flight send, queued messages delivered in order,
// best effort (no retries).
package notify

import (
	"context"

	"github.com/probelane/probeserver/pkg/logger"
	"github.com/probelane/probeserver/pkg/metrics"
	"github.com/probelane/probeserver/pkg/models"
)

const defaultQueueSize = 64

// Transport attempts one delivery of a text message to an operator channel.
type Transport interface {
	Send(ctx context.Context, operator int64, text string) error
}

// Notifier serializes outbound messages to the transport.
type Notifier struct {
	transport Transport
	operator  int64
	commands  chan models.Command
	logger    logger.Logger
	metrics   *metrics.Metrics
	done      chan struct{}
}

// New creates a notifier. Run must be started before Terminate is called.
func New(transport Transport, operator int64, log logger.Logger, m *metrics.Metrics) *Notifier {
	return &Notifier{
		transport: transport,
		operator:  operator,
		commands:  make(chan models.Command, defaultQueueSize),
		logger:    log.WithComponent("notifier"),
		metrics:   m,
		done:      make(chan struct{}),
	}
}

// Notify enqueues one message without blocking. Returns false when the
// queue is full; producers treat that as a logged drop, never an error.
func (n *Notifier) Notify(text string) bool {
	select {
	case n.commands <- models.NotifyCommand{Text: text}:
		return true
	default:
		n.logger.Warn().Msg("Notification queue full, dropping message")
		n.metrics.DroppedCommands.Inc()

		return false
	}
}

// Terminate asks the run loop to exit once the queued messages ahead of it
// are drained, and waits until it has.
func (n *Notifier) Terminate() {
	n.commands <- models.TerminateCommand{}
	<-n.done
}

// Run consumes the queue until a Terminate command arrives. Transport
// failures are logged and swallowed; delivery is at most once per message.
func (n *Notifier) Run(ctx context.Context) {
	defer close(n.done)

	for cmd := range n.commands {
		switch c := cmd.(type) {
		case models.NotifyCommand:
			n.deliver(ctx, c.Text)
		case models.TerminateCommand:
			n.logger.Info().Msg("Notifier terminating")

			return
		case models.SeenCommand:
			// Watchdog traffic does not belong on this queue.
			n.logger.Warn().Int64("client_id", c.ClientID).Msg("Ignoring seen command on notifier queue")
		}
	}
}

func (n *Notifier) deliver(ctx context.Context, text string) {
	if err := n.transport.Send(ctx, n.operator, text); err != nil {
		n.logger.Error().Err(err).Msg("Failed to send notification")
		n.metrics.NotificationsFailed.Inc()

		return
	}

	n.metrics.NotificationsSent.Inc()
}
