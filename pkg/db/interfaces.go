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

//go:generate mockgen -destination=mock_db.go -package=db github.com/probelane/probeserver/pkg/db Service

// Package db implements the client registry: the durable mapping from
// client identity to registration metadata and last contact time.
package db

import (
	"context"

	"github.com/probelane/probeserver/pkg/models"
)

// Service is the row-level registry interface consumed by the core. All
// timestamps are epoch seconds. Every operation is one critical section on
// the backing store; callers never hold the registry across operations.
type Service interface {
	// GetClientByUUID looks up a client by its self-reported identity.
	// Returns ErrClientNotFound when no such client exists.
	GetClientByUUID(ctx context.Context, uuid string) (*models.Client, error)

	// GetClientByID looks up a client by its registry-assigned id.
	GetClientByID(ctx context.Context, id int64) (*models.Client, error)

	// RegisterClient creates a record for a previously unknown uuid.
	// Returns ErrDuplicateRegistration if the uuid already exists; this is
	// create-if-absent, not idempotent re-registration.
	RegisterClient(ctx context.Context, uuid string, bootTime int64, hostname string, now int64) (*models.Client, error)

	// UpdateBootTime overwrites boot_time and last_seen for a known client
	// (the reboot path). A non-empty hostname replaces the stored one.
	UpdateBootTime(ctx context.Context, id, bootTime int64, hostname string, now int64) error

	// TouchClient sets last_seen to max(last_seen, now).
	TouchClient(ctx context.Context, id, now int64) error

	// AppendSample records one opaque heartbeat payload. Append-only; the
	// core never reads samples back.
	AppendSample(ctx context.Context, id int64, payload string, now int64) error

	// ListActiveSince returns every client with last_seen strictly greater
	// than the threshold, in registry scan order.
	ListActiveSince(ctx context.Context, threshold int64) ([]models.Client, error)

	Close() error
}
