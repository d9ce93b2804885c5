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

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/probelane/probeserver/pkg/logger"
	"github.com/probelane/probeserver/pkg/models"
)

// schemaVersion is the only schema this build reads and writes.
const schemaVersion = "3"

const createTables = `
CREATE TABLE "clients" (
	"id"	INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
	"uuid"	TEXT NOT NULL UNIQUE,
	"boot_time"	INTEGER NOT NULL,
	"last_seen"	INTEGER NOT NULL,
	"hostname"	TEXT
);

CREATE TABLE "raw_data" (
	"id"	INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
	"from"	INTEGER NOT NULL,
	"data"	TEXT NOT NULL,
	"timestamp"	INTEGER NOT NULL
);

CREATE TABLE "pbs_meta" (
	"key"	TEXT NOT NULL,
	"value"	TEXT NOT NULL,
	PRIMARY KEY("key")
);

INSERT INTO "pbs_meta" VALUES ('version', '3');
`

// DB is the SQLite-backed registry. One mutex serializes all operations:
// the store is a single logical resource shared by the request handlers and
// the watchdog, and each method is exactly one critical section.
type DB struct {
	conn   *sql.DB
	mu     sync.Mutex
	logger logger.Logger
}

// New opens (and if necessary initializes) the registry at the given SQLite
// DSN. An existing database with a different schema version is refused.
func New(ctx context.Context, dsn string, log logger.Logger) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedOpenDB, err)
	}

	// The mutex is the concurrency gate; extra pooled connections would
	// only fight over SQLite's own file lock.
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("%w: %w", ErrFailedOpenDB, err)
	}

	database := &DB{conn: conn, logger: log}

	if err := database.initSchema(ctx); err != nil {
		_ = conn.Close()

		return nil, err
	}

	return database, nil
}

func (db *DB) initSchema(ctx context.Context) error {
	var name string

	err := db.conn.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'pbs_meta'`).Scan(&name)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.conn.ExecContext(ctx, createTables); err != nil {
			return fmt.Errorf("%w: %w", ErrFailedToInit, err)
		}

		db.logger.Info().Str("version", schemaVersion).Msg("Initialized registry schema")

		return nil
	case err != nil:
		return fmt.Errorf("%w: %w", ErrFailedToInit, err)
	}

	var version string

	if err := db.conn.QueryRowContext(ctx,
		`SELECT value FROM pbs_meta WHERE key = 'version'`).Scan(&version); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToInit, err)
	}

	if version != schemaVersion {
		return fmt.Errorf("%w: got %s, want %s", ErrSchemaVersion, version, schemaVersion)
	}

	return nil
}

// GetClientByUUID implements Service.
func (db *DB) GetClientByUUID(ctx context.Context, uuid string) (*models.Client, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.scanClient(db.conn.QueryRowContext(ctx,
		`SELECT id, uuid, boot_time, last_seen, hostname FROM clients WHERE uuid = ?`, uuid))
}

// GetClientByID implements Service.
func (db *DB) GetClientByID(ctx context.Context, id int64) (*models.Client, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.scanClient(db.conn.QueryRowContext(ctx,
		`SELECT id, uuid, boot_time, last_seen, hostname FROM clients WHERE id = ?`, id))
}

func (*DB) scanClient(row *sql.Row) (*models.Client, error) {
	var (
		client   models.Client
		hostname sql.NullString
	)

	err := row.Scan(&client.ID, &client.UUID, &client.BootTime, &client.LastSeen, &hostname)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrClientNotFound
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}

	client.Hostname = hostname.String

	return &client, nil
}

// RegisterClient implements Service.
func (db *DB) RegisterClient(
	ctx context.Context, uuid string, bootTime int64, hostname string, now int64) (*models.Client, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var existing int64

	err := db.conn.QueryRowContext(ctx, `SELECT id FROM clients WHERE uuid = ?`, uuid).Scan(&existing)

	switch {
	case err == nil:
		return nil, ErrDuplicateRegistration
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}

	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO clients (uuid, boot_time, last_seen, hostname) VALUES (?, ?, ?, ?)`,
		uuid, bootTime, now, nullable(hostname))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToInsert, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToInsert, err)
	}

	return &models.Client{
		ID:       id,
		UUID:     uuid,
		BootTime: bootTime,
		LastSeen: now,
		Hostname: hostname,
	}, nil
}

// UpdateBootTime implements Service.
func (db *DB) UpdateBootTime(ctx context.Context, id, bootTime int64, hostname string, now int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.ExecContext(ctx,
		`UPDATE clients SET boot_time = ?, last_seen = ?, hostname = COALESCE(?, hostname) WHERE id = ?`,
		bootTime, now, nullable(hostname), id)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToUpdate, err)
	}

	return nil
}

// TouchClient implements Service. The MAX keeps last_seen monotonic even if
// a report carries an older timestamp.
func (db *DB) TouchClient(ctx context.Context, id, now int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.ExecContext(ctx,
		`UPDATE clients SET last_seen = MAX(last_seen, ?) WHERE id = ?`, now, id)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToUpdate, err)
	}

	return nil
}

// AppendSample implements Service.
func (db *DB) AppendSample(ctx context.Context, id int64, payload string, now int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO raw_data ("from", data, timestamp) VALUES (?, ?, ?)`, id, payload, now)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToInsert, err)
	}

	return nil
}

// ListActiveSince implements Service.
func (db *DB) ListActiveSince(ctx context.Context, threshold int64) ([]models.Client, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, uuid, boot_time, last_seen, hostname FROM clients WHERE last_seen > ? ORDER BY id`,
		threshold)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}
	defer func() { _ = rows.Close() }()

	var clients []models.Client

	for rows.Next() {
		var (
			client   models.Client
			hostname sql.NullString
		)

		if err := rows.Scan(&client.ID, &client.UUID, &client.BootTime, &client.LastSeen, &hostname); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
		}

		client.Hostname = hostname.String
		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}

	return clients, nil
}

// Close implements Service.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.conn.Close()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}

	return s
}
