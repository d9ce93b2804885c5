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

// Package models defines the shared data types for the probe server.
package models

// NoHostname is the display placeholder for clients that never reported one.
const NoHostname = "(no hostname)"

// Client is one registered probe client.
type Client struct {
	// Registry-assigned identifier, stable for the client's lifetime
	ID int64 `json:"id"`
	// Client-supplied stable identity, unique across all clients
	UUID string `json:"uuid"`
	// Boot counter reported by the client; a change on re-registration
	// indicates a reboot
	BootTime int64 `json:"boot_time"`
	// Epoch seconds of the last accepted contact
	LastSeen int64 `json:"last_seen"`
	// Optional display name, empty until the client reports one
	Hostname string `json:"hostname,omitempty"`
}

// DisplayHostname returns the hostname or the fixed placeholder.
func (c *Client) DisplayHostname() string {
	if c.Hostname == "" {
		return NoHostname
	}

	return c.Hostname
}

// RawSample is one opaque heartbeat payload, append-only.
type RawSample struct {
	ClientID  int64  `json:"from"`
	Payload   string `json:"data"`
	Timestamp int64  `json:"timestamp"`
}
