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
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/probelane/probeserver/pkg/db"
	"github.com/probelane/probeserver/pkg/models"
)

// serverErrorResponse is the generic envelope for storage failures; the
// taxonomy codes are reserved for client errors.
func serverErrorResponse() *models.Response {
	return &models.Response{Status: 500, Message: "internal server error"}
}

// ProcessEvent validates and applies one incoming register/heartbeat event.
// Client errors map to the fixed result taxonomy; storage errors map to a
// generic server error and are logged.
func (s *Server) ProcessEvent(ctx context.Context, req *models.Request) *models.Response {
	code, err := s.processEvent(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).
			Str("uuid", req.UUID).
			Str("action", req.Action).
			Msg("Registry failure while processing event")
		s.metrics.EventsTotal.WithLabelValues(req.Action, "storage_error").Inc()

		return serverErrorResponse()
	}

	s.metrics.EventsTotal.WithLabelValues(req.Action, resultLabel(code)).Inc()

	return code.Response()
}

func (s *Server) processEvent(ctx context.Context, req *models.Request) (models.ResultCode, error) {
	if !s.versionAccepted(req.Version) {
		return models.ResultVersionMismatch, nil
	}

	now := s.now()

	client, err := s.DB.GetClientByUUID(ctx, req.UUID)

	known := true

	switch {
	case errors.Is(err, db.ErrClientNotFound):
		known = false
	case err != nil:
		return 0, err
	}

	if !known && req.Action != models.ActionRegister {
		return models.ResultNotRegistered, nil
	}

	switch req.Action {
	case models.ActionRegister:
		return s.handleRegister(ctx, req, client, known, now)
	case models.ActionHeartbeat:
		return s.handleHeartbeat(ctx, req, client, now)
	default:
		return models.ResultUnsupportedMethod, nil
	}
}

// handleRegister creates a record for a new machine, or detects a reboot on
// a known one. A re-registration with an unchanged boot_time is a no-op.
func (s *Server) handleRegister(
	ctx context.Context, req *models.Request, client *models.Client, known bool, now int64,
) (models.ResultCode, error) {
	info, hasInfo := parseClientInfo(req.Body)

	if !known {
		created, err := s.DB.RegisterClient(ctx, req.UUID, info.BootTime, info.Hostname, now)
		if errors.Is(err, db.ErrDuplicateRegistration) {
			// Lost a race with a concurrent register for the same uuid;
			// re-read and fall through to the known-client path.
			created, err = s.DB.GetClientByUUID(ctx, req.UUID)
			if err != nil {
				return 0, err
			}

			return s.handleKnownRegister(ctx, created, info, hasInfo, now)
		}

		if err != nil {
			return 0, err
		}

		s.logger.Info().
			Int64("client_id", created.ID).
			Str("uuid", created.UUID).
			Msg("Registered new client")

		s.announceOnline(created)
		s.watchdog.Seen(created.ID)

		return models.ResultOK, nil
	}

	return s.handleKnownRegister(ctx, client, info, hasInfo, now)
}

func (s *Server) handleKnownRegister(
	ctx context.Context, client *models.Client, info models.ClientInfo, hasInfo bool, now int64,
) (models.ResultCode, error) {
	if !hasInfo || info.BootTime == client.BootTime {
		// Same boot, already known: nothing changed, nobody notified.
		return models.ResultOK, nil
	}

	if err := s.DB.UpdateBootTime(ctx, client.ID, info.BootTime, info.Hostname, now); err != nil {
		return 0, err
	}

	s.logger.Info().
		Int64("client_id", client.ID).
		Str("uuid", client.UUID).
		Int64("old_boot_time", client.BootTime).
		Int64("new_boot_time", info.BootTime).
		Msg("Client rebooted")

	updated := *client
	updated.BootTime = info.BootTime

	if info.Hostname != "" {
		updated.Hostname = info.Hostname
	}

	s.announceOnline(&updated)
	s.watchdog.Seen(client.ID)

	return models.ResultOK, nil
}

func (s *Server) handleHeartbeat(
	ctx context.Context, req *models.Request, client *models.Client, now int64,
) (models.ResultCode, error) {
	if err := s.DB.TouchClient(ctx, client.ID, now); err != nil {
		return 0, err
	}

	s.watchdog.Seen(client.ID)

	if req.Body != "" {
		if err := s.DB.AppendSample(ctx, client.ID, req.Body, now); err != nil {
			return 0, err
		}
	}

	return models.ResultOK, nil
}

func (s *Server) announceOnline(client *models.Client) {
	s.notifier.Notify(fmt.Sprintf("%s (%d: %s) comes online",
		client.DisplayHostname(), client.ID, client.UUID))
}

// versionAccepted gates clients below the configured minimum protocol
// version. An unparsable version string never passes the gate.
func (s *Server) versionAccepted(version string) bool {
	if s.config.Server.MinVersion <= 0 {
		return true
	}

	v, err := strconv.Atoi(version)
	if err != nil {
		return false
	}

	return v >= s.config.Server.MinVersion
}

// parseClientInfo decodes the optional inner body of a register request.
// Parse failure means "no metadata supplied", never a rejected request.
func parseClientInfo(body string) (models.ClientInfo, bool) {
	if body == "" {
		return models.ClientInfo{}, false
	}

	var info models.ClientInfo

	if err := json.Unmarshal([]byte(body), &info); err != nil {
		return models.ClientInfo{}, false
	}

	return info, true
}

func resultLabel(code models.ResultCode) string {
	switch code {
	case models.ResultOK:
		return "ok"
	case models.ResultNotRegistered:
		return "not_registered"
	case models.ResultVersionMismatch:
		return "version_mismatch"
	case models.ResultUnsupportedMethod:
		return "unsupported_method"
	default:
		return "unknown"
	}
}
