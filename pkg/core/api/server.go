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

// Package api provides the HTTP ingress for the probe server.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/probelane/probeserver/pkg/core"
	"github.com/probelane/probeserver/pkg/logger"
	"github.com/probelane/probeserver/pkg/metrics"
	"github.com/probelane/probeserver/pkg/models"
)

// APIServer routes ingestion events and the admin surface to the core.
type APIServer struct {
	core    *core.Server
	engine  *gin.Engine
	logger  logger.Logger
	timeout time.Duration
}

// NewAPIServer builds the router. The report token guards the report
// endpoint and the admin token guards the admin surface; /metrics stays
// open for scrapers.
func NewAPIServer(coreServer *core.Server, token, adminToken string, m *metrics.Metrics,
	activeWindow time.Duration, log logger.Logger) *APIServer {
	gin.SetMode(gin.ReleaseMode)

	s := &APIServer{
		core:    coreServer,
		engine:  gin.New(),
		logger:  log.WithComponent("api"),
		timeout: activeWindow,
	}

	s.engine.Use(gin.Recovery())
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{})))

	s.engine.POST("/", BearerAuth(token), s.handleReport)
	s.engine.GET("/clients", BearerAuth(adminToken), s.handleListClients)

	return s
}

// Handler exposes the router for the HTTP listener.
func (s *APIServer) Handler() http.Handler {
	return s.engine
}

func (s *APIServer) handleReport(c *gin.Context) {
	var req models.Request

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": "invalid request body"})

		return
	}

	if req.UUID == "" || uuid.Validate(req.UUID) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": "invalid client uuid"})

		return
	}

	resp := s.core.ProcessEvent(c.Request.Context(), &req)

	c.JSON(int(resp.Status), resp)
}

// handleListClients returns the clients seen within the timeout window.
func (s *APIServer) handleListClients(c *gin.Context) {
	threshold := time.Now().Add(-s.timeout).Unix()

	clients, err := s.core.DB.ListActiveSince(c.Request.Context(), threshold)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list active clients")
		c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "internal server error"})

		return
	}

	if clients == nil {
		clients = []models.Client{}
	}

	c.JSON(http.StatusOK, models.ClientList{Result: clients})
}
