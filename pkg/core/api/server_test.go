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

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/probelane/probeserver/pkg/config"
	"github.com/probelane/probeserver/pkg/core"
	"github.com/probelane/probeserver/pkg/db"
	"github.com/probelane/probeserver/pkg/logger"
	"github.com/probelane/probeserver/pkg/metrics"
	"github.com/probelane/probeserver/pkg/models"
	"github.com/probelane/probeserver/pkg/notify"
)

const (
	testToken      = "sekrit"
	testAdminToken = "admin-sekrit"
	testUUID       = "0b907855-4864-4c48-a88c-88a9e0b8ba46"
)

type nopTransport struct{}

func (nopTransport) Send(context.Context, int64, string) error { return nil }

func newTestAPI(t *testing.T) (*APIServer, *db.MockService) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockDB := db.NewMockService(ctrl)

	cfg := config.Default()
	cfg.Server.Database = ":memory:"
	cfg.Server.Token = testToken

	log := logger.NewTestLogger()
	m := metrics.New()
	notifier := notify.New(nopTransport{}, 1, log, m)

	go notifier.Run(context.Background())
	t.Cleanup(notifier.Terminate)

	coreServer := core.NewServer(cfg, mockDB, notifier, m, log)
	apiServer := NewAPIServer(coreServer, testToken, testAdminToken, m, 20*time.Minute, log)

	return apiServer, mockDB
}

func doRequest(api *APIServer, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	api.Handler().ServeHTTP(recorder, req)

	return recorder
}

func TestReportRequiresAuth(t *testing.T) {
	api, _ := newTestAPI(t)

	resp := doRequest(api, http.MethodPost, "/", "", `{"version":"1","action":"heartbeat","uuid":"`+testUUID+`"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = doRequest(api, http.MethodPost, "/", "wrong", `{"version":"1","action":"heartbeat","uuid":"`+testUUID+`"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestReportHeartbeat(t *testing.T) {
	api, mockDB := newTestAPI(t)

	mockDB.EXPECT().GetClientByUUID(gomock.Any(), testUUID).
		Return(&models.Client{ID: 1, UUID: testUUID}, nil)
	mockDB.EXPECT().TouchClient(gomock.Any(), int64(1), gomock.Any()).Return(nil)

	resp := doRequest(api, http.MethodPost, "/", testToken,
		`{"version":"1","action":"heartbeat","uuid":"`+testUUID+`"}`)

	require.Equal(t, http.StatusOK, resp.Code)

	var body models.Response
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, int64(200), body.Status)
	assert.Empty(t, body.Message)
}

func TestReportUnknownClient(t *testing.T) {
	api, mockDB := newTestAPI(t)

	mockDB.EXPECT().GetClientByUUID(gomock.Any(), testUUID).Return(nil, db.ErrClientNotFound)

	resp := doRequest(api, http.MethodPost, "/", testToken,
		`{"version":"1","action":"heartbeat","uuid":"`+testUUID+`"}`)

	require.Equal(t, http.StatusBadRequest, resp.Code)

	var body models.Response
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "Not registered client", body.Message)
}

func TestReportRejectsBadUUID(t *testing.T) {
	api, _ := newTestAPI(t)

	resp := doRequest(api, http.MethodPost, "/", testToken,
		`{"version":"1","action":"heartbeat","uuid":"not-a-uuid"}`)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestReportRejectsBadJSON(t *testing.T) {
	api, _ := newTestAPI(t)

	resp := doRequest(api, http.MethodPost, "/", testToken, `{broken`)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestReportStorageError(t *testing.T) {
	api, mockDB := newTestAPI(t)

	mockDB.EXPECT().GetClientByUUID(gomock.Any(), testUUID).Return(nil, db.ErrFailedToQuery)

	resp := doRequest(api, http.MethodPost, "/", testToken,
		`{"version":"1","action":"heartbeat","uuid":"`+testUUID+`"}`)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestListClients(t *testing.T) {
	api, mockDB := newTestAPI(t)

	mockDB.EXPECT().ListActiveSince(gomock.Any(), gomock.Any()).
		Return([]models.Client{{ID: 1, UUID: testUUID, Hostname: "alpha", LastSeen: 1000}}, nil)

	resp := doRequest(api, http.MethodGet, "/clients", testAdminToken, "")

	require.Equal(t, http.StatusOK, resp.Code)

	var body models.ClientList
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Result, 1)
	assert.Equal(t, "alpha", body.Result[0].Hostname)
}

func TestListClientsEmpty(t *testing.T) {
	api, mockDB := newTestAPI(t)

	mockDB.EXPECT().ListActiveSince(gomock.Any(), gomock.Any()).Return(nil, nil)

	resp := doRequest(api, http.MethodGet, "/clients", testAdminToken, "")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"result":[]}`, resp.Body.String())
}

func TestAdminTokenSeparation(t *testing.T) {
	api, _ := newTestAPI(t)

	resp := doRequest(api, http.MethodGet, "/clients", testToken, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = doRequest(api, http.MethodPost, "/", testAdminToken,
		`{"version":"1","action":"heartbeat","uuid":"`+testUUID+`"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestMetricsEndpointIsOpen(t *testing.T) {
	api, _ := newTestAPI(t)

	resp := doRequest(api, http.MethodGet, "/metrics", "", "")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "probeserver_")
}

func TestEmptyConfiguredTokenRejectsAll(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.GET("/ping", BearerAuth(""), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer ")

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
