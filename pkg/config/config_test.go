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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "probeserver.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
[server]
bind = "0.0.0.0"
port = 8080
token = "secret"
database = "/var/lib/probeserver/clients.db"
min_version = 2

[telegram]
bot_token = "12345:abcdef"
owner = 10086

[watchdog]
timeout = "25m"
poll_interval = "10s"

[logging]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.ListenAddr())
	assert.Equal(t, "secret", cfg.Server.Token)
	assert.Equal(t, 2, cfg.Server.MinVersion)
	assert.Equal(t, int64(10086), cfg.Telegram.Owner)
	assert.Equal(t, 25*time.Minute, time.Duration(cfg.Watchdog.Timeout))
	assert.Equal(t, 10*time.Second, time.Duration(cfg.Watchdog.PollInterval))
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestEffectiveAdminToken(t *testing.T) {
	path := writeConfig(t, `
[server]
token = "report"
admin_token = "admin"
database = ":memory:"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "admin", cfg.Server.EffectiveAdminToken())

	cfg.Server.AdminToken = ""
	assert.Equal(t, "report", cfg.Server.EffectiveAdminToken())
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
database = ":memory:"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:25888", cfg.Server.ListenAddr())
	assert.Equal(t, 20*time.Minute, time.Duration(cfg.Watchdog.Timeout))
	assert.Equal(t, 30*time.Second, time.Duration(cfg.Watchdog.PollInterval))
	assert.Equal(t, 1, cfg.Server.MinVersion)
}

func TestLoadMissingDatabase(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 8080
`)

	_, err := Load(path)
	assert.ErrorIs(t, err, errDatabaseRequired)
}

func TestLoadBadDuration(t *testing.T) {
	path := writeConfig(t, `
[server]
database = ":memory:"

[watchdog]
timeout = "soon"
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := Default()
	cfg.Server.Database = ":memory:"
	cfg.Server.Port = 70000

	assert.ErrorIs(t, cfg.Validate(), errPortRange)
}
