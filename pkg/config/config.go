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

// Package config loads the probe server's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/probelane/probeserver/pkg/logger"
)

var (
	errDatabaseRequired = errors.New("server.database is required")
	errBindRequired     = errors.New("server.bind is required")
	errPortRange        = errors.New("server.port must be between 1 and 65535")
	errTimeoutPositive  = errors.New("watchdog.timeout must be positive")
	errIntervalPositive = errors.New("watchdog.poll_interval must be positive")
)

// Duration wraps time.Duration so TOML values can be written as "20m".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for go-toml.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}

	*d = Duration(parsed)

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// ServerConfig is the [server] section.
type ServerConfig struct {
	Bind       string `toml:"bind"`
	Port       int    `toml:"port"`
	Token      string `toml:"token"`
	AdminToken string `toml:"admin_token"`
	Database   string `toml:"database"`
	MinVersion int    `toml:"min_version"`
}

// ListenAddr returns the bind address/port pair for the HTTP listener.
func (s *ServerConfig) ListenAddr() string {
	return fmt.Sprintf("%s:%d", s.Bind, s.Port)
}

// EffectiveAdminToken returns the token guarding the admin surface. When no
// separate admin token is configured the report token applies.
func (s *ServerConfig) EffectiveAdminToken() string {
	if s.AdminToken != "" {
		return s.AdminToken
	}

	return s.Token
}

// TelegramConfig is the [telegram] section: the operator notification
// channel. An empty bot token disables outbound notifications.
type TelegramConfig struct {
	BotToken  string `toml:"bot_token"`
	APIServer string `toml:"api_server"`
	Owner     int64  `toml:"owner"`
}

// WatchdogConfig is the [watchdog] section.
type WatchdogConfig struct {
	Timeout      Duration `toml:"timeout"`
	PollInterval Duration `toml:"poll_interval"`
}

// Config is the full probe server configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Telegram TelegramConfig `toml:"telegram"`
	Watchdog WatchdogConfig `toml:"watchdog"`
	Logging  *logger.Config `toml:"logging"`
}

// Default returns a configuration with all optional settings filled in.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Bind:       "127.0.0.1",
			Port:       25888,
			MinVersion: 1,
		},
		Watchdog: WatchdogConfig{
			Timeout:      Duration(20 * time.Minute),
			PollInterval: Duration(30 * time.Second),
		},
		Logging: logger.DefaultConfig(),
	}
}

// Load reads and validates a TOML configuration file. Missing optional
// settings fall back to the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	cfg := Default()

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings the server cannot run without.
func (c *Config) Validate() error {
	if c.Server.Bind == "" {
		return errBindRequired
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errPortRange
	}

	if c.Server.Database == "" {
		return errDatabaseRequired
	}

	if c.Watchdog.Timeout <= 0 {
		return errTimeoutPositive
	}

	if c.Watchdog.PollInterval <= 0 {
		return errIntervalPositive
	}

	return nil
}
