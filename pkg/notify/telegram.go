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

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultAPIServer   = "https://api.telegram.org"
	defaultSendTimeout = 10 * time.Second
)

// TelegramTransport sends messages through the Telegram bot API. The
// operator id is the chat id.
type TelegramTransport struct {
	client    *http.Client
	apiServer string
	botToken  string
}

// NewTelegramTransport creates a transport for the given bot. An empty
// apiServer uses the public Telegram endpoint.
func NewTelegramTransport(botToken, apiServer string) *TelegramTransport {
	if apiServer == "" {
		apiServer = defaultAPIServer
	}

	return &TelegramTransport{
		client:    &http.Client{Timeout: defaultSendTimeout},
		apiServer: strings.TrimRight(apiServer, "/"),
		botToken:  botToken,
	}
}

type sendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

// Send implements Transport via the bot API sendMessage method.
func (t *TelegramTransport) Send(ctx context.Context, operator int64, text string) error {
	payload, err := json.Marshal(sendMessageRequest{ChatID: operator, Text: text})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiServer, t.botToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach telegram api: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return fmt.Errorf("telegram api returned %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
