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

package models

const (
	// ActionRegister establishes or refreshes a client identity.
	ActionRegister = "register"
	// ActionHeartbeat is the periodic liveness ping.
	ActionHeartbeat = "heartbeat"
)

// Request is one ingestion event as delivered by the HTTP layer.
type Request struct {
	Version string `json:"version"`
	Action  string `json:"action"`
	UUID    string `json:"uuid"`
	Body    string `json:"body,omitempty"`
}

// ClientInfo is the optional inner body of a register request. A body that
// fails to parse as ClientInfo is treated as absent metadata, never as an
// error.
type ClientInfo struct {
	Hostname string `json:"hostname"`
	BootTime int64  `json:"boot_time"`
}

// Response is the result envelope returned for every ingestion event.
type Response struct {
	Status    int64  `json:"status"`
	ErrorCode int64  `json:"error_code"`
	Message   string `json:"message,omitempty"`
}

// ResultCode classifies the outcome of one ingestion event.
type ResultCode int64

const (
	ResultOK ResultCode = iota
	ResultNotRegistered
	ResultVersionMismatch
	ResultUnsupportedMethod
)

// Message returns the fixed human-readable text for a result code.
func (c ResultCode) Message() string {
	switch c {
	case ResultOK:
		return ""
	case ResultNotRegistered:
		return "Not registered client"
	case ResultVersionMismatch:
		return "Client version smaller than requested version"
	case ResultUnsupportedMethod:
		return "Request method not supported"
	default:
		return "Unknown error"
	}
}

// Response maps a result code onto the wire envelope.
func (c ResultCode) Response() *Response {
	if c == ResultOK {
		return &Response{Status: 200}
	}

	return &Response{
		Status:    400,
		ErrorCode: int64(c),
		Message:   c.Message(),
	}
}

// ClientList is the admin listing envelope.
type ClientList struct {
	Result []Client `json:"result"`
}
