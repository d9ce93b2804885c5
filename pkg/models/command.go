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

// Command is a tagged message passed between the ingestion path, the
// watchdog scanner and the notifier. Consumers switch exhaustively on the
// concrete type; commands are never persisted.
type Command interface {
	isCommand()
}

// SeenCommand tells the watchdog a client reported in.
type SeenCommand struct {
	ClientID int64
}

// NotifyCommand carries one formatted message for the operator channel.
type NotifyCommand struct {
	Text string
}

// TerminateCommand asks a background worker to exit its loop.
type TerminateCommand struct{}

func (SeenCommand) isCommand()      {}
func (NotifyCommand) isCommand()    {}
func (TerminateCommand) isCommand() {}
