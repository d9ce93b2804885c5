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
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probelane/probeserver/pkg/logger"
	"github.com/probelane/probeserver/pkg/metrics"
)

var errTransportDown = errors.New("transport down")

type fakeTransport struct {
	mu       sync.Mutex
	sent     []string
	operator int64
	failAll  bool
}

func (f *fakeTransport) Send(_ context.Context, operator int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failAll {
		return errTransportDown
	}

	f.operator = operator
	f.sent = append(f.sent, text)

	return nil
}

func (f *fakeTransport) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.sent...)
}

func TestNotifierDeliversInOrder(t *testing.T) {
	transport := &fakeTransport{}
	notifier := New(transport, 10086, logger.NewTestLogger(), metrics.New())

	go notifier.Run(context.Background())

	require.True(t, notifier.Notify("first"))
	require.True(t, notifier.Notify("second"))
	require.True(t, notifier.Notify("third"))

	notifier.Terminate()

	assert.Equal(t, []string{"first", "second", "third"}, transport.messages())
	assert.Equal(t, int64(10086), transport.operator)
}

func TestNotifierContinuesAfterTransportError(t *testing.T) {
	transport := &fakeTransport{failAll: true}
	notifier := New(transport, 1, logger.NewTestLogger(), metrics.New())

	go notifier.Run(context.Background())

	require.True(t, notifier.Notify("lost"))

	transport.mu.Lock()
	transport.failAll = false
	transport.mu.Unlock()

	require.True(t, notifier.Notify("delivered"))

	notifier.Terminate()

	assert.Equal(t, []string{"delivered"}, transport.messages())
}

func TestNotifierDropsWhenQueueFull(t *testing.T) {
	transport := &fakeTransport{}
	notifier := New(transport, 1, logger.NewTestLogger(), metrics.New())

	// Run is intentionally not started: fill the buffer.
	for i := 0; i < defaultQueueSize; i++ {
		require.True(t, notifier.Notify("queued"))
	}

	assert.False(t, notifier.Notify("overflow"))
}

func TestNotifierTerminateDrainsQueueFirst(t *testing.T) {
	transport := &fakeTransport{}
	notifier := New(transport, 1, logger.NewTestLogger(), metrics.New())

	require.True(t, notifier.Notify("before shutdown"))

	go notifier.Run(context.Background())
	notifier.Terminate()

	assert.Equal(t, []string{"before shutdown"}, transport.messages())
}
