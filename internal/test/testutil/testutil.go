// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package testutil holds channel and polling helpers shared by tests
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// DefaultTimeout bounds waits for asynchronous delivery in tests
const DefaultTimeout = time.Second

// WaitForCondition polls condition every 5ms until it holds or timeout
// expires
func WaitForCondition(
	t *testing.T,
	condition func() bool,
	timeout time.Duration,
	msg string,
) {
	t.Helper()
	require.Eventually(t, condition, timeout, 5*time.Millisecond, msg)
}

// RequireReceive returns the next value from ch, failing the test after
// timeout
func RequireReceive[T any](
	t *testing.T,
	ch <-chan T,
	timeout time.Duration,
	msg string,
) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for %s", msg)
	}
	var zero T
	return zero
}

// RequireNoReceive fails the test if anything arrives on ch within d
func RequireNoReceive[T any](
	t *testing.T,
	ch <-chan T,
	d time.Duration,
	msg string,
) {
	t.Helper()
	select {
	case v := <-ch:
		t.Fatalf("unexpected %s: %v", msg, v)
	case <-time.After(d):
	}
}

// RequireClosed fails the test unless ch is closed within timeout
func RequireClosed[T any](
	t *testing.T,
	ch <-chan T,
	timeout time.Duration,
) {
	t.Helper()
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("channel delivered a value instead of closing")
		}
	case <-time.After(timeout):
		t.Fatal("timed out waiting for channel close")
	}
}
