/*
 * MIT License
 *
 * Copyright (c) 2022-2025 Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package testkit helps testing behaviors and actor trees.
package testkit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ownport/goactors/actor"
	"github.com/ownport/goactors/log"
)

// NewActor creates an actor with a discarding logger and a short idle
// interval, and shuts its subtree down when the test ends.
func NewActor(t testing.TB, behavior actor.Behavior, opts ...actor.Option) *actor.Actor {
	t.Helper()
	opts = append([]actor.Option{
		actor.WithLogger(log.DiscardLogger),
		actor.WithIdleInterval(time.Millisecond),
	}, opts...)

	a, err := actor.New(behavior, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		if a.Parent() != nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = a.Shutdown(ctx)
	})
	return a
}

// WaitFor fails the test when condition does not hold within timeout.
func WaitFor(t testing.TB, condition func() bool, timeout time.Duration) {
	t.Helper()
	require.Eventually(t, condition, timeout, time.Millisecond)
}
