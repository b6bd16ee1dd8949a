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

package actor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/goleak"

	"github.com/ownport/goactors/log"
	"github.com/ownport/goactors/message"
)

func TestMain(m *testing.M) {
	RegisterBehavior(func() Behavior { return new(echo) })
	ServeProcess()
	goleak.VerifyTestMain(m)
}

// recorder records every processed message
type recorder struct {
	kind    string
	stopped bool
	mu      sync.Mutex
	seen    []message.Message
	calls   *atomic.Int64
}

var (
	_ Behavior = (*recorder)(nil)
	_ Kinded   = (*recorder)(nil)
	_ Waiter   = (*recorder)(nil)
)

func newRecorder(kind string) *recorder {
	return &recorder{kind: kind, calls: atomic.NewInt64(0)}
}

// newDrainingRecorder stops once its mailbox is empty
func newDrainingRecorder() *recorder {
	rec := newRecorder("")
	rec.stopped = true
	return rec
}

func (r *recorder) Kind() string {
	if r.kind == "" {
		return "recorder"
	}
	return r.kind
}

func (r *recorder) ExpectMessages() bool {
	return !r.stopped
}

func (r *recorder) Process(ctx *Context) error {
	r.calls.Inc()
	if msg := ctx.Message(); msg != nil {
		r.mu.Lock()
		r.seen = append(r.seen, msg)
		r.mu.Unlock()
	}
	return nil
}

func (r *recorder) messages() []message.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]message.Message(nil), r.seen...)
}

// handler runs a function for every processed message
type handler struct {
	kind string
	fn   func(ctx *Context) error
}

func (h *handler) Kind() string {
	return h.kind
}

func (h *handler) Process(ctx *Context) error {
	if ctx.Message() == nil {
		return nil
	}
	return h.fn(ctx)
}

// echo answers every message to its parent, across processes
type echo struct{}

func (echo) Process(ctx *Context) error {
	if ctx.Message() == nil {
		return nil
	}
	return ctx.Send(message.Message{"pong": true})
}

// rejecting filters out every message
type rejecting struct {
	*recorder
}

func (r *rejecting) Validate(*Context) (bool, error) {
	return false, nil
}

// hooked fails in AfterReceive
type hooked struct {
	*recorder
}

func (h *hooked) AfterReceive(*Context) error {
	return errors.New("receive hook failed")
}

func newActor(t *testing.T, behavior Behavior, opts ...Option) *Actor {
	t.Helper()
	opts = append([]Option{WithLogger(log.DiscardLogger), WithIdleInterval(time.Millisecond)}, opts...)
	a, err := New(behavior, opts...)
	require.NoError(t, err)
	return a
}

func shutdown(t *testing.T, a *Actor) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = a.Shutdown(ctx)
}

func drain(t *testing.T, a *Actor) []message.Message {
	t.Helper()
	ctx := context.Background()
	var out []message.Message
	for {
		msg, err := a.Inbox().Get(ctx)
		if err != nil {
			return out
		}
		out = append(out, msg)
	}
}
