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

package testkit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ownport/goactors/actor"
	"github.com/ownport/goactors/message"
)

const (
	// MessagesQueueMax is the number of unread messages a Probe buffers.
	// Process fails the test once the buffer is full.
	MessagesQueueMax int = 1000
	// DefaultTimeout bounds ExpectMessage and ExpectAnyMessage.
	DefaultTimeout time.Duration = 3 * time.Second
)

// Probe is a behavior recording the messages it processes so that tests
// can assert on what reached an actor.
type Probe struct {
	t        testing.TB
	kind     string
	draining bool

	queue chan message.Message
	mu    sync.Mutex
	seen  []message.Message
}

var (
	_ actor.Behavior = (*Probe)(nil)
	_ actor.Kinded   = (*Probe)(nil)
	_ actor.Waiter   = (*Probe)(nil)
)

// ProbeOption configures a Probe.
type ProbeOption func(*Probe)

// WithKind sets the pipeline kind of the probe. Defaults to "Probe".
func WithKind(kind string) ProbeOption {
	return func(p *Probe) {
		p.kind = kind
	}
}

// WithDraining makes the probe actor stop once its mailbox is empty.
func WithDraining() ProbeOption {
	return func(p *Probe) {
		p.draining = true
	}
}

// NewProbe creates a Probe.
func NewProbe(t testing.TB, opts ...ProbeOption) *Probe {
	p := &Probe{
		t:     t,
		kind:  "Probe",
		queue: make(chan message.Message, MessagesQueueMax),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Kind returns the pipeline kind.
func (p *Probe) Kind() string {
	return p.kind
}

// ExpectMessages keeps the probe waiting unless it is draining.
func (p *Probe) ExpectMessages() bool {
	return !p.draining
}

// Process records the current message.
func (p *Probe) Process(ctx *actor.Context) error {
	msg := ctx.Message()
	if msg == nil {
		return nil
	}
	p.mu.Lock()
	p.seen = append(p.seen, msg)
	p.mu.Unlock()

	select {
	case p.queue <- msg:
	default:
		p.t.Errorf("probe %s queue is full", p.kind)
	}
	return nil
}

// Messages returns every message processed so far.
func (p *Probe) Messages() []message.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]message.Message(nil), p.seen...)
}

// Len returns the number of messages processed so far.
func (p *Probe) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.seen)
}

// ExpectMessage asserts that the next processed message equals want.
func (p *Probe) ExpectMessage(want message.Message) {
	p.t.Helper()
	p.ExpectMessageWithin(DefaultTimeout, want)
}

// ExpectMessageWithin asserts that the next message processed within
// duration equals want.
func (p *Probe) ExpectMessageWithin(duration time.Duration, want message.Message) {
	p.t.Helper()
	got := p.receive(duration)
	require.NotNil(p.t, got, "timeout (%v) while waiting for %v", duration, want)
	require.Equal(p.t, want, got)
}

// ExpectAnyMessage returns the next processed message.
func (p *Probe) ExpectAnyMessage() message.Message {
	p.t.Helper()
	got := p.receive(DefaultTimeout)
	require.NotNil(p.t, got, "timeout (%v) while waiting for a message", DefaultTimeout)
	return got
}

// ExpectNoMessage asserts that nothing is processed for a short while.
func (p *Probe) ExpectNoMessage() {
	p.t.Helper()
	got := p.receive(100 * time.Millisecond)
	require.Nil(p.t, got, "unexpected message %v", got)
}

func (p *Probe) receive(duration time.Duration) message.Message {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case msg := <-p.queue:
		return msg
	case <-timer.C:
		return nil
	}
}
