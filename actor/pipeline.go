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
	"fmt"
	"slices"

	"go.uber.org/multierr"

	gerrors "github.com/ownport/goactors/errors"
	"github.com/ownport/goactors/log"
	"github.com/ownport/goactors/message"
)

// Context is handed to behavior hooks during a message cycle.
type Context struct {
	ctx  context.Context
	self *Actor
}

// Context returns the context of the execution unit.
func (c *Context) Context() context.Context {
	return c.ctx
}

// Self returns the actor running the cycle.
func (c *Context) Self() *Actor {
	return c.self
}

// Message returns the message of the current cycle.
func (c *Context) Message() message.Message {
	return c.self.current
}

// Steps returns the pending pipeline hops.
func (c *Context) Steps() []string {
	return append([]string(nil), c.self.steps...)
}

// SetSteps replaces the pending pipeline hops.
func (c *Context) SetSteps(steps ...string) {
	c.self.steps = append([]string(nil), steps...)
}

// Logger returns the actor logger.
func (c *Context) Logger() log.Logger {
	return c.self.logger
}

// SendOption configures Send and Error.
type SendOption func(*sendConfig)

type sendConfig struct {
	overwrite   bool
	allowParent bool
	fields      message.Message
}

// Overwrite sends the given fields alone instead of merging them into the
// current message.
func Overwrite() SendOption {
	return func(c *sendConfig) {
		c.overwrite = true
	}
}

// AllowParent permits forwarding to the parent.
func AllowParent() SendOption {
	return func(c *sendConfig) {
		c.allowParent = true
	}
}

// WithField adds a field to the failure reported by Error.
func WithField(key string, value any) SendOption {
	return func(c *sendConfig) {
		if c.fields == nil {
			c.fields = message.Message{}
		}
		c.fields[key] = value
	}
}

func newSendConfig(opts []SendOption) *sendConfig {
	cfg := new(sendConfig)
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Send routes fields down the pipeline.
//
// With pending steps the next kind is popped and a copy of the payload,
// carrying the remaining steps, is delivered to every actor of that kind
// visible from the sender; targets that never ran are started. When no
// target exists the failure is reported through Error. Without steps the
// payload goes to the parent when forwarding is allowed, and is dropped
// otherwise. The actor idles afterwards.
func (c *Context) Send(fields message.Message, opts ...SendOption) error {
	a := c.self
	cfg := newSendConfig(opts)
	defer func() {
		if a.processing.Load() {
			a.idle(c.ctx)
		}
	}()

	data := fields.Clone()
	if a.current != nil && !cfg.overwrite {
		data = a.current.Merge(fields)
	}

	if len(a.steps) > 0 {
		next := a.steps[0]
		data[message.StepsKey] = slices.Clone(a.steps[1:])

		targets := a.Find(ByKind(next))
		if len(targets) == 0 {
			var correlation []SendOption
			for _, key := range []string{message.SessionIDKey, message.MessageIDKey} {
				if value, ok := data[key]; ok {
					correlation = append(correlation, WithField(key, value))
				}
			}
			err := gerrors.NewErrTargetNotFound(next)
			return multierr.Append(err, c.Error(err.Error(), correlation...))
		}

		var errs error
		for _, target := range targets {
			if a.logger.Enabled(log.DebugLevel) {
				a.logger.With("keys", data.Keys(), "to", target.String()).Debug("send message")
			}
			if err := target.Tell(c.ctx, data.Clone()); err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			if target.started.Load() {
				continue
			}
			if err := target.Start(c.ctx); err != nil && !errors.Is(err, gerrors.ErrAlreadyStarted) {
				errs = multierr.Append(errs, err)
			}
		}
		return errs
	}

	if inbox := a.parentInbox(); inbox != nil && (cfg.allowParent || a.allowParent) {
		return inbox.Put(c.ctx, data)
	}

	if a.logger.Enabled(log.DebugLevel) {
		a.logger.With("keys", data.Keys()).Debug("end of pipeline")
	}
	return nil
}

// Error logs reason and, when forwarding is allowed, reports
// {result: false, error: reason} to the parent together with the ssid and
// mid of the current message and any WithField extras. The actor is
// stopped in every case.
func (c *Context) Error(reason string, opts ...SendOption) error {
	a := c.self
	cfg := newSendConfig(opts)
	a.logger.Errorf("got error: %s", reason)
	a.telemetry.Metrics().RecordFailure(c.ctx, a.kind)
	defer a.Stop()

	if !cfg.allowParent && !a.allowParent {
		return nil
	}
	inbox := a.parentInbox()
	if inbox == nil {
		return nil
	}

	out := message.Message{
		message.ResultKey: false,
		message.ErrorKey:  reason,
	}
	for _, key := range []string{message.SessionIDKey, message.MessageIDKey} {
		if value, ok := a.current[key]; ok && value != nil && value != "" {
			out[key] = value
		}
	}
	for key, value := range cfg.fields {
		out[key] = value
	}
	if err := inbox.Put(c.ctx, out); err != nil {
		return fmt.Errorf("reporting error to parent: %w", err)
	}
	return nil
}

// cycle runs one receive, validate, process, end pass and reports whether
// the processing loop has finished.
func (a *Actor) cycle(ctx context.Context) (bool, error) {
	if !a.processing.Load() || a.behavior == nil {
		return true, nil
	}

	msg, err := a.inbox.Get(ctx)
	switch {
	case err == nil:
		a.waiting.Store(false)
		a.current = msg
	case errors.Is(err, gerrors.ErrEmptyMailbox):
		if a.expectMessages() {
			a.idle(ctx)
			return a.end(ctx, true)
		}
	default:
		return false, err
	}

	if err := a.handle(&Context{ctx: ctx, self: a}); err != nil {
		return false, err
	}
	return a.end(ctx, false)
}

func (a *Actor) handle(pctx *Context) error {
	if a.current != nil {
		if a.logger.Enabled(log.DebugLevel) {
			size, _ := a.inbox.Len(pctx.ctx)
			a.logger.With("keys", a.current.Keys(), "inbox", size).Debug("message received")
		}
		if steps := a.current.Steps(); len(steps) > 0 {
			a.steps = steps
		}
	}

	if receiver, ok := a.behavior.(Receiver); ok {
		if err := receiver.AfterReceive(pctx); err != nil {
			return err
		}
	}

	valid := true
	if validator, ok := a.behavior.(Validator); ok {
		var err error
		if valid, err = validator.Validate(pctx); err != nil {
			return err
		}
	}
	if !valid {
		return nil
	}

	if err := a.behavior.Process(pctx); err != nil {
		return err
	}
	if a.current != nil {
		a.telemetry.Metrics().RecordProcessed(pctx.ctx, a.kind)
	}
	return nil
}

// end clears the cycle state, then idles while there is or may be work,
// and stops the actor otherwise.
func (a *Actor) end(ctx context.Context, idled bool) (bool, error) {
	a.steps = nil
	a.current = nil

	if !a.processing.Load() {
		return true, nil
	}

	size, err := a.inbox.Len(ctx)
	if err != nil {
		return false, err
	}
	if size > 0 || a.expectMessages() {
		if !idled {
			a.idle(ctx)
		}
		return false, nil
	}

	a.Stop()
	return true, nil
}

func (a *Actor) expectMessages() bool {
	if waiter, ok := a.behavior.(Waiter); ok {
		return waiter.ExpectMessages()
	}
	return true
}
