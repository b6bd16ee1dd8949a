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
	"time"

	"github.com/ownport/goactors/log"
	"github.com/ownport/goactors/mailbox"
	"github.com/ownport/goactors/telemetry"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of an actor.
	Apply(*Actor)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Actor)

// Apply applies the option.
func (f OptionFunc) Apply(a *Actor) {
	f(a)
}

// WithFamily sets the execution family. It cannot be changed afterwards.
func WithFamily(family Family) Option {
	return OptionFunc(func(a *Actor) {
		a.family = family
	})
}

// WithName sets the display name of the actor.
func WithName(name string) Option {
	return OptionFunc(func(a *Actor) {
		a.name = name
	})
}

// WithLogger sets the actor logger.
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(a *Actor) {
		a.logger = logger
	})
}

// WithMailbox replaces the family default inbox.
// os-process actors require a mailbox implementing mailbox.Locator.
func WithMailbox(inbox mailbox.Mailbox) Option {
	return OptionFunc(func(a *Actor) {
		a.inbox = inbox
	})
}

// WithAllowParent lets Send and Error forward to the parent by default.
func WithAllowParent() Option {
	return OptionFunc(func(a *Actor) {
		a.allowParent = true
	})
}

// WithIdleInterval sets how long a waiting actor sleeps between mailbox polls.
func WithIdleInterval(interval time.Duration) Option {
	return OptionFunc(func(a *Actor) {
		a.idleInterval = interval
	})
}

// WithTelemetry sets the telemetry used to record actor metrics.
func WithTelemetry(tel *telemetry.Telemetry) Option {
	return OptionFunc(func(a *Actor) {
		a.telemetry = tel
	})
}

// WithProcessEnv adds KEY=value entries to the environment of an os-process actor.
func WithProcessEnv(env ...string) Option {
	return OptionFunc(func(a *Actor) {
		a.processEnv = append(a.processEnv, env...)
	})
}
