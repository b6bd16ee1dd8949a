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

package nats

import (
	"time"

	"github.com/ownport/goactors/internal/codec"
)

// Option configures a nats mailbox.
type Option interface {
	// Apply sets the Option value of a mailbox.
	Apply(*Mailbox)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Mailbox)

// Apply applies the option
func (f OptionFunc) Apply(m *Mailbox) {
	f(m)
}

// WithFetchWait bounds how long Get waits on the broker before reporting an empty mailbox.
func WithFetchWait(wait time.Duration) Option {
	return OptionFunc(func(m *Mailbox) {
		m.fetchWait = wait
	})
}

// WithDurable sets the durable consumer name shared by every reader of the queue.
func WithDurable(durable string) Option {
	return OptionFunc(func(m *Mailbox) {
		m.durable = durable
	})
}

// WithCodec sets the message codec
func WithCodec(c codec.Codec) Option {
	return OptionFunc(func(m *Mailbox) {
		m.codec = c
	})
}

// WithConnectTimeout sets the dial timeout
func WithConnectTimeout(timeout time.Duration) Option {
	return OptionFunc(func(m *Mailbox) {
		m.connectTimeout = timeout
	})
}

// WithConnectRetries sets how many times connecting is attempted before giving up.
func WithConnectRetries(retries int, delay time.Duration) Option {
	return OptionFunc(func(m *Mailbox) {
		m.connectRetries = retries
		m.connectDelay = delay
	})
}
