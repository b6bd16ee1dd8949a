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

package redis

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/flowchartsman/retry"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/atomic"

	gerrors "github.com/ownport/goactors/errors"
	"github.com/ownport/goactors/internal/codec"
	"github.com/ownport/goactors/mailbox"
	"github.com/ownport/goactors/message"
)

// Scheme is the locator scheme of redis mailboxes
const Scheme = "redis"

// Mailbox is a FIFO queue stored in a redis list.
// Put is LPUSH, Get is RPOP (or BRPOP when a block timeout is set), Len is LLEN.
type Mailbox struct {
	client         *goredis.Client
	queue          string
	codec          codec.Codec
	blockTimeout   time.Duration
	notifyChannel  string
	connectRetries int
	connectDelay   time.Duration
	closed         *atomic.Bool
}

var (
	_ mailbox.Mailbox = (*Mailbox)(nil)
	_ mailbox.Locator = (*Mailbox)(nil)
)

// New connects to redis and returns a mailbox backed by the given list key.
// The connection is verified with PING, retried a bounded number of times.
func New(ctx context.Context, options *goredis.Options, queue string, opts ...Option) (*Mailbox, error) {
	if queue == "" {
		return nil, errors.New("redis: queue name is required")
	}

	m := &Mailbox{
		client:         goredis.NewClient(options),
		queue:          queue,
		codec:          codec.NewProto(),
		connectRetries: 3,
		connectDelay:   100 * time.Millisecond,
		closed:         atomic.NewBool(false),
	}
	for _, opt := range opts {
		opt.Apply(m)
	}

	retrier := retry.NewRetrier(m.connectRetries, m.connectDelay, m.connectDelay)
	if err := retrier.RunContext(ctx, func(ctx context.Context) error {
		return m.client.Ping(ctx).Err()
	}); err != nil {
		_ = m.client.Close()
		return nil, gerrors.NewErrMailboxConnection(err)
	}
	return m, nil
}

// Open connects to the queue described by a locator returned from Locate
func Open(ctx context.Context, locator string, opts ...Option) (*Mailbox, error) {
	u, err := url.Parse(locator)
	if err != nil {
		return nil, gerrors.NewErrInvalidLocator(locator, err.Error())
	}
	if u.Scheme != Scheme {
		return nil, gerrors.NewErrInvalidLocator(locator, "unexpected scheme")
	}

	query := u.Query()
	queue := query.Get("queue")
	if queue == "" {
		return nil, gerrors.NewErrInvalidLocator(locator, "missing queue")
	}

	c, err := codec.ByName(query.Get("codec"))
	if err != nil {
		return nil, gerrors.NewErrInvalidLocator(locator, err.Error())
	}
	options := []Option{WithCodec(c)}

	if raw := query.Get("block"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, gerrors.NewErrInvalidLocator(locator, err.Error())
		}
		options = append(options, WithBlockTimeout(timeout))
	}
	if channel := query.Get("notify"); channel != "" {
		options = append(options, WithNotifyChannel(channel))
	}

	for _, key := range []string{"queue", "codec", "block", "notify"} {
		query.Del(key)
	}
	u.RawQuery = query.Encode()

	redisOptions, err := goredis.ParseURL(u.String())
	if err != nil {
		return nil, gerrors.NewErrInvalidLocator(locator, err.Error())
	}
	return New(ctx, redisOptions, queue, append(options, opts...)...)
}

// Locate returns the locator of the queue
func (m *Mailbox) Locate() string {
	options := m.client.Options()
	query := url.Values{}
	query.Set("queue", m.queue)
	query.Set("codec", m.codec.Name())
	if m.blockTimeout > 0 {
		query.Set("block", m.blockTimeout.String())
	}
	if m.notifyChannel != "" {
		query.Set("notify", m.notifyChannel)
	}

	u := url.URL{
		Scheme:   Scheme,
		Host:     options.Addr,
		Path:     "/" + strconv.Itoa(options.DB),
		RawQuery: query.Encode(),
	}
	if options.Password != "" {
		u.User = url.UserPassword(options.Username, options.Password)
	}
	return u.String()
}

// Queue returns the redis list key
func (m *Mailbox) Queue() string {
	return m.queue
}

// Get pops the oldest message
func (m *Mailbox) Get(ctx context.Context) (message.Message, error) {
	if m.closed.Load() {
		return nil, gerrors.ErrMailboxClosed
	}

	var (
		data []byte
		err  error
	)
	if m.blockTimeout > 0 {
		var values []string
		values, err = m.client.BRPop(ctx, m.blockTimeout, m.queue).Result()
		if err == nil && len(values) == 2 {
			data = []byte(values[1])
		}
	} else {
		data, err = m.client.RPop(ctx, m.queue).Bytes()
	}

	switch {
	case errors.Is(err, goredis.Nil):
		return nil, gerrors.ErrEmptyMailbox
	case err != nil:
		return nil, gerrors.NewErrMailboxConnection(err)
	case data == nil:
		return nil, gerrors.ErrEmptyMailbox
	}
	return m.codec.Decode(data)
}

// Put pushes a message and optionally notifies subscribers
func (m *Mailbox) Put(ctx context.Context, msg message.Message) error {
	if m.closed.Load() {
		return gerrors.ErrMailboxClosed
	}

	data, err := m.codec.Encode(msg)
	if err != nil {
		return err
	}

	if _, err := m.client.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.LPush(ctx, m.queue, data)
		if m.notifyChannel != "" {
			pipe.Publish(ctx, m.notifyChannel, m.queue)
		}
		return nil
	}); err != nil {
		return gerrors.NewErrMailboxConnection(err)
	}
	return nil
}

// Len returns the length of the list
func (m *Mailbox) Len(ctx context.Context) (int64, error) {
	if m.closed.Load() {
		return 0, gerrors.ErrMailboxClosed
	}
	size, err := m.client.LLen(ctx, m.queue).Result()
	if err != nil {
		return 0, gerrors.NewErrMailboxConnection(err)
	}
	return size, nil
}

// Close releases the redis connection pool. Queued messages stay in redis.
func (m *Mailbox) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := m.client.Close(); err != nil {
		return fmt.Errorf("redis: closing client: %w", err)
	}
	return nil
}
