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
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/nats-io/nats.go"
	"go.uber.org/atomic"

	gerrors "github.com/ownport/goactors/errors"
	"github.com/ownport/goactors/internal/codec"
	"github.com/ownport/goactors/mailbox"
	"github.com/ownport/goactors/message"
)

// Scheme is the locator scheme of nats mailboxes
const Scheme = "nats"

const (
	defaultFetchWait      = 50 * time.Millisecond
	defaultConnectTimeout = 2 * time.Second
)

// Mailbox is a FIFO queue on a NATS JetStream work-queue stream.
//
// Every reader binds the same durable pull consumer, so messages are
// delivered once across processes. Get fetches a single message with a
// bounded wait and acknowledges it before returning; Len reports the
// number of messages retained by the stream.
type Mailbox struct {
	url            string
	stream         string
	subject        string
	durable        string
	codec          codec.Codec
	fetchWait      time.Duration
	connectTimeout time.Duration
	connectRetries int
	connectDelay   time.Duration

	conn   *nats.Conn
	js     nats.JetStreamContext
	sub    *nats.Subscription
	closed *atomic.Bool
}

var (
	_ mailbox.Mailbox = (*Mailbox)(nil)
	_ mailbox.Locator = (*Mailbox)(nil)
)

// New connects to the server at serverURL and binds the queue stored in the
// given stream under the given subject. The stream and the durable consumer
// are created when missing.
func New(ctx context.Context, serverURL, stream, subject string, opts ...Option) (*Mailbox, error) {
	if stream == "" || subject == "" {
		return nil, errors.New("nats: stream and subject are required")
	}

	m := &Mailbox{
		url:            serverURL,
		stream:         stream,
		subject:        subject,
		durable:        stream + "-inbox",
		codec:          codec.NewProto(),
		fetchWait:      defaultFetchWait,
		connectTimeout: defaultConnectTimeout,
		connectRetries: 3,
		connectDelay:   100 * time.Millisecond,
		closed:         atomic.NewBool(false),
	}
	for _, opt := range opts {
		opt.Apply(m)
	}

	retrier := retry.NewRetrier(m.connectRetries, m.connectDelay, m.connectDelay)
	if err := retrier.RunContext(ctx, func(context.Context) error {
		conn, err := nats.Connect(m.url, nats.Timeout(m.connectTimeout), nats.Name(m.durable))
		if err != nil {
			return err
		}
		m.conn = conn
		return nil
	}); err != nil {
		return nil, gerrors.NewErrMailboxConnection(err)
	}

	if err := m.bind(); err != nil {
		m.conn.Close()
		return nil, err
	}
	return m, nil
}

// Open connects to the queue described by a locator returned from Locate
func Open(ctx context.Context, locator string, opts ...Option) (*Mailbox, error) {
	u, err := url.Parse(locator)
	if err != nil {
		return nil, gerrors.NewErrInvalidLocator(locator, err.Error())
	}
	if u.Scheme != Scheme || u.Host == "" {
		return nil, gerrors.NewErrInvalidLocator(locator, "unexpected scheme or host")
	}

	query := u.Query()
	stream, subject := query.Get("stream"), query.Get("subject")
	if stream == "" || subject == "" {
		return nil, gerrors.NewErrInvalidLocator(locator, "missing stream or subject")
	}

	c, err := codec.ByName(query.Get("codec"))
	if err != nil {
		return nil, gerrors.NewErrInvalidLocator(locator, err.Error())
	}
	options := []Option{WithCodec(c)}

	if durable := query.Get("durable"); durable != "" {
		options = append(options, WithDurable(durable))
	}
	if raw := query.Get("wait"); raw != "" {
		wait, err := time.ParseDuration(raw)
		if err != nil {
			return nil, gerrors.NewErrInvalidLocator(locator, err.Error())
		}
		options = append(options, WithFetchWait(wait))
	}

	serverURL := url.URL{Scheme: Scheme, Host: u.Host, User: u.User}
	return New(ctx, serverURL.String(), stream, subject, append(options, opts...)...)
}

// Locate returns the locator of the queue
func (m *Mailbox) Locate() string {
	server, err := url.Parse(m.url)
	if err != nil || server.Host == "" {
		server = &url.URL{Host: m.url}
	}
	query := url.Values{}
	query.Set("stream", m.stream)
	query.Set("subject", m.subject)
	query.Set("durable", m.durable)
	query.Set("codec", m.codec.Name())
	query.Set("wait", m.fetchWait.String())
	u := url.URL{Scheme: Scheme, Host: server.Host, User: server.User, RawQuery: query.Encode()}
	return u.String()
}

// Get fetches and acknowledges the oldest message
func (m *Mailbox) Get(ctx context.Context) (message.Message, error) {
	if m.closed.Load() {
		return nil, gerrors.ErrMailboxClosed
	}

	fetchCtx, cancel := context.WithTimeout(ctx, m.fetchWait)
	defer cancel()

	msgs, err := m.sub.Fetch(1, nats.Context(fetchCtx))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, nats.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
			return nil, gerrors.ErrEmptyMailbox
		}
		return nil, gerrors.NewErrMailboxConnection(err)
	}
	if len(msgs) == 0 {
		return nil, gerrors.ErrEmptyMailbox
	}

	msg := msgs[0]
	if err := msg.AckSync(nats.Context(ctx)); err != nil {
		return nil, gerrors.NewErrMailboxConnection(err)
	}
	return m.codec.Decode(msg.Data)
}

// Put publishes a message on the queue subject
func (m *Mailbox) Put(ctx context.Context, msg message.Message) error {
	if m.closed.Load() {
		return gerrors.ErrMailboxClosed
	}

	data, err := m.codec.Encode(msg)
	if err != nil {
		return err
	}
	if _, err := m.js.Publish(m.subject, data, nats.Context(ctx)); err != nil {
		return gerrors.NewErrMailboxConnection(err)
	}
	return nil
}

// Len returns the number of messages retained by the stream
func (m *Mailbox) Len(ctx context.Context) (int64, error) {
	if m.closed.Load() {
		return 0, gerrors.ErrMailboxClosed
	}
	info, err := m.js.StreamInfo(m.stream, nats.Context(ctx))
	if err != nil {
		return 0, gerrors.NewErrMailboxConnection(err)
	}
	return int64(info.State.Msgs), nil
}

// Close closes the connection. The stream and the durable consumer are kept
// so that other processes bound to the queue are unaffected.
func (m *Mailbox) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	m.conn.Close()
	return nil
}

func (m *Mailbox) bind() error {
	js, err := m.conn.JetStream()
	if err != nil {
		return gerrors.NewErrMailboxConnection(err)
	}

	if _, err := js.StreamInfo(m.stream); err != nil {
		if !errors.Is(err, nats.ErrStreamNotFound) {
			return gerrors.NewErrMailboxConnection(err)
		}
		_, err = js.AddStream(&nats.StreamConfig{
			Name:      m.stream,
			Subjects:  []string{m.subject},
			Retention: nats.WorkQueuePolicy,
			Storage:   nats.FileStorage,
		})
		if err != nil && !errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
			return fmt.Errorf("nats: creating stream %s: %w", m.stream, err)
		}
	}

	if _, err := js.ConsumerInfo(m.stream, m.durable); err != nil {
		if !errors.Is(err, nats.ErrConsumerNotFound) {
			return gerrors.NewErrMailboxConnection(err)
		}
		_, err = js.AddConsumer(m.stream, &nats.ConsumerConfig{
			Durable:       m.durable,
			AckPolicy:     nats.AckExplicitPolicy,
			FilterSubject: m.subject,
		})
		if err != nil && !errors.Is(err, nats.ErrConsumerNameAlreadyInUse) {
			return fmt.Errorf("nats: creating consumer %s: %w", m.durable, err)
		}
	}

	sub, err := js.PullSubscribe(m.subject, m.durable, nats.Bind(m.stream, m.durable))
	if err != nil {
		return fmt.Errorf("nats: binding consumer %s: %w", m.durable, err)
	}

	m.js = js
	m.sub = sub
	return nil
}
