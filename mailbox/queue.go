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

package mailbox

import (
	"context"
	"errors"

	gods "github.com/Workiva/go-datastructures/queue"

	gerrors "github.com/ownport/goactors/errors"
	"github.com/ownport/goactors/message"
)

// Queue is an unbounded goroutine-safe mailbox.
//
// Characteristics
//   - Safe for multiple producers and a single consumer.
//   - FIFO ordering across all producers.
//   - Get is non-blocking: the length is checked before taking an item, which
//     is race free as long as only the owning actor consumes.
type Queue struct {
	underlying *gods.Queue
}

// enforce compilation error
var _ Mailbox = (*Queue)(nil)

// NewQueue creates an empty Queue
func NewQueue() *Queue {
	return &Queue{underlying: gods.New(minDequeLen)}
}

// Get removes and returns the next message
func (q *Queue) Get(context.Context) (message.Message, error) {
	if q.underlying.Disposed() {
		return nil, gerrors.ErrMailboxClosed
	}
	if q.underlying.Empty() {
		return nil, gerrors.ErrEmptyMailbox
	}
	items, err := q.underlying.Get(1)
	if err != nil {
		if errors.Is(err, gods.ErrDisposed) {
			return nil, gerrors.ErrMailboxClosed
		}
		return nil, err
	}
	if len(items) == 0 {
		return nil, gerrors.ErrEmptyMailbox
	}
	msg, _ := items[0].(message.Message)
	return msg, nil
}

// Put appends a message
func (q *Queue) Put(_ context.Context, msg message.Message) error {
	if err := q.underlying.Put(msg); err != nil {
		if errors.Is(err, gods.ErrDisposed) {
			return gerrors.ErrMailboxClosed
		}
		return err
	}
	return nil
}

// Len returns a snapshot of the queue depth
func (q *Queue) Len(context.Context) (int64, error) {
	return q.underlying.Len(), nil
}

// Close disposes the underlying queue. Queued messages are dropped.
func (q *Queue) Close() error {
	q.underlying.Dispose()
	return nil
}
