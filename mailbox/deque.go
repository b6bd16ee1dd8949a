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

	gerrors "github.com/ownport/goactors/errors"
	"github.com/ownport/goactors/message"
)

// minDequeLen is the smallest capacity of the ring.
// Must be power of 2 for bitwise modulus: x % n == x & (n - 1).
const minDequeLen = 16

// Deque is an unsynchronized ring-buffer mailbox.
//
// It is meant for cooperative-step actors whose owner, producers and
// driver all run on a single goroutine. It MUST NOT be shared between
// goroutines; use Queue for that.
type Deque struct {
	nodes  []message.Message
	head   int
	tail   int
	count  int
	closed bool
}

// enforce compilation error
var _ Mailbox = (*Deque)(nil)

// NewDeque creates an empty Deque
func NewDeque() *Deque {
	return &Deque{nodes: make([]message.Message, minDequeLen)}
}

// Get removes the message at the front of the deque
func (d *Deque) Get(context.Context) (message.Message, error) {
	if d.closed {
		return nil, gerrors.ErrMailboxClosed
	}
	if d.count == 0 {
		return nil, gerrors.ErrEmptyMailbox
	}
	msg := d.nodes[d.head]
	d.nodes[d.head] = nil
	// bitwise modulus
	d.head = (d.head + 1) & (len(d.nodes) - 1)
	d.count--
	// resize down if buffer 1/4 full.
	if len(d.nodes) > minDequeLen && (d.count<<2) == len(d.nodes) {
		d.resize()
	}
	return msg, nil
}

// Put appends a message at the back of the deque
func (d *Deque) Put(_ context.Context, msg message.Message) error {
	if d.closed {
		return gerrors.ErrMailboxClosed
	}
	if d.count == len(d.nodes) {
		d.resize()
	}
	d.nodes[d.tail] = msg
	d.tail = (d.tail + 1) & (len(d.nodes) - 1)
	d.count++
	return nil
}

// Len returns the number of queued messages
func (d *Deque) Len(context.Context) (int64, error) {
	return int64(d.count), nil
}

// Close discards the queued messages
func (d *Deque) Close() error {
	d.closed = true
	d.nodes = nil
	d.count = 0
	return nil
}

func (d *Deque) resize() {
	size := d.count << 1
	if size < minDequeLen {
		size = minDequeLen
	}
	nodes := make([]message.Message, size)
	if d.tail > d.head {
		copy(nodes, d.nodes[d.head:d.tail])
	} else if d.count > 0 {
		n := copy(nodes, d.nodes[d.head:])
		copy(nodes[n:], d.nodes[:d.tail])
	}
	d.tail = d.count & (size - 1)
	d.head = 0
	d.nodes = nodes
}
