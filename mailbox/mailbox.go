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

	"github.com/ownport/goactors/message"
)

// Mailbox defines the contract for an actor's inbound message queue.
//
// Ordering
//   - Messages are returned in FIFO order.
//
// Non-blocking behavior
//   - Get never waits for a message. It returns gerrors.ErrEmptyMailbox
//     when nothing is available. Network-backed implementations may perform
//     a bounded blocking pop internally.
//   - Put enqueues without blocking the caller's logical step.
//
// Failures
//   - In-process implementations only fail with gerrors.ErrMailboxClosed.
//   - Network-backed implementations wrap backend failures with
//     gerrors.ErrMailboxConnection. They are never retried internally.
type Mailbox interface {
	// Get removes and returns the next message.
	Get(ctx context.Context) (message.Message, error)
	// Put appends a message.
	Put(ctx context.Context, msg message.Message) error
	// Len returns the current queue depth.
	Len(ctx context.Context) (int64, error)
	// Close releases the resources held by the mailbox.
	Close() error
}

// Locator is implemented by mailboxes reachable from another OS process.
// Locate returns a URL another process can use to open the same queue.
type Locator interface {
	Locate() string
}
