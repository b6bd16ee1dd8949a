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

package bolt

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	bbolt "go.etcd.io/bbolt"
	"go.uber.org/atomic"

	gerrors "github.com/ownport/goactors/errors"
	"github.com/ownport/goactors/internal/codec"
	"github.com/ownport/goactors/mailbox"
	"github.com/ownport/goactors/message"
)

const (
	// Scheme is the locator scheme of bolt mailboxes
	Scheme = "bolt"

	boltFileMode      os.FileMode = 0o600
	defaultBucketName             = "inbox"
	defaultOpenTimeout            = 5 * time.Second
)

// Mailbox is a FIFO queue stored in a bbolt database file.
//
// bbolt holds an exclusive file lock while a database is open, so every
// operation opens the file, runs one transaction and closes it again. This
// lets several OS processes share the queue: an operation waits at most the
// open timeout for the lock and fails with gerrors.ErrMailboxConnection after.
type Mailbox struct {
	path          string
	bucket        []byte
	codec         codec.Codec
	openTimeout   time.Duration
	removeOnClose bool
	closed        *atomic.Bool
}

var (
	_ mailbox.Mailbox = (*Mailbox)(nil)
	_ mailbox.Locator = (*Mailbox)(nil)
)

// New opens (or creates) the queue stored at path
func New(path string, opts ...Option) (*Mailbox, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("bolt: resolving path: %w", err)
	}

	m := &Mailbox{
		path:        absPath,
		bucket:      []byte(defaultBucketName),
		codec:       codec.NewProto(),
		openTimeout: defaultOpenTimeout,
		closed:      atomic.NewBool(false),
	}
	for _, opt := range opts {
		opt.Apply(m)
	}

	if err := m.update(func(tx *bbolt.Tx) error {
		_, e := tx.CreateBucketIfNotExists(m.bucket)
		return e
	}); err != nil {
		return nil, err
	}
	return m, nil
}

// NewTemp creates a queue in a fresh file under the OS temp directory.
// The file is removed when the mailbox is closed.
func NewTemp(opts ...Option) (*Mailbox, error) {
	file, err := os.CreateTemp("", "goactors-inbox-*.db")
	if err != nil {
		return nil, fmt.Errorf("bolt: creating temp file: %w", err)
	}
	path := file.Name()
	_ = file.Close()
	// bbolt initializes a zero-length file in place
	return New(path, append(opts, WithRemoveOnClose())...)
}

// Open opens the queue described by a locator returned from Locate
func Open(locator string, opts ...Option) (*Mailbox, error) {
	u, err := url.Parse(locator)
	if err != nil {
		return nil, gerrors.NewErrInvalidLocator(locator, err.Error())
	}
	if u.Scheme != Scheme {
		return nil, gerrors.NewErrInvalidLocator(locator, "unexpected scheme")
	}
	if u.Path == "" {
		return nil, gerrors.NewErrInvalidLocator(locator, "missing path")
	}

	query := u.Query()
	c, err := codec.ByName(query.Get("codec"))
	if err != nil {
		return nil, gerrors.NewErrInvalidLocator(locator, err.Error())
	}

	options := []Option{WithCodec(c)}
	if bucket := query.Get("bucket"); bucket != "" {
		options = append(options, WithBucket(bucket))
	}
	return New(u.Path, append(options, opts...)...)
}

// Locate returns the locator of the queue
func (m *Mailbox) Locate() string {
	query := url.Values{}
	query.Set("bucket", string(m.bucket))
	query.Set("codec", m.codec.Name())
	u := url.URL{Scheme: Scheme, Path: m.path, RawQuery: query.Encode()}
	return u.String()
}

// Path returns the database file
func (m *Mailbox) Path() string {
	return m.path
}

// Get removes and returns the oldest message
func (m *Mailbox) Get(ctx context.Context) (message.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := m.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(m.bucket)
		if bucket == nil {
			return fmt.Errorf("bolt: bucket %q missing", m.bucket)
		}
		cursor := bucket.Cursor()
		key, value := cursor.First()
		if key == nil {
			return gerrors.ErrEmptyMailbox
		}
		data = append([]byte(nil), value...)
		return cursor.Delete()
	})
	if err != nil {
		return nil, err
	}
	return m.codec.Decode(data)
}

// Put appends a message
func (m *Mailbox) Put(ctx context.Context, msg message.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := m.codec.Encode(msg)
	if err != nil {
		return err
	}

	return m.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(m.bucket)
		if bucket == nil {
			return fmt.Errorf("bolt: bucket %q missing", m.bucket)
		}
		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		return bucket.Put(sequenceKey(seq), data)
	})
}

// Len returns the number of queued messages
func (m *Mailbox) Len(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var count int64
	err := m.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(m.bucket)
		if bucket == nil {
			return fmt.Errorf("bolt: bucket %q missing", m.bucket)
		}
		count = int64(bucket.Stats().KeyN)
		return nil
	})
	return count, err
}

// Close marks the mailbox closed and removes the file when requested
func (m *Mailbox) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	if m.removeOnClose {
		if err := os.Remove(m.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func (m *Mailbox) update(fn func(tx *bbolt.Tx) error) error {
	db, err := m.open()
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Update(fn)
}

func (m *Mailbox) view(fn func(tx *bbolt.Tx) error) error {
	db, err := m.open()
	if err != nil {
		return err
	}
	defer db.Close()
	return db.View(fn)
}

func (m *Mailbox) open() (*bbolt.DB, error) {
	if m.closed.Load() {
		return nil, gerrors.ErrMailboxClosed
	}
	db, err := bbolt.Open(m.path, boltFileMode, &bbolt.Options{
		Timeout:    m.openTimeout,
		NoGrowSync: true,
	})
	if err != nil {
		return nil, gerrors.NewErrMailboxConnection(err)
	}
	return db, nil
}

func sequenceKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
