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

//go:build unix

package actor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/ownport/goactors/errors"
	"github.com/ownport/goactors/mailbox/bolt"
	"github.com/ownport/goactors/message"
)

func TestProcessFamily(t *testing.T) {
	ctx := context.Background()
	t.Run("With messages answered from a child process", func(t *testing.T) {
		inbox, err := bolt.NewTemp()
		require.NoError(t, err)
		root := newActor(t, nil, WithFamily(CooperativeStep), WithMailbox(inbox))
		child := newActor(t, new(echo), WithFamily(OSProcess), WithAllowParent())
		require.NoError(t, root.AddChild(child))
		assert.IsType(t, &bolt.Mailbox{}, child.Inbox())

		require.NoError(t, child.Tell(ctx, message.Message{message.SessionIDKey: "s1"}))
		require.NoError(t, root.Start(ctx))
		assert.True(t, child.Processing())

		require.Eventually(t, func() bool {
			size, err := root.Inbox().Len(ctx)
			return err == nil && size == 1
		}, 30*time.Second, 10*time.Millisecond)

		reply, err := root.Inbox().Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, true, reply["pong"])
		assert.Equal(t, "s1", reply[message.SessionIDKey])

		// the child observes the shared flag and exits
		shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		require.NoError(t, root.Shutdown(shutdownCtx))
		assert.False(t, child.Processing())
	})
	t.Run("With unregistered behavior", func(t *testing.T) {
		a := newActor(t, newRecorder("unregistered"), WithFamily(OSProcess))
		require.ErrorIs(t, a.Start(ctx), gerrors.ErrBehaviorNotRegistered)
		assert.False(t, a.Processing())
		require.NoError(t, a.Shutdown(ctx))
	})
	t.Run("With children refused", func(t *testing.T) {
		a := newActor(t, new(echo), WithFamily(OSProcess))
		require.ErrorIs(t, a.AddChild(newActor(t, nil)), gerrors.ErrProcessSupervisor)
		require.NoError(t, a.Shutdown(ctx))
	})
	t.Run("With process actor without behavior", func(t *testing.T) {
		_, err := New(nil, WithFamily(OSProcess))
		require.ErrorIs(t, err, gerrors.ErrBehaviorNotRegistered)
	})
}

func TestOpenMailbox(t *testing.T) {
	ctx := context.Background()
	inbox, err := bolt.NewTemp()
	require.NoError(t, err)
	t.Cleanup(func() { _ = inbox.Close() })

	opened, err := OpenMailbox(ctx, inbox.Locate())
	require.NoError(t, err)
	require.NoError(t, opened.Put(ctx, message.Message{"x": "y"}))
	require.NoError(t, opened.Close())

	msg, err := inbox.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "y", msg["x"])

	_, err = OpenMailbox(ctx, "ftp://somewhere")
	require.ErrorIs(t, err, gerrors.ErrInvalidLocator)
}
