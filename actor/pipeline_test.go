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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/ownport/goactors/errors"
	"github.com/ownport/goactors/message"
)

// pipeline builds root -> (sender, extra children...) with step actors
func pipeline(t *testing.T, fn func(*Context) error, opts []Option, children ...*Actor) (root, sender *Actor) {
	t.Helper()
	root = newActor(t, nil, WithFamily(CooperativeStep))
	sender = newActor(t, &handler{kind: "A", fn: fn}, append([]Option{WithFamily(CooperativeStep)}, opts...)...)
	require.NoError(t, root.AddChild(sender))
	for _, child := range children {
		require.NoError(t, root.AddChild(child))
	}
	return root, sender
}

func step(t *testing.T, a *Actor, msg message.Message) bool {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, a.Tell(ctx, msg))
	if !a.started.Load() {
		require.NoError(t, a.Start(ctx))
	}
	more, err := a.RunOnce(ctx)
	require.NoError(t, err)
	return more
}

func TestSend(t *testing.T) {
	t.Run("With pipeline routing to every actor of the next kind", func(t *testing.T) {
		first := newActor(t, newRecorder("B"), WithFamily(CooperativeStep))
		second := newActor(t, newRecorder("B"), WithFamily(CooperativeStep))
		last := newActor(t, newRecorder("C"), WithFamily(CooperativeStep))
		root, sender := pipeline(t, func(ctx *Context) error {
			return ctx.Send(message.Message{"x": 1})
		}, nil, first, second, last)

		step(t, sender, message.Message{message.StepsKey: []string{"B", "C"}})

		want := message.Message{"x": 1, message.StepsKey: []string{"C"}}
		for _, target := range []*Actor{first, second} {
			assert.Equal(t, []message.Message{want}, drain(t, target))
			assert.True(t, target.Processing(), "targets are started")
		}
		assert.Empty(t, drain(t, last))
		assert.Empty(t, drain(t, root))
		assert.True(t, sender.Processing())
	})
	t.Run("With steps set by the behavior", func(t *testing.T) {
		target := newActor(t, newRecorder("B"), WithFamily(CooperativeStep))
		_, sender := pipeline(t, func(ctx *Context) error {
			ctx.SetSteps("B")
			assert.Equal(t, []string{"B"}, ctx.Steps())
			return ctx.Send(message.Message{"x": 1}, Overwrite())
		}, nil, target)

		step(t, sender, message.Message{"y": 2})
		assert.Equal(t, []message.Message{{"x": 1, message.StepsKey: []string{}}}, drain(t, target))
	})
	t.Run("With terminal forwarding to the parent", func(t *testing.T) {
		root, sender := pipeline(t, func(ctx *Context) error {
			return ctx.Send(message.Message{"x": 1}, AllowParent())
		}, nil)

		step(t, sender, message.Message{"y": 2})
		assert.Equal(t, []message.Message{{"x": 1, "y": 2}}, drain(t, root))
	})
	t.Run("With overwrite", func(t *testing.T) {
		root, sender := pipeline(t, func(ctx *Context) error {
			return ctx.Send(message.Message{"x": 1}, AllowParent(), Overwrite())
		}, nil)

		step(t, sender, message.Message{"y": 2})
		assert.Equal(t, []message.Message{{"x": 1}}, drain(t, root))
	})
	t.Run("With forwarding allowed by default", func(t *testing.T) {
		root, sender := pipeline(t, func(ctx *Context) error {
			return ctx.Send(message.Message{"x": 1})
		}, []Option{WithAllowParent()})

		step(t, sender, message.Message{})
		assert.Equal(t, []message.Message{{"x": 1}}, drain(t, root))
	})
	t.Run("With end of pipeline", func(t *testing.T) {
		root, sender := pipeline(t, func(ctx *Context) error {
			return ctx.Send(message.Message{"x": 1})
		}, nil)

		step(t, sender, message.Message{"y": 2})
		assert.Empty(t, drain(t, root))
		assert.True(t, sender.Processing())
	})
	t.Run("With unresolved next kind", func(t *testing.T) {
		var sendErr error
		root, sender := pipeline(t, func(ctx *Context) error {
			sendErr = ctx.Send(message.Message{"x": 1})
			return nil
		}, []Option{WithAllowParent()})

		more := step(t, sender, message.Message{
			message.StepsKey:     []string{"Missing"},
			message.SessionIDKey: "s1",
		})
		assert.False(t, more)
		require.ErrorIs(t, sendErr, gerrors.ErrTargetNotFound)
		assert.False(t, sender.Processing())
		assert.Equal(t, []message.Message{{
			message.ResultKey:    false,
			message.ErrorKey:     "couldn't find next target in system: Missing",
			message.SessionIDKey: "s1",
		}}, drain(t, root))
	})
}

func TestCrossFamilyRouting(t *testing.T) {
	t.Run("With thread sender routing to a step sibling", func(t *testing.T) {
		ctx := context.Background()
		const count = 200

		root := newActor(t, nil, WithFamily(CooperativeStep))
		src := newActor(t, &handler{kind: "src", fn: func(ctx *Context) error {
			ctx.SetSteps("sink")
			return ctx.Send(message.Message{"x": 1})
		}}, WithFamily(OSThread))
		sink := newRecorder("sink")
		target := newActor(t, sink, WithFamily(CooperativeStep))
		require.NoError(t, root.AddChild(src))
		require.NoError(t, root.AddChild(target))
		fill(t, src, count)
		require.NoError(t, root.Start(ctx))

		// the sweep reads the sink inbox while the thread goroutine writes it
		deadline := time.Now().Add(10 * time.Second)
		for len(sink.messages()) < count && time.Now().Before(deadline) {
			_, err := root.RunOnce(ctx)
			require.NoError(t, err)
		}

		received := sink.messages()
		require.Len(t, received, count)
		assert.Equal(t, message.Message{"i": 0, "x": 1, message.StepsKey: []string{}}, received[0])
		shutdown(t, root)
	})
}

func TestError(t *testing.T) {
	t.Run("With correlation ids reported to the parent", func(t *testing.T) {
		root, sender := pipeline(t, func(ctx *Context) error {
			return ctx.Error("boom", AllowParent(), WithField("code", 7))
		}, nil)

		more := step(t, sender, message.Message{message.SessionIDKey: "s1", message.MessageIDKey: "m1"})
		assert.False(t, more)
		assert.False(t, sender.Processing())
		assert.Equal(t, []message.Message{{
			message.ResultKey:    false,
			message.ErrorKey:     "boom",
			message.SessionIDKey: "s1",
			message.MessageIDKey: "m1",
			"code":               7,
		}}, drain(t, root))
	})
	t.Run("With forwarding not allowed", func(t *testing.T) {
		root, sender := pipeline(t, func(ctx *Context) error {
			return ctx.Error("boom")
		}, nil)

		step(t, sender, message.Message{message.SessionIDKey: "s1"})
		assert.False(t, sender.Processing())
		assert.Empty(t, drain(t, root))
	})
	t.Run("With root actor", func(t *testing.T) {
		a := newActor(t, &handler{fn: func(ctx *Context) error {
			return ctx.Error("boom", AllowParent())
		}}, WithFamily(CooperativeStep))

		assert.False(t, step(t, a, message.Message{"x": 1}))
		assert.False(t, a.Processing())
	})
}

func TestMessageCycle(t *testing.T) {
	ctx := context.Background()
	t.Run("With idle while expecting messages", func(t *testing.T) {
		rec := newRecorder("")
		a := newActor(t, rec, WithFamily(CooperativeStep))
		require.NoError(t, a.Start(ctx))

		more, err := a.RunOnce(ctx)
		require.NoError(t, err)
		assert.True(t, more)
		assert.True(t, a.Processing())
		assert.True(t, a.Waiting())
		assert.Zero(t, rec.calls.Load())
	})
	t.Run("With stop when not expecting messages", func(t *testing.T) {
		rec := newDrainingRecorder()
		a := newActor(t, rec, WithFamily(CooperativeStep))
		require.NoError(t, a.Start(ctx))

		more, err := a.RunOnce(ctx)
		require.NoError(t, err)
		assert.False(t, more)
		assert.False(t, a.Processing())
		// the cycle falls through with no message
		assert.EqualValues(t, 1, rec.calls.Load())
		assert.Empty(t, rec.messages())
	})
	t.Run("With waiting cleared by a message", func(t *testing.T) {
		a := newActor(t, newRecorder(""), WithFamily(CooperativeStep))
		require.NoError(t, a.Start(ctx))
		_, err := a.RunOnce(ctx)
		require.NoError(t, err)
		require.True(t, a.Waiting())

		require.NoError(t, a.Tell(ctx, message.Message{"x": 1}))
		require.NoError(t, a.Tell(ctx, message.Message{"x": 2}))
		_, err = a.RunOnce(ctx)
		require.NoError(t, err)
		assert.True(t, a.Processing())
	})
	t.Run("With rejected messages not processed", func(t *testing.T) {
		rec := newRecorder("")
		a := newActor(t, &rejecting{recorder: rec}, WithFamily(CooperativeStep))
		assert.True(t, step(t, a, message.Message{"x": 1}))
		assert.Zero(t, rec.calls.Load())
	})
	t.Run("With receive hook failure", func(t *testing.T) {
		a := newActor(t, &hooked{recorder: newRecorder("")}, WithFamily(CooperativeStep))
		require.NoError(t, a.Tell(ctx, message.Message{"x": 1}))
		require.NoError(t, a.Start(ctx))
		_, err := a.RunOnce(ctx)
		require.EqualError(t, err, "receive hook failed")
	})
	t.Run("With cycle state cleared at the end", func(t *testing.T) {
		a := newActor(t, newRecorder(""), WithFamily(CooperativeStep))
		step(t, a, message.Message{message.StepsKey: []string{"B"}})
		assert.Nil(t, a.current)
		assert.Nil(t, a.steps)
	})
}
