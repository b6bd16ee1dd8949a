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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/ownport/goactors/errors"
	"github.com/ownport/goactors/mailbox"
)

func TestNew(t *testing.T) {
	t.Run("With defaults", func(t *testing.T) {
		a := newActor(t, newRecorder("Worker"))
		assert.Equal(t, "recorder", a.Name())
		assert.Equal(t, "Worker", a.Kind())
		assert.Len(t, a.Address(), 32)
		assert.False(t, a.Processing())
		assert.False(t, a.Waiting())
		assert.Nil(t, a.Parent())
		assert.Empty(t, a.Children())
		assert.Equal(t, "recorder["+a.Address()+"]", a.String())

		_, err := a.Family()
		require.ErrorIs(t, err, gerrors.ErrFamilyNotSet)
	})
	t.Run("With plain supervisor", func(t *testing.T) {
		a := newActor(t, nil, WithName("system"), WithFamily(CooperativeStep))
		assert.Equal(t, "system", a.Name())
		assert.Equal(t, "Actor", a.Kind())
		assert.Nil(t, a.Behavior())

		family, err := a.Family()
		require.NoError(t, err)
		assert.Equal(t, CooperativeStep, family)
		assert.IsType(t, &mailbox.Queue{}, a.Inbox())
	})
	t.Run("With family default inboxes", func(t *testing.T) {
		for _, family := range []Family{CooperativeStep, CooperativeGreen, OSThread} {
			a := newActor(t, nil, WithFamily(family))
			assert.IsType(t, &mailbox.Queue{}, a.Inbox(), family.String())
		}
	})
	t.Run("With single goroutine inbox opt-in", func(t *testing.T) {
		a := newActor(t, nil, WithFamily(CooperativeStep), WithMailbox(mailbox.NewDeque()))
		assert.IsType(t, &mailbox.Deque{}, a.Inbox())
	})
	t.Run("With unique addresses", func(t *testing.T) {
		seen := make(map[string]struct{})
		for i := 0; i < 1000; i++ {
			a := newActor(t, nil)
			_, exists := seen[a.Address()]
			require.False(t, exists)
			seen[a.Address()] = struct{}{}
		}
	})
	t.Run("With invalid family", func(t *testing.T) {
		_, err := New(nil, WithFamily(Family(42)))
		require.ErrorIs(t, err, gerrors.ErrInvalidFamily)
	})
	t.Run("With invalid idle interval", func(t *testing.T) {
		_, err := New(nil, WithIdleInterval(0))
		require.Error(t, err)
	})
	t.Run("With process family and local mailbox", func(t *testing.T) {
		_, err := New(new(echo), WithFamily(OSProcess), WithMailbox(mailbox.NewQueue()))
		require.ErrorIs(t, err, gerrors.ErrNotShareable)
	})
}

func TestFamily(t *testing.T) {
	assert.Equal(t, "cooperative-step", CooperativeStep.String())
	assert.Equal(t, "cooperative-green", CooperativeGreen.String())
	assert.Equal(t, "os-thread", OSThread.String())
	assert.Equal(t, "os-process", OSProcess.String())
	assert.Equal(t, "unset", unsetFamily.String())
	assert.False(t, unsetFamily.IsValid())
	assert.True(t, CooperativeStep.cooperative())
	assert.True(t, CooperativeGreen.cooperative())
	assert.False(t, OSThread.cooperative())
}

func TestTree(t *testing.T) {
	t.Run("With add and remove", func(t *testing.T) {
		parent := newActor(t, nil)
		child := newActor(t, nil)

		require.NoError(t, parent.AddChild(child))
		assert.Same(t, parent, child.Parent())
		assert.Equal(t, []*Actor{child}, parent.Children())

		require.NoError(t, parent.RemoveChild(child.Address()))
		assert.Nil(t, child.Parent())
		assert.Empty(t, parent.Children())
	})
	t.Run("With duplicate child", func(t *testing.T) {
		parent := newActor(t, nil)
		child := newActor(t, nil)
		require.NoError(t, parent.AddChild(child))
		require.ErrorIs(t, parent.AddChild(child), gerrors.ErrDuplicateChild)
	})
	t.Run("With child of another parent", func(t *testing.T) {
		first := newActor(t, nil)
		second := newActor(t, nil)
		child := newActor(t, nil)
		require.NoError(t, first.AddChild(child))
		require.ErrorIs(t, second.AddChild(child), gerrors.ErrChildHasParent)
		assert.Same(t, first, child.Parent())
	})
	t.Run("With missing child", func(t *testing.T) {
		parent := newActor(t, nil)
		require.ErrorIs(t, parent.RemoveChild("unknown"), gerrors.ErrChildNotFound)
	})
	t.Run("With self as child", func(t *testing.T) {
		parent := newActor(t, nil)
		require.Error(t, parent.AddChild(parent))
		require.Error(t, parent.AddChild(nil))
	})
	t.Run("With parent set iff child is registered", func(t *testing.T) {
		root := newActor(t, nil)
		children := make([]*Actor, 5)
		for i := range children {
			children[i] = newActor(t, nil)
			require.NoError(t, root.AddChild(children[i]))
		}
		require.NoError(t, root.RemoveChild(children[2].Address()))

		for _, child := range children {
			registered := false
			for _, c := range root.Children() {
				registered = registered || c == child
			}
			assert.Equal(t, registered, child.Parent() == root)
		}
	})
}

func TestFind(t *testing.T) {
	// grandparent -> (parent -> (child, sibling), uncle -> cousin)
	grandparent := newActor(t, nil, WithName("grandparent"))
	parent := newActor(t, newRecorder("T"), WithName("parent"))
	uncle := newActor(t, newRecorder("T"), WithName("uncle"))
	cousin := newActor(t, newRecorder("T"), WithName("cousin"))
	child := newActor(t, newRecorder("U"), WithName("child"))
	sibling := newActor(t, newRecorder("T"), WithName("sibling"))

	require.NoError(t, grandparent.AddChild(parent))
	require.NoError(t, grandparent.AddChild(uncle))
	require.NoError(t, uncle.AddChild(cousin))
	require.NoError(t, parent.AddChild(child))
	require.NoError(t, parent.AddChild(sibling))

	t.Run("With kind across the tree", func(t *testing.T) {
		found := child.Find(ByKind("T"))
		assert.ElementsMatch(t, []*Actor{parent, sibling, uncle}, found)
	})
	t.Run("With no criteria", func(t *testing.T) {
		found := child.Find()
		assert.ElementsMatch(t, []*Actor{parent, child, sibling, grandparent, uncle}, found)
	})
	t.Run("With root only sees children", func(t *testing.T) {
		assert.ElementsMatch(t, []*Actor{parent, uncle}, grandparent.Find())
	})
	t.Run("With addresses", func(t *testing.T) {
		found := child.Find(ByAddress(uncle.Address(), grandparent.Address(), cousin.Address()))
		assert.ElementsMatch(t, []*Actor{uncle, grandparent}, found)
	})
	t.Run("With name", func(t *testing.T) {
		assert.Equal(t, []*Actor{sibling}, child.Find(ByName("sibling")))
		assert.Empty(t, child.Find(ByName("cousin")))
	})
	t.Run("With behavior type", func(t *testing.T) {
		found := child.Find(ByBehavior[*recorder]())
		assert.ElementsMatch(t, []*Actor{parent, child, sibling, uncle}, found)
	})
	t.Run("With behavior interface", func(t *testing.T) {
		found := child.Find(ByBehavior[Waiter]())
		assert.ElementsMatch(t, []*Actor{parent, child, sibling, uncle}, found)
	})
	t.Run("With address taking priority", func(t *testing.T) {
		found := child.Find(ByName("sibling"), ByAddress(uncle.Address()))
		assert.Equal(t, []*Actor{uncle}, found)
	})
	t.Run("With kind taking priority over behavior", func(t *testing.T) {
		want := []*Actor{child}
		assert.Equal(t, want, child.Find(ByBehavior[*recorder](), ByKind("U")))
		assert.Equal(t, want, child.Find(ByKind("U"), ByBehavior[*recorder]()))
	})
	t.Run("With each actor once", func(t *testing.T) {
		found := child.Find()
		seen := make(map[*Actor]int)
		for _, a := range found {
			seen[a]++
		}
		for a, count := range seen {
			assert.Equal(t, 1, count, a.String())
		}
	})
}

func TestTell(t *testing.T) {
	a := newActor(t, nil, WithFamily(OSThread))
	require.NoError(t, a.Tell(t.Context(), map[string]any{"x": 1}))
	assert.Len(t, drain(t, a), 1)
}
