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

package sharedflag

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedFlags(t *testing.T) {
	t.Run("With flags visible through a second mapping", func(t *testing.T) {
		owner, err := Create(2)
		require.NoError(t, err)

		peer, err := Open(owner.Path(), 2)
		require.NoError(t, err)

		assert.False(t, peer.Flag(0).Load())
		owner.Flag(0).Store(true)
		assert.True(t, peer.Flag(0).Load())
		assert.False(t, peer.Flag(1).Load())

		peer.Flag(0).Store(false)
		assert.False(t, owner.Flag(0).Load())

		require.NoError(t, peer.Close())
		require.NoError(t, owner.Close())
		_, err = os.Stat(owner.Path())
		assert.True(t, os.IsNotExist(err))
	})
	t.Run("With flags readable after close", func(t *testing.T) {
		owner, err := Create(1)
		require.NoError(t, err)
		flag := owner.Flag(0)
		flag.Store(true)

		require.NoError(t, owner.Close())
		require.NoError(t, owner.Close())
		assert.True(t, flag.Load())
		flag.Store(false)
		assert.False(t, flag.Load())
	})
	t.Run("With short file", func(t *testing.T) {
		owner, err := Create(1)
		require.NoError(t, err)
		t.Cleanup(func() { _ = owner.Close() })

		_, err = Open(owner.Path(), 4)
		require.Error(t, err)
	})
	t.Run("With invalid count", func(t *testing.T) {
		_, err := Create(0)
		require.Error(t, err)
	})
	t.Run("With out of range index", func(t *testing.T) {
		owner, err := Create(1)
		require.NoError(t, err)
		t.Cleanup(func() { _ = owner.Close() })
		assert.Panics(t, func() { owner.Flag(1) })
	})
}
