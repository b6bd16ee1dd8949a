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

package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	msg := New("x", 1, 2, "ignored", "orphan")
	require.Len(t, msg, 1)
	assert.Equal(t, 1, msg["x"])
}

func TestClone(t *testing.T) {
	t.Run("With nil message", func(t *testing.T) {
		var msg Message
		clone := msg.Clone()
		require.NotNil(t, clone)
		require.Empty(t, clone)
	})
	t.Run("With steps", func(t *testing.T) {
		msg := Message{"x": 1, StepsKey: []string{"B", "C"}}
		clone := msg.Clone()
		clone[StepsKey].([]string)[0] = "Z"
		clone["x"] = 2

		assert.Equal(t, []string{"B", "C"}, msg[StepsKey])
		assert.Equal(t, 1, msg["x"])
	})
}

func TestMerge(t *testing.T) {
	msg := Message{"x": 1, "y": 2}
	merged := msg.Merge(Message{"y": 3, "z": 4})

	assert.Equal(t, Message{"x": 1, "y": 3, "z": 4}, merged)
	assert.Equal(t, Message{"x": 1, "y": 2}, msg)
}

func TestSteps(t *testing.T) {
	t.Run("With string list", func(t *testing.T) {
		msg := Message{StepsKey: []string{"B", "C"}}
		assert.Equal(t, []string{"B", "C"}, msg.Steps())
	})
	t.Run("With decoded list", func(t *testing.T) {
		msg := Message{StepsKey: []any{"B", 42, "C"}}
		assert.Equal(t, []string{"B", "C"}, msg.Steps())
	})
	t.Run("Without steps", func(t *testing.T) {
		assert.Nil(t, Message{}.Steps())
	})
}

func TestKeysAndString(t *testing.T) {
	msg := Message{"b": 1, "a": "s1"}
	assert.Equal(t, []string{"a", "b"}, msg.Keys())

	value, ok := msg.String("a")
	require.True(t, ok)
	assert.Equal(t, "s1", value)

	_, ok = msg.String("b")
	assert.False(t, ok)
}
