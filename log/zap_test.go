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

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZapLogger(t *testing.T) {
	t.Run("With out of range level", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(42, buffer)
		require.Equal(t, DebugLevel, logger.LogLevel())

		logger.Debug("test debug")
		entry := decodeEntry(t, buffer)
		assert.Equal(t, "test debug", entry["msg"])
		assert.Equal(t, DebugLevel.String(), entry["level"])
	})
	t.Run("With Info level filters debug", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		require.Equal(t, InfoLevel, logger.LogLevel())
		require.False(t, logger.Enabled(DebugLevel))
		require.True(t, logger.Enabled(ErrorLevel))

		logger.Debugf("hidden %d", 1)
		require.Zero(t, buffer.Len())

		logger.Infof("visible %d", 2)
		entry := decodeEntry(t, buffer)
		assert.Equal(t, "visible 2", entry["msg"])
		assert.Equal(t, "info", entry["level"])
	})
	t.Run("With Warn and Error", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(WarningLevel, buffer)
		require.Equal(t, WarningLevel, logger.LogLevel())

		logger.Info("dropped")
		require.Zero(t, buffer.Len())

		logger.Warnf("careful %s", "now")
		entry := decodeEntry(t, buffer)
		assert.Equal(t, "careful now", entry["msg"])
		assert.Equal(t, "warn", entry["level"])

		buffer.Reset()
		logger.Errorf("failed %s", "hard")
		entry = decodeEntry(t, buffer)
		assert.Equal(t, "failed hard", entry["msg"])
		assert.Equal(t, "error", entry["level"])
	})
}

func TestZapWith(t *testing.T) {
	t.Run("With adds structured fields to output", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.With("actor", "Parser", "depth", 3, "err", errors.New("boom"), "keys", []string{"a", "b"}).
			Info("started")

		entry := decodeEntry(t, buffer)
		assert.Equal(t, "started", entry["msg"])
		assert.Equal(t, "Parser", entry["actor"])
		assert.EqualValues(t, 3, entry["depth"])
		assert.Equal(t, "boom", entry["err"])
		assert.Equal(t, []any{"a", "b"}, entry["keys"])
	})
	t.Run("With returns same logger when keyValues empty", func(t *testing.T) {
		logger := NewZap(InfoLevel, new(bytes.Buffer))
		assert.Equal(t, Logger(logger), logger.With())
	})
	t.Run("With skips non string keys", func(t *testing.T) {
		logger := NewZap(InfoLevel, new(bytes.Buffer))
		assert.Equal(t, Logger(logger), logger.With(1, "value"))
	})
	t.Run("With odd keyValues uses _ for orphan", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.With("actor", "Parser", "orphan").Info("msg")

		entry := decodeEntry(t, buffer)
		assert.Equal(t, "orphan", entry["_"])
	})
}

func TestLevel(t *testing.T) {
	assert.Equal(t, "debug", DebugLevel.String())
	assert.Equal(t, "invalid", Level(-1).String())
	assert.Equal(t, DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, WarningLevel, ParseLevel("warning"))
	assert.Equal(t, ErrorLevel, ParseLevel("error"))
	assert.Equal(t, InfoLevel, ParseLevel("unknown"))
	for _, level := range []Level{InfoLevel, WarningLevel, ErrorLevel, DebugLevel} {
		assert.Equal(t, level, ParseLevel(level.String()))
	}
}

func decodeEntry(t *testing.T, buffer *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &entry))
	return entry
}
