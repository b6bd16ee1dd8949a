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
	"maps"
	"slices"
)

// Reserved keys interpreted by the message pipeline.
const (
	// StepsKey holds the ordered list of remaining pipeline hops.
	StepsKey = "steps"
	// SessionIDKey is a correlation id copied through error and forward paths.
	SessionIDKey = "ssid"
	// MessageIDKey is a correlation id copied through error and forward paths.
	MessageIDKey = "mid"
	// ResultKey carries the outcome reported by Error.
	ResultKey = "result"
	// ErrorKey carries the failure reason reported by Error.
	ErrorKey = "error"
)

// Message is an untyped payload. The transport treats it as opaque;
// only the reserved keys above carry meaning for the pipeline.
type Message map[string]any

// New creates a Message from alternating key-value pairs.
// Non string keys and a trailing key without value are ignored.
func New(keyValues ...any) Message {
	msg := make(Message, len(keyValues)/2)
	for i := 0; i+1 < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			continue
		}
		msg[key] = keyValues[i+1]
	}
	return msg
}

// Clone returns a shallow copy of the message. Step lists are copied so
// that hops consumed downstream never alias the sender's list.
func (m Message) Clone() Message {
	if m == nil {
		return Message{}
	}
	clone := maps.Clone(m)
	if steps, ok := m[StepsKey].([]string); ok {
		clone[StepsKey] = slices.Clone(steps)
	}
	return clone
}

// Merge returns a copy of the message overlaid with the given fields.
func (m Message) Merge(fields Message) Message {
	out := m.Clone()
	for key, value := range fields {
		out[key] = value
	}
	return out
}

// Keys returns the message keys sorted alphabetically.
func (m Message) Keys() []string {
	keys := slices.Collect(maps.Keys(m))
	slices.Sort(keys)
	return keys
}

// Steps returns the pipeline hops carried by the message.
// Lists decoded from a wire format arrive as []any and are normalized here.
func (m Message) Steps() []string {
	switch steps := m[StepsKey].(type) {
	case []string:
		return slices.Clone(steps)
	case []any:
		out := make([]string, 0, len(steps))
		for _, step := range steps {
			if s, ok := step.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// String returns the string value stored under key, if any.
func (m Message) String(key string) (string, bool) {
	value, ok := m[key].(string)
	return value, ok
}
