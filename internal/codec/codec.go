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

package codec

import (
	"fmt"
	"strings"

	"github.com/klauspost/compress/zstd"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ownport/goactors/message"
)

const (
	// ProtoName identifies the plain protobuf codec in mailbox locators.
	ProtoName = "proto"
	// ZstdName identifies the zstd compressed protobuf codec in mailbox locators.
	ZstdName = "zstd"
)

// Codec converts messages to and from the bytes stored by out-of-process mailboxes.
type Codec interface {
	Encode(msg message.Message) ([]byte, error)
	Decode(data []byte) (message.Message, error)
	Name() string
}

// ByName returns the codec registered under the given locator name.
// An empty name selects the protobuf codec.
func ByName(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "", ProtoName:
		return NewProto(), nil
	case ZstdName:
		return NewZstd()
	default:
		return nil, fmt.Errorf("codec: unknown codec %q", name)
	}
}

// Proto encodes messages as google.protobuf.Struct.
// Numbers decode as float64 and lists as []any.
type Proto struct{}

var _ Codec = Proto{}

// NewProto creates the protobuf codec
func NewProto() Proto {
	return Proto{}
}

// Name returns the locator name of the codec
func (Proto) Name() string {
	return ProtoName
}

// Encode serializes the message
func (Proto) Encode(msg message.Message) ([]byte, error) {
	fields, ok := normalize(msg).(map[string]any)
	if !ok {
		fields = map[string]any{}
	}
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("codec: encoding message: %w", err)
	}
	return proto.Marshal(st)
}

// Decode deserializes the message
func (Proto) Decode(data []byte) (message.Message, error) {
	st := new(structpb.Struct)
	if err := proto.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("codec: decoding message: %w", err)
	}
	return message.Message(st.AsMap()), nil
}

// Zstd wraps the protobuf codec with zstd compression.
type Zstd struct {
	inner   Proto
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

var _ Codec = (*Zstd)(nil)

// NewZstd creates the compressed codec. EncodeAll and DecodeAll are safe
// for concurrent use, so one encoder and one decoder are shared.
func NewZstd() (*Zstd, error) {
	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithEncoderConcurrency(1),
		zstd.WithZeroFrames(true))
	if err != nil {
		return nil, fmt.Errorf("codec: zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true))
	if err != nil {
		_ = encoder.Close()
		return nil, fmt.Errorf("codec: zstd decoder: %w", err)
	}

	return &Zstd{inner: NewProto(), encoder: encoder, decoder: decoder}, nil
}

// Name returns the locator name of the codec
func (z *Zstd) Name() string {
	return ZstdName
}

// Encode serializes and compresses the message
func (z *Zstd) Encode(msg message.Message) ([]byte, error) {
	raw, err := z.inner.Encode(msg)
	if err != nil {
		return nil, err
	}
	return z.encoder.EncodeAll(raw, make([]byte, 0, len(raw))), nil
}

// Decode decompresses and deserializes the message
func (z *Zstd) Decode(data []byte) (message.Message, error) {
	raw, err := z.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("codec: zstd decode: %w", err)
	}
	return z.inner.Decode(raw)
}

// normalize rewrites the value into the shapes accepted by structpb.
func normalize(value any) any {
	switch v := value.(type) {
	case message.Message:
		return normalize(map[string]any(v))
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalize(item)
		}
		return out
	case []string:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out
	case []int:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out
	case []float64:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out
	case error:
		return v.Error()
	default:
		return v
	}
}
