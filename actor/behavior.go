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
	"reflect"
)

// Behavior is the message handling strategy of an actor.
//
// Process is called once per message cycle after the message was received
// and validated. The message is nil when the mailbox was empty and the
// behavior does not expect messages (see Waiter). A returned error ends
// the actor's execution loop.
type Behavior interface {
	Process(ctx *Context) error
}

// Receiver is implemented by behaviors that need a hook after a message
// was received and its steps applied.
type Receiver interface {
	AfterReceive(ctx *Context) error
}

// Validator is implemented by behaviors that filter messages before Process.
// Messages are processed only when Validate returns true.
type Validator interface {
	Validate(ctx *Context) (bool, error)
}

// Waiter is implemented by behaviors that decide whether an actor with a
// drained mailbox keeps waiting for messages or stops. Actors keep
// waiting by default.
type Waiter interface {
	ExpectMessages() bool
}

// Kinded is implemented by behaviors that choose their pipeline kind.
// The kind defaults to the concrete type name of the behavior.
type Kinded interface {
	Kind() string
}

// BehaviorFactory creates a fresh behavior.
type BehaviorFactory func() Behavior

const plainKind = "Actor"

// KindOf returns the pipeline kind of a behavior.
func KindOf(behavior Behavior) string {
	if behavior == nil {
		return plainKind
	}
	if kinded, ok := behavior.(Kinded); ok {
		return kinded.Kind()
	}
	return typeName(behavior)
}

func typeName(behavior Behavior) string {
	if behavior == nil {
		return plainKind
	}
	rtype := reflect.TypeOf(behavior)
	for rtype.Kind() == reflect.Pointer {
		rtype = rtype.Elem()
	}
	return rtype.Name()
}
