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
	gerrors "github.com/ownport/goactors/errors"
	"github.com/ownport/goactors/internal/xsync"
)

var behaviors = xsync.NewMap[string, BehaviorFactory]()

// RegisterBehavior makes a behavior available to os-process actors and
// returns its kind. A child process rebuilds its behavior from this
// registry, so registration must happen in every process, before
// ServeProcess is called.
func RegisterBehavior(factory BehaviorFactory) string {
	kind := KindOf(factory())
	behaviors.Set(kind, factory)
	return kind
}

func lookupBehavior(kind string) (Behavior, error) {
	factory, ok := behaviors.Get(kind)
	if !ok {
		return nil, gerrors.NewErrBehaviorNotRegistered(kind)
	}
	return factory(), nil
}
