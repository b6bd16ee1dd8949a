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
	goset "github.com/deckarep/golang-set/v2"
)

// FindOption selects the criterion used by Find.
type FindOption func(*criteria)

type criteria struct {
	addresses goset.Set[string]
	kind      *string
	behavior  func(*Actor) bool
	name      *string
}

// ByAddress matches actors with one of the given addresses.
func ByAddress(addresses ...string) FindOption {
	return func(c *criteria) {
		c.addresses = goset.NewThreadUnsafeSet(addresses...)
	}
}

// ByKind matches actors of the given pipeline kind.
func ByKind(kind string) FindOption {
	return func(c *criteria) {
		c.kind = &kind
	}
}

// ByBehavior matches actors whose behavior is of type T, or implements T
// when T is an interface.
func ByBehavior[T any]() FindOption {
	return func(c *criteria) {
		c.behavior = func(a *Actor) bool {
			if a.behavior == nil {
				return false
			}
			_, ok := any(a.behavior).(T)
			return ok
		}
	}
}

// ByName matches actors with the given name.
func ByName(name string) FindOption {
	return func(c *criteria) {
		c.name = &name
	}
}

// Find resolves the actors visible from a: its children, its parent and,
// recursively, everything visible from the parent. Only one criterion is
// honored, in the order address, kind, behavior, name, whatever the order
// of the options. Without criterion the whole visible set is returned.
// Results keep discovery order and hold each actor once.
func (a *Actor) Find(opts ...FindOption) []*Actor {
	c := new(criteria)
	for _, opt := range opts {
		opt(c)
	}

	known := a.children.Items()
	if parent := a.Parent(); parent != nil {
		known = append(known, parent)
		known = append(known, parent.Find(opts...)...)
	}

	seen := goset.NewThreadUnsafeSetWithSize[*Actor](len(known))
	result := make([]*Actor, 0, len(known))
	for _, actor := range known {
		if !seen.Add(actor) || !c.accepts(actor) {
			continue
		}
		result = append(result, actor)
	}
	return result
}

func (c *criteria) accepts(a *Actor) bool {
	switch {
	case c.addresses != nil:
		return c.addresses.Contains(a.address)
	case c.kind != nil:
		return a.kind == *c.kind
	case c.behavior != nil:
		return c.behavior(a)
	case c.name != nil:
		return a.name == *c.name
	default:
		return true
	}
}
