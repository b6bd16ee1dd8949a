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

package xsync

import (
	"slices"
	"sync"
)

// List is a concurrency-safe ordered collection without duplicates.
// Items keep their insertion order.
type List[T comparable] struct {
	mu   sync.RWMutex
	data []T
}

// NewList creates an empty List
func NewList[T comparable]() *List[T] {
	return &List[T]{data: make([]T, 0, 4)}
}

// Len returns the number of items in the list.
func (x *List[T]) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.data)
}

// Contains reports whether item is present in the list.
func (x *List[T]) Contains(item T) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return slices.Contains(x.data, item)
}

// Append adds item at the end of the list and reports false when it was
// already present.
func (x *List[T]) Append(item T) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	if slices.Contains(x.data, item) {
		return false
	}
	x.data = append(x.data, item)
	return true
}

// Remove deletes item and reports whether it was present.
func (x *List[T]) Remove(item T) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	index := slices.Index(x.data, item)
	if index < 0 {
		return false
	}
	x.data = slices.Delete(x.data, index, index+1)
	return true
}

// Items returns a snapshot of the list in insertion order.
func (x *List[T]) Items() []T {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return slices.Clone(x.data)
}
