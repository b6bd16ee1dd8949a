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

// Package sharedflag provides boolean flags visible to every process mapping
// the same file.
package sharedflag

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
)

// File is a fixed set of boolean flags backed by a memory mapped file.
// The creator owns the file and removes it on Close.
type File struct {
	mu     sync.RWMutex
	path   string
	owner  bool
	words  []uint32
	unmap  func() error
	closed bool
}

// Flag is a single boolean of a File
type Flag struct {
	file  *File
	index int
}

// Path returns the backing file path, used by other processes to Open it.
func (f *File) Path() string {
	return f.path
}

// Len returns the number of flags
func (f *File) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.words)
}

// Flag returns the flag at index. It panics when index is out of range.
func (f *File) Flag(index int) *Flag {
	if index < 0 || index >= f.Len() {
		panic(fmt.Sprintf("sharedflag: index %d out of range", index))
	}
	return &Flag{file: f, index: index}
}

// Close unmaps the file. Flags keep answering from a private copy of the
// last mapped values so that late readers never touch unmapped memory.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true

	words := make([]uint32, len(f.words))
	for i := range f.words {
		words[i] = atomic.LoadUint32(&f.words[i])
	}
	f.words = slices.Clip(words)

	if err := f.unmap(); err != nil {
		return err
	}
	if f.owner {
		return removeFile(f.path)
	}
	return nil
}

// Load reads the flag
func (f *Flag) Load() bool {
	f.file.mu.RLock()
	defer f.file.mu.RUnlock()
	return atomic.LoadUint32(&f.file.words[f.index]) != 0
}

// Store writes the flag
func (f *Flag) Store(value bool) {
	var word uint32
	if value {
		word = 1
	}
	f.file.mu.RLock()
	defer f.file.mu.RUnlock()
	atomic.StoreUint32(&f.file.words[f.index], word)
}
