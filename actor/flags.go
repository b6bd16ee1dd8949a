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
	"go.uber.org/atomic"

	"github.com/ownport/goactors/internal/sharedflag"
)

// flag is a boolean readable across the concurrency domain of a family
type flag interface {
	Load() bool
	Store(bool)
}

var (
	_ flag = (*atomic.Bool)(nil)
	_ flag = (*sharedflag.Flag)(nil)
)

const (
	processingFlag = iota
	waitingFlag
	flagCount
)

// newLocalFlags returns the processing and waiting flags of in-process actors.
func newLocalFlags() (processing, waiting flag) {
	return atomic.NewBool(false), atomic.NewBool(false)
}

// newSharedFlags maps the processing and waiting flags of os-process actors.
func newSharedFlags(file *sharedflag.File) (processing, waiting flag) {
	return file.Flag(processingFlag), file.Flag(waitingFlag)
}
