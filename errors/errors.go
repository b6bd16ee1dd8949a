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

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyMailbox is returned by a mailbox Get when no message is currently available.
	// It is an expected condition and drives the idle/stop decision of the message loop.
	ErrEmptyMailbox = errors.New("mailbox is empty")

	// ErrMailboxConnection is returned when a network-backed mailbox cannot reach its backend.
	// It is never retried by the mailbox itself.
	ErrMailboxConnection = errors.New("mailbox backend is unavailable")

	// ErrMailboxClosed is returned when a closed mailbox is used.
	ErrMailboxClosed = errors.New("mailbox is closed")

	// ErrDuplicateChild is returned when adding a child that is already attached to the actor.
	ErrDuplicateChild = errors.New("child actor already exists")

	// ErrChildNotFound is returned when removing a child that is not attached to the actor.
	ErrChildNotFound = errors.New("child actor does not exist")

	// ErrChildHasParent is returned when adding a child that already belongs to another actor.
	ErrChildHasParent = errors.New("child actor already has a parent")

	// ErrFamilyNotSet is returned when family-dependent behavior is invoked before the family is set.
	ErrFamilyNotSet = errors.New("actor family is not specified")

	// ErrInvalidFamily is returned when an unknown family value is supplied.
	ErrInvalidFamily = errors.New("invalid actor family")

	// ErrTargetNotFound is returned when a pipeline hop cannot be resolved in the actor tree.
	ErrTargetNotFound = errors.New("couldn't find next target in system")

	// ErrAlreadyStarted is returned when starting an actor that already ran.
	ErrAlreadyStarted = errors.New("actor has already been started")

	// ErrNotShareable is returned when an os-process actor is given a mailbox
	// that cannot be reached from another OS process.
	ErrNotShareable = errors.New("mailbox cannot be shared across processes")

	// ErrProcessSupervisor is returned when adding children to an os-process actor.
	ErrProcessSupervisor = errors.New("os-process actors cannot supervise children")

	// ErrBehaviorNotRegistered is returned when an os-process child cannot rebuild its behavior.
	ErrBehaviorNotRegistered = errors.New("behavior kind is not registered")

	// ErrProcessUnsupported is returned on platforms without shared memory mappings.
	ErrProcessUnsupported = errors.New("os-process family is not supported on this platform")

	// ErrInvalidLocator is returned when a mailbox locator cannot be parsed.
	ErrInvalidLocator = errors.New("invalid mailbox locator")
)

// NewErrTargetNotFound formats the unresolved pipeline hop
func NewErrTargetNotFound(kind string) error {
	return fmt.Errorf("%w: %s", ErrTargetNotFound, kind)
}

// NewErrBehaviorNotRegistered formats the missing behavior kind
func NewErrBehaviorNotRegistered(kind string) error {
	return fmt.Errorf("%w: %s", ErrBehaviorNotRegistered, kind)
}

// NewErrMailboxConnection wraps a backend failure
func NewErrMailboxConnection(err error) error {
	return errors.Join(ErrMailboxConnection, err)
}

// NewErrInvalidLocator formats a locator parsing failure
func NewErrInvalidLocator(locator string, reason string) error {
	return fmt.Errorf("%w %q: %s", ErrInvalidLocator, locator, reason)
}

// PanicError defines the panic error
// wrapping the underlying error
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError from a recovered value
func NewPanicError(recovered any) *PanicError {
	switch v := recovered.(type) {
	case error:
		return &PanicError{v}
	default:
		return &PanicError{fmt.Errorf("%v", v)}
	}
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

func (e *PanicError) Unwrap() error {
	return e.err
}
