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
	"context"
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	gerrors "github.com/ownport/goactors/errors"
)

// Start marks the actor processing, starts its children and launches the
// family execution unit. An actor runs at most once.
//
// Cooperative actors are not scheduled by Start: they advance when RunOnce
// is called by Run or by a supervising parent. os-thread and os-process
// actors run until stopped or until ctx is done.
func (a *Actor) Start(ctx context.Context) error {
	if _, err := a.Family(); err != nil {
		return err
	}
	if a.family == OSProcess {
		if err := a.checkProcess(); err != nil {
			return err
		}
	}
	if !a.started.CompareAndSwap(false, true) {
		return fmt.Errorf("%w: %s", gerrors.ErrAlreadyStarted, a)
	}

	a.waiting.Store(false)
	a.processing.Store(true)

	children := a.children.Items()
	var errs error
	for _, child := range children {
		if err := child.Start(ctx); err != nil && !errors.Is(err, gerrors.ErrAlreadyStarted) {
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		a.Stop()
		return errs
	}

	a.stepMu.Lock()
	if len(children) > 0 {
		a.superviseLoop = supervisor{actor: a}
	} else if a.family != CooperativeGreen {
		a.processingLoop = cycles{actor: a}
	}
	a.stepMu.Unlock()

	if err := a.launch(ctx, len(children) > 0); err != nil {
		a.Stop()
		return err
	}

	a.telemetry.Metrics().RecordStarted(ctx, a.kind)
	a.logger.Debugf("started with %d children", len(children))
	return nil
}

// launch starts the execution unit of self-driving families and the
// processing task of green actors.
func (a *Actor) launch(ctx context.Context, supervising bool) error {
	switch a.family {
	case CooperativeGreen:
		if !supervising {
			task := newGreenTask()
			a.stepMu.Lock()
			a.processingLoop = task
			a.stepMu.Unlock()
			a.spawn(func() error { return task.run(ctx, a) })
		}
	case OSThread:
		a.spawn(func() error {
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			return a.run(ctx)
		})
	case OSProcess:
		return a.startProcess(ctx)
	}
	return nil
}

// spawn runs the execution unit of the actor in a goroutine
func (a *Actor) spawn(unit func() error) {
	a.hasUnit.Store(true)
	go func() {
		defer close(a.done)
		a.unitErr = safely(unit)
	}()
}

// Stop stops the children, sweeping until none is processing, then clears
// the actor flags. Stop is idempotent. Cooperative actors observe the stop
// at their next step and self-driving actors at their next poll.
func (a *Actor) Stop() {
	a.stopChildren()
	if a.processing.Load() {
		a.telemetry.Metrics().RecordStopped(context.Background(), a.kind)
		a.logger.Debug("stopped")
	}
	a.processing.Store(false)
	a.waiting.Store(false)
}

func (a *Actor) stopChildren() {
	for {
		children := a.children.Items()
		stopped := 0
		for _, child := range children {
			if child.Processing() {
				child.Stop()
				continue
			}
			stopped++
		}
		if stopped == len(children) {
			return
		}
	}
}

// Wait blocks until the execution units of the subtree have exited and
// returns the errors they ended with.
func (a *Actor) Wait(ctx context.Context) error {
	actors := a.subtree()
	eg, ctx := errgroup.WithContext(ctx)
	for _, actor := range actors {
		if !actor.hasUnit.Load() {
			continue
		}
		eg.Go(func() error {
			select {
			case <-actor.done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	var errs error
	for _, actor := range actors {
		if actor.hasUnit.Load() {
			errs = multierr.Append(errs, actor.unitErr)
		}
	}
	return errs
}

// Shutdown stops the subtree, waits for its execution units and closes
// every mailbox of the subtree. Mailboxes stay open when ctx ends first.
func (a *Actor) Shutdown(ctx context.Context) error {
	a.Stop()
	errs := a.Wait(ctx)
	if ctx.Err() != nil {
		return errs
	}

	for _, actor := range a.subtree() {
		errs = multierr.Append(errs, actor.close())
	}
	return errs
}

func (a *Actor) close() error {
	err := a.inbox.Close()
	if a.upstream != nil {
		err = multierr.Append(err, a.upstream.Close())
	}
	if a.flagFile != nil {
		err = multierr.Append(err, a.flagFile.Close())
	}
	return err
}

// safely converts a panic raised by fn into an error
func safely(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = gerrors.NewPanicError(r)
		}
	}()
	return fn()
}
