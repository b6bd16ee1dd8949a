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
	"runtime"
	"time"
)

// continuation is a resumable unit of cooperative work.
// resume advances it one step and reports whether it finished.
type continuation interface {
	resume(ctx context.Context) (finished bool, err error)
}

// cycles is the processing continuation: one step runs one message cycle.
type cycles struct {
	actor *Actor
}

func (c cycles) resume(ctx context.Context) (bool, error) {
	return c.actor.cycle(ctx)
}

// supervisor is the supervise continuation: one step runs one sweep.
type supervisor struct {
	actor *Actor
}

func (s supervisor) resume(ctx context.Context) (bool, error) {
	return s.actor.sweep(ctx)
}

// greenTask runs the processing cycles of a green actor in a goroutine.
// Resuming it only observes whether the goroutine has ended.
type greenTask struct {
	done chan struct{}
	err  error
}

func newGreenTask() *greenTask {
	return &greenTask{done: make(chan struct{})}
}

func (t *greenTask) run(ctx context.Context, a *Actor) error {
	defer close(t.done)
	t.err = safely(func() error {
		for {
			if err := ctx.Err(); err != nil {
				a.Stop()
				return nil
			}
			finished, err := a.cycle(ctx)
			if err != nil || finished {
				return err
			}
			runtime.Gosched()
		}
	})
	return t.err
}

func (t *greenTask) resume(context.Context) (bool, error) {
	select {
	case <-t.done:
		return true, t.err
	default:
		return false, nil
	}
}

// RunOnce advances a cooperative actor by one step: its processing
// continuation and then its supervise continuation. It reports whether
// work remains; once both continuations have finished it stops the actor
// and returns false. An error ends the continuation that raised it.
//
// Self-driving actors are not advanced: RunOnce only reports whether they
// are still processing.
func (a *Actor) RunOnce(ctx context.Context) (bool, error) {
	if !a.family.cooperative() {
		return a.Processing(), nil
	}
	return a.advance(ctx)
}

// Run drives a cooperative actor until it stops or fails, and waits for a
// self-driving actor to exit. The first error ends the loop, is logged and
// returned; the actor is then left in its current state.
func (a *Actor) Run(ctx context.Context) error {
	if _, err := a.Family(); err != nil {
		return err
	}
	if a.family.cooperative() {
		return a.run(ctx)
	}
	if !a.hasUnit.Load() {
		return nil
	}
	select {
	case <-a.done:
		return a.unitErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the execution loop of every family. Panics raised by a step are
// handled like returned errors.
func (a *Actor) run(ctx context.Context) error {
	for a.processing.Load() {
		if ctx.Err() != nil {
			a.Stop()
			return nil
		}
		var more bool
		err := safely(func() (err error) {
			more, err = a.advance(ctx)
			return err
		})
		if err != nil {
			a.logger.Errorf("execution loop failed: %v", err)
			a.telemetry.Metrics().RecordFailure(ctx, a.kind)
			return err
		}
		if !more {
			break
		}
	}
	return nil
}

func (a *Actor) advance(ctx context.Context) (bool, error) {
	a.stepMu.Lock()
	defer a.stepMu.Unlock()

	if a.family == CooperativeGreen {
		runtime.Gosched()
	}

	for _, loop := range []*continuation{&a.processingLoop, &a.superviseLoop} {
		if *loop == nil {
			continue
		}
		finished, err := (*loop).resume(ctx)
		if finished || err != nil {
			*loop = nil
		}
		if err != nil {
			return false, err
		}
	}

	if a.processingLoop == nil && a.superviseLoop == nil {
		a.Stop()
		return false, nil
	}
	return true, nil
}

// idle marks the actor waiting and suspends it
func (a *Actor) idle(ctx context.Context) {
	a.waiting.Store(true)
	a.suspend(ctx)
}

// suspend is the family suspension point: the step boundary for
// cooperative-step actors, a bounded sleep for the others.
func (a *Actor) suspend(ctx context.Context) {
	switch a.family {
	case CooperativeStep:
	case CooperativeGreen:
		sleep(ctx, a.idleInterval)
		runtime.Gosched()
	default:
		sleep(ctx, a.idleInterval)
	}
}

func sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
