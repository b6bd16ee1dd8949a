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
)

// sweep runs one pass of the supervision loop. Cooperative children that
// are processing advance one step; errors they raise are logged and do
// not interrupt the pass. Self-driving children are only observed. The
// loop finishes once a pass finds no child processing.
func (a *Actor) sweep(ctx context.Context) (bool, error) {
	if !a.processing.Load() {
		return true, nil
	}

	children := a.children.Items()
	stopped := 0
	for _, child := range children {
		if !child.Processing() {
			stopped++
			continue
		}
		if !child.family.cooperative() {
			continue
		}
		if err := safely(func() error {
			_, err := child.RunOnce(ctx)
			return err
		}); err != nil {
			a.logger.With("child", child.String()).Errorf("child step failed: %v", err)
			a.telemetry.Metrics().RecordFailure(ctx, child.kind)
		}
	}
	a.telemetry.Metrics().RecordSweep(ctx, a.kind)

	if stopped == len(children) {
		a.logger.Debug("supervise stopped")
		return true, nil
	}
	a.suspend(ctx)
	return false, nil
}
