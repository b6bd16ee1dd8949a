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

package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	startedCounterName   = "actor.started"
	stoppedCounterName   = "actor.stopped"
	processedCounterName = "actor.messages.processed"
	failureCounterName   = "actor.failures"
	sweepCounterName     = "actor.supervisor.sweeps"

	// KindAttribute labels every measurement with the actor kind
	KindAttribute = "actor.kind"
)

// Metrics are the actor instruments.
type Metrics struct {
	started   metric.Int64Counter
	stopped   metric.Int64Counter
	processed metric.Int64Counter
	failures  metric.Int64Counter
	sweeps    metric.Int64Counter
}

// NewMetrics creates the actor instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	metrics := new(Metrics)
	var err error

	if metrics.started, err = meter.Int64Counter(
		startedCounterName,
		metric.WithDescription("The total number of actor starts")); err != nil {
		return nil, fmt.Errorf("failed to create start count instrument, %w", err)
	}

	if metrics.stopped, err = meter.Int64Counter(
		stoppedCounterName,
		metric.WithDescription("The total number of actor stops")); err != nil {
		return nil, fmt.Errorf("failed to create stop count instrument, %w", err)
	}

	if metrics.processed, err = meter.Int64Counter(
		processedCounterName,
		metric.WithDescription("The total number of messages processed")); err != nil {
		return nil, fmt.Errorf("failed to create processed count instrument, %w", err)
	}

	if metrics.failures, err = meter.Int64Counter(
		failureCounterName,
		metric.WithDescription("The total number of failures reported by actors")); err != nil {
		return nil, fmt.Errorf("failed to create failure count instrument, %w", err)
	}

	if metrics.sweeps, err = meter.Int64Counter(
		sweepCounterName,
		metric.WithDescription("The total number of supervision sweeps")); err != nil {
		return nil, fmt.Errorf("failed to create sweep count instrument, %w", err)
	}

	return metrics, nil
}

// RecordStarted counts an actor start.
func (m *Metrics) RecordStarted(ctx context.Context, kind string) {
	m.started.Add(ctx, 1, withKind(kind))
}

// RecordStopped counts an actor stop.
func (m *Metrics) RecordStopped(ctx context.Context, kind string) {
	m.stopped.Add(ctx, 1, withKind(kind))
}

// RecordProcessed counts a processed message.
func (m *Metrics) RecordProcessed(ctx context.Context, kind string) {
	m.processed.Add(ctx, 1, withKind(kind))
}

// RecordFailure counts a failure.
func (m *Metrics) RecordFailure(ctx context.Context, kind string) {
	m.failures.Add(ctx, 1, withKind(kind))
}

// RecordSweep counts a supervision sweep.
func (m *Metrics) RecordSweep(ctx context.Context, kind string) {
	m.sweeps.Add(ctx, 1, withKind(kind))
}

func withKind(kind string) metric.AddOption {
	return metric.WithAttributes(attribute.String(KindAttribute, kind))
}
