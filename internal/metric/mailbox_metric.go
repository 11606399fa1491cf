// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package metric holds the OpenTelemetry instruments recorded by the actor
// mailboxes.
package metric

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/tochemey/goactor"

// MailboxMetric defines the mailbox instrumentation
type MailboxMetric struct {
	// Specifies the total number of events processed
	processedCount metric.Int64Counter
	// Specifies the total number of invocation failures
	exceptionCount metric.Int64Counter
	// Specifies the time between enqueue and execution start in milliseconds
	latency metric.Float64Histogram
	// Specifies the time spent running an event in milliseconds
	busyDuration metric.Float64Histogram
	// Specifies the number of events pending or in flight
	eventCount metric.Int64UpDownCounter
}

// NewMailboxMetric creates an instance of MailboxMetric
func NewMailboxMetric(meter metric.Meter) (*MailboxMetric, error) {
	mailboxMetric := new(MailboxMetric)
	var err error

	if mailboxMetric.processedCount, err = meter.Int64Counter(
		"actor_processed_count",
		metric.WithDescription("Total number of events processed"),
	); err != nil {
		return nil, fmt.Errorf("failed to create processedCount instrument, %w", err)
	}

	if mailboxMetric.exceptionCount, err = meter.Int64Counter(
		"actor_exception_count",
		metric.WithDescription("Total number of events that failed"),
	); err != nil {
		return nil, fmt.Errorf("failed to create exceptionCount instrument, %w", err)
	}

	if mailboxMetric.latency, err = meter.Float64Histogram(
		"actor_event_latency",
		metric.WithDescription("Time between an event being enqueued and starting to run"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, fmt.Errorf("failed to create latency instrument, %w", err)
	}

	if mailboxMetric.busyDuration, err = meter.Float64Histogram(
		"actor_event_duration",
		metric.WithDescription("Time spent running an event"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, fmt.Errorf("failed to create busyDuration instrument, %w", err)
	}

	if mailboxMetric.eventCount, err = meter.Int64UpDownCounter(
		"actor_event_count",
		metric.WithDescription("Number of events pending or running"),
	); err != nil {
		return nil, fmt.Errorf("failed to create eventCount instrument, %w", err)
	}

	return mailboxMetric, nil
}

// NewGlobalMailboxMetric creates a MailboxMetric on the global meter provider
func NewGlobalMailboxMetric() (*MailboxMetric, error) {
	return NewMailboxMetric(otel.GetMeterProvider().Meter(instrumentationName))
}

// Meter returns a meter named after this module from the given provider
func Meter(provider metric.MeterProvider) metric.Meter {
	return provider.Meter(instrumentationName)
}

// ProcessedCount returns the processed events counter
func (x *MailboxMetric) ProcessedCount() metric.Int64Counter {
	return x.processedCount
}

// ExceptionCount returns the failed events counter
func (x *MailboxMetric) ExceptionCount() metric.Int64Counter {
	return x.exceptionCount
}

// Latency returns the enqueue to start latency histogram
func (x *MailboxMetric) Latency() metric.Float64Histogram {
	return x.latency
}

// BusyDuration returns the event run duration histogram
func (x *MailboxMetric) BusyDuration() metric.Float64Histogram {
	return x.busyDuration
}

// EventCount returns the pending events gauge
func (x *MailboxMetric) EventCount() metric.Int64UpDownCounter {
	return x.eventCount
}
