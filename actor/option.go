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

package actor

import (
	"time"

	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/tochemey/goactor/config"
	"github.com/tochemey/goactor/log"
)

// SchedulerOption is the interface that applies a Scheduler option.
type SchedulerOption interface {
	// Apply sets the Option value of a Scheduler.
	Apply(scheduler *Scheduler)
}

var _ SchedulerOption = SchedulerOptionFunc(nil)

// SchedulerOptionFunc implements the SchedulerOption interface.
type SchedulerOptionFunc func(scheduler *Scheduler)

// Apply applies the option
func (f SchedulerOptionFunc) Apply(scheduler *Scheduler) {
	f(scheduler)
}

// WithConfig replaces the whole configuration. Options applied after it
// override single settings.
func WithConfig(cfg *config.Config) SchedulerOption {
	return SchedulerOptionFunc(func(scheduler *Scheduler) {
		copied := *cfg
		scheduler.config = &copied
	})
}

// WithLogger sets the scheduler logger
func WithLogger(logger log.Logger) SchedulerOption {
	return SchedulerOptionFunc(func(scheduler *Scheduler) {
		scheduler.logger = logger
	})
}

// WithShards sets the number of worker pool shards
func WithShards(shards int) SchedulerOption {
	return SchedulerOptionFunc(func(scheduler *Scheduler) {
		scheduler.config.Shards = shards
	})
}

// WithIdleTimeout sets how long idle workers are kept
func WithIdleTimeout(timeout time.Duration) SchedulerOption {
	return SchedulerOptionFunc(func(scheduler *Scheduler) {
		scheduler.config.IdleTimeout = timeout
	})
}

// WithMailboxKind selects the mailbox backend
func WithMailboxKind(kind config.MailboxKind) SchedulerOption {
	return SchedulerOptionFunc(func(scheduler *Scheduler) {
		scheduler.config.Mailbox = kind
	})
}

// WithTimerKind selects the delayed work backend
func WithTimerKind(kind config.TimerKind) SchedulerOption {
	return SchedulerOptionFunc(func(scheduler *Scheduler) {
		scheduler.config.Timer = kind
	})
}

// WithThroughput caps the events handled per mailbox turn
func WithThroughput(throughput int) SchedulerOption {
	return SchedulerOptionFunc(func(scheduler *Scheduler) {
		scheduler.config.Throughput = throughput
	})
}

// WithStats turns per mailbox statistics on or off
func WithStats(enabled bool) SchedulerOption {
	return SchedulerOptionFunc(func(scheduler *Scheduler) {
		scheduler.config.TrackStats = enabled
	})
}

// WithStopTimeout bounds how long Stop waits for the timer
func WithStopTimeout(timeout time.Duration) SchedulerOption {
	return SchedulerOptionFunc(func(scheduler *Scheduler) {
		scheduler.config.StopTimeout = timeout
	})
}

// WithMeterProvider records mailbox metrics on the given provider
func WithMeterProvider(provider otelmetric.MeterProvider) SchedulerOption {
	return SchedulerOptionFunc(func(scheduler *Scheduler) {
		scheduler.meterProvider = provider
	})
}

// Option is the interface that applies a Spawn option.
type Option interface {
	// Apply sets the Option value of a spawn configuration.
	Apply(spawn *spawnConfig)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(spawn *spawnConfig)

// Apply applies the option
func (f OptionFunc) Apply(spawn *spawnConfig) {
	f(spawn)
}

type spawnConfig struct {
	scheduler *Scheduler
	logger    log.Logger
}

// WithScheduler spawns the actor on the given scheduler instead of the default one
func WithScheduler(scheduler *Scheduler) Option {
	return OptionFunc(func(spawn *spawnConfig) {
		spawn.scheduler = scheduler
	})
}

// WithActorLogger sets the logger of the actor
func WithActorLogger(logger log.Logger) Option {
	return OptionFunc(func(spawn *spawnConfig) {
		spawn.logger = logger
	})
}
