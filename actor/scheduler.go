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
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/tochemey/goactor/config"
	gerrors "github.com/tochemey/goactor/errors"
	"github.com/tochemey/goactor/internal/delay"
	"github.com/tochemey/goactor/internal/metric"
	"github.com/tochemey/goactor/internal/workerpool"
	"github.com/tochemey/goactor/log"
)

var (
	defaultScheduler     *Scheduler
	defaultSchedulerOnce sync.Once
)

// Scheduler owns the execution resources shared by a set of actors: the
// worker pool their mailboxes drain on, the timer behind delayed calls, the
// logger and the metric instruments.
type Scheduler struct {
	mu sync.Mutex

	config        *config.Config
	logger        log.Logger
	meterProvider otelmetric.MeterProvider
	metric        *metric.MailboxMetric

	pool  *workerpool.WorkerPool
	timer delay.Timer

	actors  mapset.Set[*Actor]
	started *atomic.Bool
	stopped *atomic.Bool
}

// NewScheduler creates a Scheduler. It must be started before use; mailboxes
// of a scheduler that is not running fall back to plain goroutines.
func NewScheduler(opts ...SchedulerOption) (*Scheduler, error) {
	scheduler := &Scheduler{
		config:  config.Default(),
		actors:  mapset.NewSet[*Actor](),
		started: atomic.NewBool(false),
		stopped: atomic.NewBool(false),
	}

	for _, opt := range opts {
		opt.Apply(scheduler)
	}

	if err := scheduler.config.Validate(); err != nil {
		return nil, err
	}

	if scheduler.logger == nil {
		scheduler.logger = log.DefaultLogger
		if level := scheduler.config.Level(); level != log.InfoLevel {
			scheduler.logger = log.NewZap(level, os.Stdout)
		}
	}

	if scheduler.meterProvider != nil {
		mailboxMetric, err := metric.NewMailboxMetric(metric.Meter(scheduler.meterProvider))
		if err != nil {
			return nil, err
		}
		scheduler.metric = mailboxMetric
	}

	scheduler.pool = workerpool.New(
		workerpool.WithNumShards(scheduler.config.Shards),
		workerpool.WithIdleTimeout(scheduler.config.IdleTimeout))

	switch scheduler.config.Timer {
	case config.QuartzTimer:
		timer, err := delay.NewQuartzTimer(scheduler.logger, scheduler.config.StopTimeout)
		if err != nil {
			return nil, fmt.Errorf("failed to create quartz timer: %w", err)
		}
		scheduler.timer = timer
	default:
		scheduler.timer = delay.NewStdTimer()
	}

	return scheduler, nil
}

// DefaultScheduler returns the process-wide scheduler used by actors spawned
// without WithScheduler. It is started on first use and never stopped.
func DefaultScheduler() *Scheduler {
	defaultSchedulerOnce.Do(func() {
		scheduler, err := NewScheduler()
		if err != nil {
			log.DefaultLogger.Panic(err)
		}
		if err := scheduler.Start(context.Background()); err != nil {
			log.DefaultLogger.Panic(err)
		}
		defaultScheduler = scheduler
	})
	return defaultScheduler
}

// Start starts the worker pool and the timer
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped.Load() {
		return gerrors.ErrSchedulerStopped
	}

	if s.started.Load() {
		return nil
	}

	s.logger.Infof("starting actor scheduler (mailbox=%s, timer=%s, shards=%d)...",
		s.config.Mailbox, s.config.Timer, s.config.Shards)

	s.pool.Start()
	if err := s.timer.Start(ctx); err != nil {
		s.pool.Stop()
		return err
	}

	s.started.Store(true)
	s.logger.Info("actor scheduler started.")
	return nil
}

// Stop stops the worker pool and the timer. Events already queued still run,
// on plain goroutines; delayed events that have not fired still run once
// their delay elapsed.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started.Load() || s.stopped.Load() {
		return nil
	}

	s.logger.Info("stopping actor scheduler...")
	s.stopped.Store(true)
	s.pool.Stop()
	err := multierr.Combine(s.timer.Stop(ctx))
	if live := s.actors.Cardinality(); live > 0 {
		s.logger.Warnf("actor scheduler stopped with %d live actors", live)
	}

	s.logger.Info("actor scheduler stopped.")
	return err
}

// Running reports whether the scheduler is started and not stopped
func (s *Scheduler) Running() bool {
	return s.started.Load() && !s.stopped.Load()
}

// Logger returns the scheduler logger
func (s *Scheduler) Logger() log.Logger {
	return s.logger
}

// Config returns a copy of the scheduler configuration
func (s *Scheduler) Config() config.Config {
	return *s.config
}

// ActorCount returns the number of live actors spawned on this scheduler
func (s *Scheduler) ActorCount() int {
	return s.actors.Cardinality()
}

// Stats returns the statistics of every live actor ordered by name
func (s *Scheduler) Stats() []Stats {
	actors := s.actors.ToSlice()
	stats := make([]Stats, 0, len(actors))
	for _, actor := range actors {
		stats = append(stats, actor.Stats())
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Name < stats[j].Name
	})
	return stats
}

// LogStats logs the statistics of every live actor
func (s *Scheduler) LogStats() {
	for _, actor := range s.actors.ToSlice() {
		actor.LogStats()
	}
}

func (s *Scheduler) register(actor *Actor) {
	s.actors.Add(actor)
}

func (s *Scheduler) unregister(actor *Actor) {
	s.actors.Remove(actor)
}

// newMailbox creates the mailbox backend selected by the configuration
func (s *Scheduler) newMailbox(name string, owner owner) Mailbox {
	switch s.config.Mailbox {
	case config.GoroutineMailbox:
		return newGoroutineMailbox(name, owner, s)
	default:
		return newPooledMailbox(name, owner, s)
	}
}

// submit runs a mailbox turn on the worker pool, or on a fresh goroutine
// when the pool does not accept work.
func (s *Scheduler) submit(key string, turn func()) {
	if err := s.pool.Submit(key, turn); err != nil {
		s.logger.Debugf("mailbox %s runs outside the worker pool: %v", key, err)
		go turn()
	}
}
