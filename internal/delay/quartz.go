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

package delay

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reugn/go-quartz/job"
	quartzlogger "github.com/reugn/go-quartz/logger"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/goactor/errors"
	"github.com/tochemey/goactor/log"
)

// QuartzTimer runs delayed tasks as run-once jobs of a quartz scheduler.
type QuartzTimer struct {
	mu              sync.Mutex
	quartzScheduler quartz.Scheduler
	tasksMu         sync.Mutex
	tasks           map[string]delayed
	started         *atomic.Bool
	pending         *atomic.Int64
	logger          log.Logger
	stopTimeout     time.Duration
}

// enforce compilation error
var _ Timer = (*QuartzTimer)(nil)

// NewQuartzTimer creates an instance of QuartzTimer
func NewQuartzTimer(logger log.Logger, stopTimeout time.Duration) (*QuartzTimer, error) {
	// the quartz logger is switched off, failures surface through our own logger
	quartzScheduler, err := quartz.NewStdScheduler(quartz.WithLogger(quartzlogger.NewSimpleLogger(nil, quartzlogger.LevelOff)))
	if err != nil {
		return nil, err
	}

	return &QuartzTimer{
		quartzScheduler: quartzScheduler,
		tasks:           make(map[string]delayed),
		started:         atomic.NewBool(false),
		pending:         atomic.NewInt64(0),
		logger:          logger,
		stopTimeout:     stopTimeout,
	}, nil
}

// Start implements Timer
func (x *QuartzTimer) Start(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.started.Load() {
		return nil
	}

	x.quartzScheduler.Start(ctx)
	x.started.Store(x.quartzScheduler.IsStarted())
	x.logger.Debug("quartz timer started")
	return nil
}

// AfterFunc implements Timer
func (x *QuartzTimer) AfterFunc(d time.Duration, task func()) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if !x.started.Load() {
		return gerrors.ErrTimerStopped
	}

	key := uuid.NewString()
	fired := job.NewFunctionJob[bool](func(context.Context) (bool, error) {
		// a task handed off by Stop is no longer ours to run
		if pending, ok := x.take(key); ok {
			x.pending.Dec()
			pending.task()
		}
		return true, nil
	})

	x.tasksMu.Lock()
	x.tasks[key] = delayed{deadline: time.Now().Add(d), task: task}
	x.tasksMu.Unlock()

	x.pending.Inc()
	detail := quartz.NewJobDetail(fired, quartz.NewJobKey(key))
	if err := x.quartzScheduler.ScheduleJob(detail, quartz.NewRunOnceTrigger(d)); err != nil {
		x.take(key)
		x.pending.Dec()
		return err
	}
	return nil
}

func (x *QuartzTimer) take(key string) (delayed, bool) {
	x.tasksMu.Lock()
	defer x.tasksMu.Unlock()
	task, ok := x.tasks[key]
	if ok {
		delete(x.tasks, key)
	}
	return task, ok
}

// Pending implements Timer
func (x *QuartzTimer) Pending() int64 {
	return x.pending.Load()
}

// Stop implements Timer. Jobs that have not fired are handed to runtime
// timers for the rest of their delay.
func (x *QuartzTimer) Stop(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if !x.started.Load() {
		return nil
	}

	x.tasksMu.Lock()
	unfired := x.tasks
	x.tasks = make(map[string]delayed)
	x.tasksMu.Unlock()

	err := x.quartzScheduler.Clear()
	x.quartzScheduler.Stop()
	x.started.Store(x.quartzScheduler.IsStarted())

	for _, task := range unfired {
		handOff(x.pending, task)
	}

	ctx, cancel := context.WithTimeout(ctx, x.stopTimeout)
	defer cancel()
	x.quartzScheduler.Wait(ctx)

	x.logger.Debugf("quartz timer stopped, %d delayed tasks handed off", len(unfired))
	return err
}
