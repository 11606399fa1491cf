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
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/goactor/errors"
	"github.com/tochemey/goactor/log"
)

const (
	idle int32 = iota
	busy
)

// Mailbox is the serial event queue of an actor. Events run one at a time,
// immediate events in submission order, on the executor of the backend.
type Mailbox interface {
	// Enqueue queues an event for immediate execution
	Enqueue(event func() error)
	// EnqueueAfter queues an event once the delay elapsed
	EnqueueAfter(delay time.Duration, event func() error)
	// EventCount returns the number of events queued or scheduled and not yet completed
	EventCount() int
	// Name returns the mailbox name
	Name() string
	// Stats returns a snapshot of the mailbox statistics
	Stats() Stats
	// LogStats logs the mailbox statistics
	LogStats()
	// Dispose releases the mailbox resources
	Dispose()
}

// owner is the capability a mailbox needs from its actor. The mailbox does
// not own the actor: it holds one reference per pending event only.
type owner interface {
	Retain()
	Release() error
	afterEvent() error
	caughtException(err error)
}

// envelope wraps a queued event
type envelope struct {
	event    func() error
	queuedAt time.Time
}

// eventQueue is the storage behind a mailbox. It must accept concurrent
// pushes and a single consumer.
type eventQueue interface {
	push(*envelope)
	pop() (*envelope, bool)
	isEmpty() bool
	len() int64
	dispose()
}

// dispatcher holds the logic shared by every mailbox backend: event
// accounting, the drain loop and failure routing.
type dispatcher struct {
	name       string
	owner      owner
	scheduler  *Scheduler
	logger     log.Logger
	queue      eventQueue
	run        func(turn func())
	throughput int

	processing *atomic.Int32
	events     *atomic.Int32
	stats      *mailboxStats
	attrs      otelmetric.MeasurementOption
}

func newDispatcher(name string, owner owner, scheduler *Scheduler, queue eventQueue, run func(turn func())) *dispatcher {
	d := &dispatcher{
		name:       name,
		owner:      owner,
		scheduler:  scheduler,
		logger:     scheduler.Logger(),
		queue:      queue,
		run:        run,
		throughput: scheduler.config.Throughput,
		processing: atomic.NewInt32(idle),
		events:     atomic.NewInt32(0),
		attrs:      otelmetric.WithAttributes(attribute.String("actor.name", name)),
	}

	if scheduler.config.TrackStats {
		d.stats = newMailboxStats()
	}
	return d
}

// Name returns the mailbox name
func (d *dispatcher) Name() string {
	return d.name
}

// EventCount returns the number of pending events
func (d *dispatcher) EventCount() int {
	return int(d.events.Load())
}

// Enqueue queues the event and makes sure a turn is scheduled
func (d *dispatcher) Enqueue(event func() error) {
	d.accept()
	d.deliver(event)
}

// EnqueueAfter queues the event once the delay elapsed. The event counts as
// pending from now on and keeps the actor alive until it ran.
func (d *dispatcher) EnqueueAfter(delay time.Duration, event func() error) {
	if delay <= 0 {
		d.Enqueue(event)
		return
	}

	d.accept()
	fire := func() { d.deliver(event) }
	if err := d.scheduler.timer.AfterFunc(delay, fire); err != nil {
		d.logger.Debugf("mailbox %s delays outside the scheduler timer: %v", d.name, err)
		time.AfterFunc(delay, fire)
	}
}

// Stats returns a snapshot of the mailbox statistics
func (d *dispatcher) Stats() Stats {
	stats := Stats{
		Name:    d.name,
		Pending: d.EventCount(),
		Queued:  d.queue.len(),
	}
	if d.stats != nil {
		d.stats.fill(&stats)
	}
	return stats
}

// LogStats logs the mailbox statistics
func (d *dispatcher) LogStats() {
	if d.stats == nil {
		d.logger.Infof("%s: stats are disabled", d.name)
		return
	}
	d.logger.Info(d.Stats().String())
}

// Dispose releases the queue
func (d *dispatcher) Dispose() {
	d.queue.dispose()
}

// accept accounts for a new event. The actor is retained until the event completed.
func (d *dispatcher) accept() {
	d.owner.Retain()
	count := d.events.Inc()
	if d.stats != nil {
		d.stats.observeEventCount(count)
	}
	if m := d.scheduler.metric; m != nil {
		m.EventCount().Add(context.Background(), 1, d.attrs)
	}
}

func (d *dispatcher) deliver(event func() error) {
	envelope := &envelope{event: event}
	if d.stats != nil || d.scheduler.metric != nil {
		envelope.queuedAt = time.Now()
	}
	d.queue.push(envelope)
	d.schedule()
}

// schedule starts a turn unless one is already running
func (d *dispatcher) schedule() {
	if d.processing.CompareAndSwap(idle, busy) {
		d.run(d.turn)
	}
}

// turn drains the queue. At most one turn runs at a time per mailbox.
func (d *dispatcher) turn() {
	handled := 0
	for {
		if envelope, ok := d.queue.pop(); ok {
			d.handle(envelope)
			handled++
			if d.throughput > 0 && handled >= d.throughput && !d.queue.isEmpty() {
				// yield the worker and keep the busy flag for the next turn
				d.run(d.turn)
				return
			}
			continue
		}

		d.processing.Store(idle)
		if !d.queue.isEmpty() && d.processing.CompareAndSwap(idle, busy) {
			continue
		}
		return
	}
}

// handle runs a single event then finishes it
func (d *dispatcher) handle(envelope *envelope) {
	start := time.Now()
	if d.stats != nil {
		d.stats.observeLatency(start.Sub(envelope.queuedAt))
	}

	if err := invoke(envelope.event); err != nil {
		d.caught(err)
	}

	if err := invoke(d.owner.afterEvent); err != nil {
		d.caught(err)
	}

	elapsed := time.Since(start)
	d.events.Dec()
	if d.stats != nil {
		d.stats.observeHandled(elapsed)
	}

	if m := d.scheduler.metric; m != nil {
		ctx := context.Background()
		m.ProcessedCount().Add(ctx, 1, d.attrs)
		m.EventCount().Add(ctx, -1, d.attrs)
		m.BusyDuration().Record(ctx, float64(elapsed)/float64(time.Millisecond), d.attrs)
		if !envelope.queuedAt.IsZero() {
			m.Latency().Record(ctx, float64(start.Sub(envelope.queuedAt))/float64(time.Millisecond), d.attrs)
		}
	}

	if err := d.owner.Release(); err != nil {
		d.logger.Error(err)
	}
}

// caught routes a failed event to the actor
func (d *dispatcher) caught(err error) {
	if d.stats != nil {
		d.stats.observeException()
	}
	if m := d.scheduler.metric; m != nil {
		m.ExceptionCount().Add(context.Background(), 1, d.attrs)
	}

	if herr := invoke(func() error {
		d.owner.caughtException(err)
		return nil
	}); herr != nil {
		d.logger.Errorf("%s: exception handler failed: %v (original: %v)", d.name, herr, err)
	}
}

// invoke runs fn and turns a panic into a PanicError
func invoke(fn func() error) (err error) {
	defer recovery(&err)
	return fn()
}

func recovery(err *error) {
	r := recover()
	if r == nil {
		return
	}

	pc, file, line, ok := runtime.Caller(2)
	if !ok {
		*err = gerrors.NewPanicError(fmt.Errorf("%v", r))
		return
	}

	name := "unknown"
	if fn := runtime.FuncForPC(pc); fn != nil {
		name = fn.Name()
	}

	switch cause := r.(type) {
	case error:
		*err = gerrors.NewPanicError(fmt.Errorf("%w at %s[%s:%d]", cause, name, file, line))
	default:
		*err = gerrors.NewPanicError(fmt.Errorf("%v at %s[%s:%d]", cause, name, file, line))
	}
}
