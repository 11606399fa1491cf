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

package bench

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/flowchartsman/retry"
	"go.uber.org/atomic"

	"github.com/tochemey/goactor/actor"
	"github.com/tochemey/goactor/log"
)

const (
	receivingTimeout  = 30 * time.Second
	maxSettleAttempts = 100
)

// Benchmarker is the actor receiving the load
type Benchmarker struct {
	actor.Actor
	received *atomic.Int64
}

// Tell records one message
func (p *Benchmarker) Tell() {
	p.Enqueue(p.tell)
}

// Request records one message and answers through reply
func (p *Benchmarker) Request(reply func(int64)) {
	actor.Enqueue1(p, p.request, reply)
}

func (p *Benchmarker) tell() {
	p.received.Inc()
}

func (p *Benchmarker) request(reply func(int64)) {
	reply(p.received.Inc())
}

// Requester is the actor receiving the answers of the Benchmarker
type Requester struct {
	actor.Actor
	replies chan int64
}

func (r *Requester) receive(n int64) {
	r.replies <- n
}

// Benchmark defines a load testing engine
type Benchmark struct {
	// workersCount define the number of message senders
	workersCount int
	// messagesCount is the number of messages each worker sends
	messagesCount int
	options       []actor.SchedulerOption
	scheduler     *actor.Scheduler
	benchmarker   *Benchmarker
	sent          *atomic.Int64
}

// NewBenchmark creates an instance of Benchmark
func NewBenchmark(workersCount, messagesCount int, opts ...actor.SchedulerOption) *Benchmark {
	return &Benchmark{
		workersCount:  workersCount,
		messagesCount: messagesCount,
		options:       opts,
		sent:          atomic.NewInt64(0),
	}
}

// Start starts the Benchmark
func (b *Benchmark) Start(ctx context.Context) error {
	opts := append([]actor.SchedulerOption{actor.WithLogger(log.DiscardLogger)}, b.options...)
	scheduler, err := actor.NewScheduler(opts...)
	if err != nil {
		return err
	}

	if err := scheduler.Start(ctx); err != nil {
		return err
	}

	b.scheduler = scheduler
	b.benchmarker = actor.Spawn(&Benchmarker{received: atomic.NewInt64(0)}, "benchmarker", actor.WithScheduler(scheduler))
	return nil
}

// Stop stops the benchmark
func (b *Benchmark) Stop(ctx context.Context) error {
	if err := b.benchmarker.Release(); err != nil {
		return err
	}
	return b.scheduler.Stop(ctx)
}

// Received returns the number of messages the actor handled
func (b *Benchmark) Received() int64 {
	return b.benchmarker.received.Load()
}

// Stats returns the benchmarker mailbox statistics
func (b *Benchmark) Stats() actor.Stats {
	return b.benchmarker.Stats()
}

// BenchTell sends messages without waiting for an answer
func (b *Benchmark) BenchTell(ctx context.Context) error {
	wg := sync.WaitGroup{}
	for range b.workersCount {
		wg.Go(func() {
			for range b.messagesCount {
				b.benchmarker.Tell()
				b.sent.Inc()
			}
		})
	}
	wg.Wait()
	return b.settle(ctx)
}

// BenchRequest sends messages and waits for every answer
func (b *Benchmark) BenchRequest(ctx context.Context) error {
	wg := sync.WaitGroup{}
	for i := range b.workersCount {
		wg.Go(func() {
			requester := actor.Spawn(&Requester{replies: make(chan int64, 1)},
				fmt.Sprintf("requester-%d", i), actor.WithScheduler(b.scheduler))
			defer func() { _ = requester.Release() }()

			reply := actor.Asynchronize1(requester, requester.receive)
			replies := requester.replies
			for range b.messagesCount {
				b.benchmarker.Request(reply)
				b.sent.Inc()
				select {
				case <-replies:
				case <-ctx.Done():
					return
				}
			}
		})
	}
	wg.Wait()
	return b.settle(ctx)
}

// settle waits until the actor caught up with the senders
func (b *Benchmark) settle(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, receivingTimeout)
	defer cancel()

	retrier := retry.NewRetrier(maxSettleAttempts, time.Millisecond, 500*time.Millisecond)
	return retrier.RunContext(ctx, func(context.Context) error {
		if sent, received := b.sent.Load(), b.Received(); sent != received {
			return fmt.Errorf("send count and receive count does not match: %d != %d", sent, received)
		}
		return nil
	})
}
