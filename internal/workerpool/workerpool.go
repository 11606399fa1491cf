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

// Package workerpool provides the sharded goroutine pool the actor mailboxes
// run on. Work is handed to idle workers when possible and new workers are
// spawned on demand; workers that stay idle longer than the idle timeout
// are reaped.
package workerpool

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/zeebo/xxh3"

	gerrors "github.com/tochemey/goactor/errors"
)

const (
	// Maximum number of shards supported by the worker pool
	maxShards = 128

	// Worker states
	workerStateIdle    int32 = 0
	workerStateWorking int32 = 1
	workerStateClosed  int32 = 2
)

// WorkerPool manages a pool of workers across multiple shards.
// Submissions carrying the same key always land on the same shard.
type WorkerPool struct {
	idleTimeout time.Duration
	numShards   int
	shards      []*poolShard
	mutex       sync.RWMutex
	started     atomic.Bool
	stopped     atomic.Bool
	spawned     atomic.Int64
	executed    atomic.Uint64
	stopCh      chan struct{}
	reaperDone  chan struct{}
}

// worker represents a goroutine that executes submitted tasks.
type worker struct {
	tasks     chan func()
	shard     *poolShard
	lastUsed  atomic.Int64
	isDeleted atomic.Bool
	state     atomic.Int32
}

// poolShard holds a subset of the idle workers to reduce contention.
type poolShard struct {
	pool    *WorkerPool
	idle    []*worker
	mu      sync.Mutex
	stopped atomic.Bool
}

// New creates a new worker pool with the given options.
func New(opts ...Option) *WorkerPool {
	pool := &WorkerPool{
		idleTimeout: time.Second,
		numShards:   1,
	}

	for _, opt := range opts {
		opt.Apply(pool)
	}

	if pool.numShards < 1 {
		pool.numShards = 1
	} else if pool.numShards > maxShards {
		pool.numShards = maxShards
	}

	if pool.idleTimeout <= 0 {
		pool.idleTimeout = time.Second
	}

	return pool
}

// Start initializes the shards and the idle worker reaper.
// It's safe to call Start multiple times.
func (pool *WorkerPool) Start() {
	pool.mutex.Lock()
	defer pool.mutex.Unlock()
	if pool.started.Load() {
		return
	}

	pool.shards = make([]*poolShard, pool.numShards)
	for i := range pool.shards {
		pool.shards[i] = &poolShard{
			pool: pool,
			idle: make([]*worker, 0, 64),
		}
	}

	pool.stopCh = make(chan struct{})
	pool.reaperDone = make(chan struct{})
	pool.started.Store(true)
	go pool.reap()
}

// Stop closes every idle worker and refuses further submissions.
// Busy workers exit once their current task returns.
func (pool *WorkerPool) Stop() {
	pool.mutex.Lock()
	if !pool.started.Load() || pool.stopped.Swap(true) {
		pool.mutex.Unlock()
		return
	}

	for _, shard := range pool.shards {
		shard.mu.Lock()
		shard.stopped.Store(true)
		for i, w := range shard.idle {
			w.close()
			shard.idle[i] = nil
		}
		shard.idle = shard.idle[:0]
		shard.mu.Unlock()
	}

	close(pool.stopCh)
	pool.mutex.Unlock()
	<-pool.reaperDone
}

// Submit hands the task to a worker of the shard owning key.
// It returns ErrPoolStopped when the pool is not running.
func (pool *WorkerPool) Submit(key string, task func()) error {
	pool.mutex.RLock()
	if !pool.started.Load() || pool.stopped.Load() {
		pool.mutex.RUnlock()
		return gerrors.ErrPoolStopped
	}

	shard := pool.shards[xxh3.HashString(key)%uint64(len(pool.shards))]
	pool.mutex.RUnlock()

	if !shard.dispatch(task) {
		return gerrors.ErrPoolStopped
	}
	return nil
}

// Workers returns the number of live worker goroutines.
func (pool *WorkerPool) Workers() int {
	return int(pool.spawned.Load())
}

// Executed returns the number of tasks run since the pool started.
func (pool *WorkerPool) Executed() uint64 {
	return pool.executed.Load()
}

// Running reports whether the pool accepts submissions.
func (pool *WorkerPool) Running() bool {
	return pool.started.Load() && !pool.stopped.Load()
}

func (w *worker) run() {
	shard := w.shard
	pool := shard.pool
	pool.spawned.Add(1)
	defer pool.spawned.Add(-1)

	for task := range w.tasks {
		task()
		pool.executed.Add(1)

		w.state.Store(workerStateIdle)
		if !shard.park(w) {
			return
		}
	}
}

func (w *worker) close() {
	if !w.isDeleted.Swap(true) {
		w.state.Store(workerStateClosed)
		close(w.tasks)
	}
}

// dispatch gives the task to the most recently parked worker or spawns one.
func (shard *poolShard) dispatch(task func()) bool {
	shard.mu.Lock()
	if shard.stopped.Load() {
		shard.mu.Unlock()
		return false
	}

	for n := len(shard.idle); n > 0; n = len(shard.idle) {
		w := shard.idle[n-1]
		shard.idle[n-1] = nil
		shard.idle = shard.idle[:n-1]
		if !w.isDeleted.Load() && w.state.CompareAndSwap(workerStateIdle, workerStateWorking) {
			shard.mu.Unlock()
			w.tasks <- task
			return true
		}
	}
	shard.mu.Unlock()

	w := &worker{
		tasks: make(chan func(), 1),
		shard: shard,
	}
	w.state.Store(workerStateWorking)
	w.tasks <- task
	go w.run()
	return true
}

// park makes the worker available again. It returns false when the shard is
// stopped, in which case the worker must exit.
func (shard *poolShard) park(w *worker) bool {
	w.lastUsed.Store(time.Now().UnixNano())

	shard.mu.Lock()
	defer shard.mu.Unlock()
	if shard.stopped.Load() {
		w.isDeleted.Store(true)
		w.state.Store(workerStateClosed)
		return false
	}

	shard.idle = append(shard.idle, w)
	return true
}

// reap periodically closes workers idle for longer than idleTimeout.
// Parked workers are appended in time order, so the stale ones sit at the front.
func (pool *WorkerPool) reap() {
	defer close(pool.reaperDone)
	ticker := time.NewTicker(pool.idleTimeout)
	defer ticker.Stop()

	for {
		select {
		case <-pool.stopCh:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-pool.idleTimeout).UnixNano()
			for _, shard := range pool.shards {
				shard.evictBefore(cutoff)
			}
		}
	}
}

func (shard *poolShard) evictBefore(cutoff int64) {
	shard.mu.Lock()
	if shard.stopped.Load() {
		shard.mu.Unlock()
		return
	}

	stale := 0
	for stale < len(shard.idle) && shard.idle[stale].lastUsed.Load() < cutoff {
		stale++
	}

	if stale == 0 {
		shard.mu.Unlock()
		return
	}

	evicted := make([]*worker, stale)
	copy(evicted, shard.idle[:stale])
	remaining := copy(shard.idle, shard.idle[stale:])
	for i := remaining; i < len(shard.idle); i++ {
		shard.idle[i] = nil
	}
	shard.idle = shard.idle[:remaining]
	shard.mu.Unlock()

	for _, w := range evicted {
		if w.state.CompareAndSwap(workerStateIdle, workerStateClosed) {
			w.close()
		}
	}
}
