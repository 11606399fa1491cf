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
	"sync"
	"time"
)

// Batcher collects items pushed from any goroutine and hands them to an
// actor in batches. The first push of a batch schedules process on the actor
// after latency; reaching capacity schedules it right away. process is
// expected to call Pop, which closes the batch: a flush scheduled for a batch
// that was already popped is skipped.
type Batcher[T any] struct {
	actor    *Actor
	process  func()
	latency  time.Duration
	capacity int

	mu         sync.Mutex
	items      []T
	generation uint64
	scheduled  bool
	immediate  bool
}

// NewBatcher creates a Batcher feeding process on the actor. A zero latency
// processes every batch as soon as possible and a zero capacity means no limit.
func NewBatcher[T any](behavior Behavior, process func(), latency time.Duration, capacity int) *Batcher[T] {
	return &Batcher[T]{
		actor:    behavior.base(),
		process:  process,
		latency:  latency,
		capacity: capacity,
	}
}

// Push adds an item to the current batch
func (b *Batcher[T]) Push(item T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items = append(b.items, item)
	full := b.capacity > 0 && len(b.items) >= b.capacity
	generation := b.generation

	if !b.scheduled {
		b.scheduled = true
		if full || b.latency <= 0 {
			b.immediate = true
			b.actor.Enqueue(func() { b.flush(generation) })
			return
		}
		b.actor.EnqueueAfter(b.latency, func() { b.flush(generation) })
		return
	}

	if full && !b.immediate {
		b.immediate = true
		b.actor.Enqueue(func() { b.flush(generation) })
	}
}

// Pop removes and returns the current batch and starts a new one
func (b *Batcher[T]) Pop() []T {
	b.mu.Lock()
	defer b.mu.Unlock()

	items := b.items
	b.items = nil
	b.generation++
	b.scheduled = false
	b.immediate = false
	return items
}

// Len returns the number of items waiting
func (b *Batcher[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// flush runs process unless the batch it was scheduled for is already gone
func (b *Batcher[T]) flush(generation uint64) {
	b.mu.Lock()
	stale := generation != b.generation
	b.mu.Unlock()

	if !stale {
		b.process()
	}
}
