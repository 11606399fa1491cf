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

package queue

import (
	"sync"
	"sync/atomic"
)

type node[T any] struct {
	value T
	next  atomic.Pointer[node[T]]
}

// Mpsc is a lock-free, unbounded multi-producer single-consumer FIFO queue.
//
// Any number of goroutines may Push concurrently. Pop, Peek-like checks via
// IsEmpty and draining must only ever happen from one consumer at a time.
// The actor mailboxes guarantee that with their idle/busy flag.
//
// reference: https://concurrencyfreaks.blogspot.com/2014/04/multi-producer-single-consumer-queue.html
type Mpsc[T any] struct {
	head   atomic.Pointer[node[T]] // consumer side
	tail   atomic.Pointer[node[T]] // producer side
	length atomic.Int64
	pool   sync.Pool
}

// NewMpsc creates an instance of Mpsc
func NewMpsc[T any]() *Mpsc[T] {
	stub := new(node[T])
	q := &Mpsc[T]{
		pool: sync.Pool{New: func() any { return new(node[T]) }},
	}
	q.head.Store(stub)
	q.tail.Store(stub)
	return q
}

// Push appends the value at the tail of the queue.
// It is safe to call from multiple goroutines.
func (q *Mpsc[T]) Push(value T) {
	item := q.pool.Get().(*node[T])
	item.value = value
	item.next.Store(nil)

	previous := q.tail.Swap(item)
	previous.next.Store(item)
	q.length.Add(1)
}

// Pop removes the value at the head of the queue.
// It returns false when the queue is empty. Single consumer only.
func (q *Mpsc[T]) Pop() (T, bool) {
	var zero T
	head := q.head.Load()
	next := head.next.Load()
	if next == nil {
		return zero, false
	}

	q.head.Store(next)
	value := next.value
	next.value = zero
	q.length.Add(-1)

	head.next.Store(nil)
	q.pool.Put(head)
	return value, true
}

// IsEmpty reports whether a Pop would currently fail.
// Producers that have not finished linking their node are not visible yet.
func (q *Mpsc[T]) IsEmpty() bool {
	return q.head.Load().next.Load() == nil
}

// Len returns a snapshot of the number of queued values
func (q *Mpsc[T]) Len() int64 {
	return q.length.Load()
}
