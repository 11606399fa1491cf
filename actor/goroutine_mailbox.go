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
	"github.com/Workiva/go-datastructures/queue"
)

// goroutineMailbox runs every turn on a fresh goroutine and keeps its
// events in a locking ring queue.
type goroutineMailbox struct {
	*dispatcher
}

var _ Mailbox = (*goroutineMailbox)(nil)

const goroutineMailboxHint = 16

func newGoroutineMailbox(name string, owner owner, scheduler *Scheduler) *goroutineMailbox {
	run := func(turn func()) {
		go turn()
	}
	return &goroutineMailbox{
		dispatcher: newDispatcher(name, owner, scheduler, &lockingQueue{queue: queue.New(goroutineMailboxHint)}, run),
	}
}

type lockingQueue struct {
	queue *queue.Queue
}

func (q *lockingQueue) push(envelope *envelope) {
	// Put only fails on a disposed queue, which has no pending events left
	_ = q.queue.Put(envelope)
}

// pop never blocks: the mailbox is the only consumer, so a non empty queue
// stays non empty until it takes the item.
func (q *lockingQueue) pop() (*envelope, bool) {
	if q.queue.Empty() {
		return nil, false
	}
	items, err := q.queue.Get(1)
	if err != nil || len(items) == 0 {
		return nil, false
	}
	return items[0].(*envelope), true
}

func (q *lockingQueue) isEmpty() bool {
	return q.queue.Empty()
}

func (q *lockingQueue) len() int64 {
	return q.queue.Len()
}

func (q *lockingQueue) dispose() {
	q.queue.Dispose()
}
