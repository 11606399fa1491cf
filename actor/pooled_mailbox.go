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
	"github.com/tochemey/goactor/internal/queue"
)

// pooledMailbox drains on the worker pool of its scheduler. Turns of the
// same mailbox land on the same shard.
type pooledMailbox struct {
	*dispatcher
}

var _ Mailbox = (*pooledMailbox)(nil)

func newPooledMailbox(name string, owner owner, scheduler *Scheduler) *pooledMailbox {
	run := func(turn func()) {
		scheduler.submit(name, turn)
	}
	return &pooledMailbox{
		dispatcher: newDispatcher(name, owner, scheduler, &mpscQueue{queue: queue.NewMpsc[*envelope]()}, run),
	}
}

type mpscQueue struct {
	queue *queue.Mpsc[*envelope]
}

func (q *mpscQueue) push(envelope *envelope) {
	q.queue.Push(envelope)
}

func (q *mpscQueue) pop() (*envelope, bool) {
	return q.queue.Pop()
}

func (q *mpscQueue) isEmpty() bool {
	return q.queue.IsEmpty()
}

func (q *mpscQueue) len() int64 {
	return q.queue.Len()
}

func (q *mpscQueue) dispose() {}
