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

// Package delay provides the timers used to run work no earlier than a given
// delay. Implementations only guarantee the lower bound; there is no upper
// bound on how late a task may run.
package delay

import (
	"context"
	"time"

	"go.uber.org/atomic"
)

// Timer schedules tasks to run after a minimum delay
type Timer interface {
	// Start prepares the timer to accept tasks
	Start(ctx context.Context) error
	// AfterFunc runs task once, no earlier than d from now
	AfterFunc(d time.Duration, task func()) error
	// Pending returns the number of tasks scheduled but not yet fired
	Pending() int64
	// Stop releases the timer resources and refuses new tasks. Tasks that
	// have not fired yet still run once their delay elapsed, on runtime timers.
	Stop(ctx context.Context) error
}

// delayed is a task waiting for its deadline
type delayed struct {
	deadline time.Time
	task     func()
}

// handOff moves a task that has not fired onto a runtime timer for the rest
// of its delay. pending is decremented when it fires.
func handOff(pending *atomic.Int64, d delayed) {
	time.AfterFunc(time.Until(d.deadline), func() {
		pending.Dec()
		d.task()
	})
}
