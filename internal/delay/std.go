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

	"go.uber.org/atomic"

	gerrors "github.com/tochemey/goactor/errors"
)

// StdTimer runs delayed tasks with the runtime timers. Stopping it only
// refuses new tasks.
type StdTimer struct {
	mu      sync.Mutex
	timers  map[*time.Timer]struct{}
	started *atomic.Bool
	pending *atomic.Int64
}

// enforce compilation error
var _ Timer = (*StdTimer)(nil)

// NewStdTimer creates an instance of StdTimer
func NewStdTimer() *StdTimer {
	return &StdTimer{
		timers:  make(map[*time.Timer]struct{}),
		started: atomic.NewBool(false),
		pending: atomic.NewInt64(0),
	}
}

// Start implements Timer
func (x *StdTimer) Start(context.Context) error {
	x.started.Store(true)
	return nil
}

// AfterFunc implements Timer
func (x *StdTimer) AfterFunc(d time.Duration, task func()) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if !x.started.Load() {
		return gerrors.ErrTimerStopped
	}

	x.pending.Inc()
	var timer *time.Timer
	timer = time.AfterFunc(d, func() {
		x.mu.Lock()
		delete(x.timers, timer)
		x.mu.Unlock()
		x.pending.Dec()
		task()
	})
	x.timers[timer] = struct{}{}
	return nil
}

// Pending implements Timer
func (x *StdTimer) Pending() int64 {
	return x.pending.Load()
}

// Stop implements Timer. The runtime timers already scheduled keep running,
// so tasks that have not fired still run on time.
func (x *StdTimer) Stop(context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.started.Store(false)
	return nil
}
