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
	"fmt"
	"time"

	"go.uber.org/atomic"
)

// Stats is a snapshot of the statistics of a mailbox
type Stats struct {
	// Name is the actor name
	Name string
	// Pending is the number of events queued or scheduled and not yet completed
	Pending int
	// Queued is the number of events sitting in the queue right now
	Queued int64
	// Handled is the number of completed events
	Handled int64
	// Exceptions is the number of events that failed
	Exceptions int64
	// MaxEventCount is the highest pending count observed
	MaxEventCount int32
	// MaxLatency is the longest time an event waited in the queue
	MaxLatency time.Duration
	// MaxBusy is the longest time a single event took
	MaxBusy time.Duration
	// Busy is the total time spent running events
	Busy time.Duration
	// Uptime is the time since the mailbox was created
	Uptime time.Duration
}

// Utilization returns the share of the uptime spent running events
func (s Stats) Utilization() float64 {
	if s.Uptime <= 0 {
		return 0
	}
	return float64(s.Busy) / float64(s.Uptime)
}

// String returns a one line summary
func (s Stats) String() string {
	return fmt.Sprintf("%s: handled %d events (%d failed); max queue depth %d; max latency %s; max busy %s; busy %s (%.1f%%)",
		s.Name, s.Handled, s.Exceptions, s.MaxEventCount, s.MaxLatency, s.MaxBusy, s.Busy, s.Utilization()*100)
}

type mailboxStats struct {
	createdAt     time.Time
	handled       *atomic.Int64
	exceptions    *atomic.Int64
	maxEventCount *atomic.Int32
	maxLatency    *atomic.Duration
	maxBusy       *atomic.Duration
	busy          *atomic.Duration
}

func newMailboxStats() *mailboxStats {
	return &mailboxStats{
		createdAt:     time.Now(),
		handled:       atomic.NewInt64(0),
		exceptions:    atomic.NewInt64(0),
		maxEventCount: atomic.NewInt32(0),
		maxLatency:    atomic.NewDuration(0),
		maxBusy:       atomic.NewDuration(0),
		busy:          atomic.NewDuration(0),
	}
}

func (s *mailboxStats) observeEventCount(count int32) {
	for {
		current := s.maxEventCount.Load()
		if count <= current || s.maxEventCount.CompareAndSwap(current, count) {
			return
		}
	}
}

func (s *mailboxStats) observeLatency(latency time.Duration) {
	storeMax(s.maxLatency, latency)
}

func (s *mailboxStats) observeHandled(elapsed time.Duration) {
	s.handled.Inc()
	s.busy.Add(elapsed)
	storeMax(s.maxBusy, elapsed)
}

func (s *mailboxStats) observeException() {
	s.exceptions.Inc()
}

func (s *mailboxStats) fill(stats *Stats) {
	stats.Handled = s.handled.Load()
	stats.Exceptions = s.exceptions.Load()
	stats.MaxEventCount = s.maxEventCount.Load()
	stats.MaxLatency = s.maxLatency.Load()
	stats.MaxBusy = s.maxBusy.Load()
	stats.Busy = s.busy.Load()
	stats.Uptime = time.Since(s.createdAt)
}

func storeMax(value *atomic.Duration, candidate time.Duration) {
	for {
		current := value.Load()
		if candidate <= current || value.CompareAndSwap(current, candidate) {
			return
		}
	}
}
