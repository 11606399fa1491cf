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
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/goleak"

	"github.com/tochemey/goactor/log"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// counter is the actor used across the tests
type counter struct {
	Actor

	count   int
	running atomic.Int32
	overlap atomic.Bool
}

func (c *counter) Increment() {
	c.Enqueue(c.increment)
}

func (c *counter) Add(n int) {
	Enqueue1(c, c.add, n)
}

// Count reads the counter from the actor
func (c *counter) Count() int {
	result := make(chan int, 1)
	c.Enqueue(func() { result <- c.count })
	return <-result
}

func (c *counter) increment() {
	c.add(1)
}

func (c *counter) add(n int) {
	if c.running.Inc() > 1 {
		c.overlap.Store(true)
	}
	c.count += n
	c.running.Dec()
}

func newTestScheduler(t *testing.T, opts ...SchedulerOption) *Scheduler {
	t.Helper()
	opts = append([]SchedulerOption{WithLogger(log.DiscardLogger)}, opts...)
	scheduler, err := NewScheduler(opts...)
	require.NoError(t, err)
	require.NoError(t, scheduler.Start(context.Background()))
	t.Cleanup(func() {
		require.NoError(t, scheduler.Stop(context.Background()))
	})
	return scheduler
}
