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
	"errors"
	"runtime"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/tochemey/goactor/config"
	gerrors "github.com/tochemey/goactor/errors"
	"github.com/tochemey/goactor/refcount"
)

const waitFor = 5 * time.Second

type hooked struct {
	Actor

	afterEvents atomic.Int32
	panicAfter  atomic.Bool
	finalized   atomic.Int32
	exceptions  chan error

	// finalizeGate, when set, blocks Finalize until closed
	finalizeGate chan struct{}
}

func newHooked() *hooked {
	return &hooked{exceptions: make(chan error, 16)}
}

func (h *hooked) AfterEvent() {
	h.afterEvents.Inc()
	if h.panicAfter.Load() {
		panic("after event failed")
	}
}

func (h *hooked) CaughtException(err error) {
	h.exceptions <- err
}

func (h *hooked) Finalize() {
	if h.finalizeGate != nil {
		<-h.finalizeGate
	}
	h.finalized.Inc()
}

type recorder struct {
	Actor
	values []int
}

func (r *recorder) snapshot() []int {
	result := make(chan []int, 1)
	r.Enqueue(func() { result <- slices.Clone(r.values) })
	return <-result
}

func receive[T any](t *testing.T, ch chan T) T {
	t.Helper()
	select {
	case value := <-ch:
		return value
	case <-time.After(waitFor):
		require.FailNow(t, "timed out")
	}
	var zero T
	return zero
}

func TestActor(t *testing.T) {
	testCases := []struct {
		name string
		opts []SchedulerOption
	}{
		{name: "pooled mailbox"},
		{name: "pooled mailbox with shards", opts: []SchedulerOption{WithShards(4)}},
		{name: "pooled mailbox with throughput", opts: []SchedulerOption{WithThroughput(1)}},
		{name: "goroutine mailbox", opts: []SchedulerOption{WithMailboxKind(config.GoroutineMailbox)}},
		{name: "goroutine mailbox with throughput", opts: []SchedulerOption{WithMailboxKind(config.GoroutineMailbox), WithThroughput(3)}},
		{name: "quartz timer", opts: []SchedulerOption{WithTimerKind(config.QuartzTimer)}},
		{name: "without stats", opts: []SchedulerOption{WithStats(false)}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			scheduler := newTestScheduler(t, tc.opts...)
			trackStats := scheduler.Config().TrackStats

			t.Run("With concurrent increments", func(t *testing.T) {
				c := Spawn(new(counter), "counter", WithScheduler(scheduler))

				var eg errgroup.Group
				for range 8 {
					eg.Go(func() error {
						for range 125 {
							c.Increment()
						}
						return nil
					})
				}
				require.NoError(t, eg.Wait())

				require.Eventually(t, func() bool { return c.EventCount() == 0 }, waitFor, 5*time.Millisecond)
				assert.Equal(t, 1000, c.Count())
				assert.False(t, c.overlap.Load())

				if trackStats {
					require.Eventually(t, func() bool { return c.Stats().Handled >= 1001 }, waitFor, 5*time.Millisecond)
					assert.GreaterOrEqual(t, c.Stats().MaxEventCount, int32(1))
				}

				require.NoError(t, c.Release())
				require.Eventually(t, c.Destroyed, waitFor, 5*time.Millisecond)
			})

			t.Run("With submission order", func(t *testing.T) {
				r := Spawn(new(recorder), "recorder", WithScheduler(scheduler))
				expected := make([]int, 0, 100)
				for i := range 100 {
					expected = append(expected, i)
					Enqueue1(r, func(v int) { r.values = append(r.values, v) }, i)
				}

				assert.Equal(t, expected, r.snapshot())
				require.NoError(t, r.Release())
			})

			t.Run("With delayed event", func(t *testing.T) {
				r := Spawn(new(recorder), "delayed", WithScheduler(scheduler))
				start := time.Now()
				elapsed := make(chan time.Duration, 1)

				r.EnqueueAfter(50*time.Millisecond, func() {
					r.values = append(r.values, 2)
					elapsed <- time.Since(start)
				})
				assert.GreaterOrEqual(t, r.EventCount(), 1)
				r.Enqueue(func() { r.values = append(r.values, 1) })

				assert.GreaterOrEqual(t, receive(t, elapsed), 50*time.Millisecond)
				assert.Equal(t, []int{1, 2}, r.snapshot())
				require.Eventually(t, func() bool { return r.EventCount() == 0 }, waitFor, 5*time.Millisecond)
				require.NoError(t, r.Release())
			})

			t.Run("With negative delay", func(t *testing.T) {
				c := Spawn(new(counter), "negative", WithScheduler(scheduler))
				done := make(chan struct{})
				EnqueueAfter1(c, -time.Second, func(n int) {
					c.add(n)
					close(done)
				}, 3)
				receive(t, done)
				assert.Equal(t, 3, c.Count())
				require.NoError(t, c.Release())
			})

			t.Run("With failing events", func(t *testing.T) {
				errFailed := errors.New("failed")
				h := Spawn(newHooked(), "hooked", WithScheduler(scheduler))

				h.Enqueue(func() { panic("boom") })
				h.EnqueueFunc(func() error { return errFailed })
				done := make(chan struct{})
				h.Enqueue(func() { close(done) })
				receive(t, done)

				err := receive(t, h.exceptions)
				var panicErr *gerrors.PanicError
				require.ErrorAs(t, err, &panicErr)
				assert.Contains(t, err.Error(), "boom")
				assert.ErrorIs(t, receive(t, h.exceptions), errFailed)

				require.Eventually(t, func() bool { return h.afterEvents.Load() == 3 }, waitFor, 5*time.Millisecond)
				if trackStats {
					require.Eventually(t, func() bool { return h.Stats().Exceptions == 2 }, waitFor, 5*time.Millisecond)
				}
				require.NoError(t, h.Release())
				require.Eventually(t, func() bool { return h.finalized.Load() == 1 }, waitFor, 5*time.Millisecond)
			})

			t.Run("With failing after event", func(t *testing.T) {
				h := Spawn(newHooked(), "after", WithScheduler(scheduler))
				h.panicAfter.Store(true)
				h.Enqueue(func() {})

				err := receive(t, h.exceptions)
				var panicErr *gerrors.PanicError
				require.ErrorAs(t, err, &panicErr)
				assert.Contains(t, err.Error(), "after event failed")

				h.panicAfter.Store(false)
				require.NoError(t, h.Release())
				require.Eventually(t, h.Destroyed, waitFor, 5*time.Millisecond)
			})

			t.Run("With default exception handling", func(t *testing.T) {
				c := Spawn(new(counter), "default", WithScheduler(scheduler))
				c.Enqueue(func() { panic(errors.New("boom")) })
				c.Increment()
				assert.Equal(t, 1, c.Count())
				require.NoError(t, c.Release())
			})
		})
	}
}

func TestLifetime(t *testing.T) {
	scheduler := newTestScheduler(t)

	t.Run("With release", func(t *testing.T) {
		h := Spawn(newHooked(), "freed", WithScheduler(scheduler))
		assert.EqualValues(t, 1, h.RefCount())
		assert.Equal(t, 1, scheduler.ActorCount())
		assert.Positive(t, LiveActors())

		require.NoError(t, h.Release())
		assert.True(t, h.Destroyed())
		assert.EqualValues(t, 1, h.finalized.Load())
		assert.Zero(t, scheduler.ActorCount())
	})

	t.Run("With pending delayed event", func(t *testing.T) {
		h := Spawn(newHooked(), "pending", WithScheduler(scheduler))
		done := make(chan struct{})
		h.EnqueueAfter(50*time.Millisecond, func() { close(done) })

		require.NoError(t, h.Release())
		assert.False(t, h.Destroyed())
		assert.EqualValues(t, 1, h.RefCount())

		receive(t, done)
		require.Eventually(t, h.Destroyed, waitFor, 5*time.Millisecond)
		assert.EqualValues(t, 1, h.finalized.Load())
	})

	t.Run("With release from the actor itself", func(t *testing.T) {
		h := Spawn(newHooked(), "self", WithScheduler(scheduler))
		h.EnqueueFunc(h.Release)
		require.Eventually(t, h.Destroyed, waitFor, 5*time.Millisecond)
	})

	t.Run("With over release", func(t *testing.T) {
		h := Spawn(newHooked(), "over", WithScheduler(scheduler))
		require.NoError(t, h.Release())
		err := h.Release()
		require.Error(t, err)
		assert.ErrorIs(t, err, gerrors.ErrDoubleRelease)
		assert.True(t, h.OverReleased())
		assert.EqualValues(t, 1, h.finalized.Load())
	})

	t.Run("With retained handle", func(t *testing.T) {
		h := Spawn(newHooked(), "handle", WithScheduler(scheduler))
		handle := refcount.Retain(h)
		require.NoError(t, h.Release())
		assert.False(t, h.Destroyed())
		require.NoError(t, handle.Release())
		assert.True(t, h.Destroyed())
	})
}

func TestAsynchronize(t *testing.T) {
	scheduler := newTestScheduler(t)

	t.Run("With callback", func(t *testing.T) {
		c := Spawn(new(counter), "async", WithScheduler(scheduler))

		func() {
			gate := make(chan struct{})
			done := make(chan struct{})
			callback := Asynchronize1(c, func(n int) {
				<-gate
				c.add(n)
				close(done)
			})

			// the callback holds the actor on its own
			require.NoError(t, c.Release())
			assert.False(t, c.Destroyed())

			returned := make(chan struct{})
			go func() {
				callback(5)
				close(returned)
			}()

			// the callback returns while its body is still blocked
			receive(t, returned)
			close(gate)
			receive(t, done)

			assert.Equal(t, 5, c.Count())
			assert.False(t, c.Destroyed())
			runtime.KeepAlive(callback)
		}()

		require.Eventually(t, func() bool {
			runtime.GC()
			return c.Destroyed()
		}, waitFor, 10*time.Millisecond)
	})

	t.Run("With blocking finalizer", func(t *testing.T) {
		gate := make(chan struct{})
		blocked := newHooked()
		blocked.finalizeGate = gate
		blocked = Spawn(blocked, "blocked", WithScheduler(scheduler))
		other := Spawn(newHooked(), "other", WithScheduler(scheduler))

		func() {
			first := Asynchronize(blocked, func() {})
			second := Asynchronize(other, func() {})
			require.NoError(t, blocked.Release())
			require.NoError(t, other.Release())
			runtime.KeepAlive(first)
			runtime.KeepAlive(second)
		}()

		// a finalizer stuck on one actor must not hold back the others
		require.Eventually(t, func() bool {
			runtime.GC()
			return blocked.Destroyed() && other.finalized.Load() == 1
		}, waitFor, 10*time.Millisecond)
		assert.Zero(t, blocked.finalized.Load())

		close(gate)
		require.Eventually(t, func() bool { return blocked.finalized.Load() == 1 }, waitFor, 5*time.Millisecond)
	})

	t.Run("With arities", func(t *testing.T) {
		c := Spawn(new(counter), "arities", WithScheduler(scheduler))

		Asynchronize(c, c.increment)()
		Asynchronize2(c, func(a, b int) { c.add(a + b) })(1, 2)
		Asynchronize3(c, func(a, b, d int) { c.add(a + b + d) })(1, 2, 3)
		Enqueue2(c, func(a, b int) { c.add(a * b) }, 2, 5)
		Enqueue3(c, func(a, b, d int) { c.add(a - b - d) }, 10, 1, 1)
		EnqueueAfter2(c, time.Millisecond, func(a, b int) { c.add(a + b) }, 1, 1)

		require.Eventually(t, func() bool { return c.Count() == 1+3+6+10+8+2 }, waitFor, 5*time.Millisecond)
		assert.False(t, c.overlap.Load())
		require.NoError(t, c.Release())
	})
}

func TestSpawn(t *testing.T) {
	scheduler := newTestScheduler(t)

	t.Run("With generated name", func(t *testing.T) {
		c := Spawn(new(counter), "", WithScheduler(scheduler))
		assert.True(t, strings.HasPrefix(c.ActorName(), "actor-"))
		assert.Equal(t, c.ActorName(), c.String())
		assert.Same(t, scheduler, c.Scheduler())
		assert.NotNil(t, c.Logger())
		require.NoError(t, c.Release())
	})

	t.Run("With given name", func(t *testing.T) {
		c := Spawn(new(counter), "named", WithScheduler(scheduler), WithActorLogger(scheduler.Logger()))
		assert.Equal(t, "named", c.ActorName())
		require.NoError(t, c.Release())
	})

	t.Run("With actor spawned twice", func(t *testing.T) {
		c := Spawn(new(counter), "twice", WithScheduler(scheduler))
		assert.Panics(t, func() { Spawn(c, "twice", WithScheduler(scheduler)) })
		require.NoError(t, c.Release())
	})

	t.Run("With actor never spawned", func(t *testing.T) {
		c := new(counter)
		assert.Zero(t, c.EventCount())
		assert.PanicsWithValue(t, gerrors.ErrActorNotSpawned, func() { c.Increment() })
	})
}

func TestStats(t *testing.T) {
	t.Run("With stats enabled", func(t *testing.T) {
		scheduler := newTestScheduler(t)
		c := Spawn(new(counter), "stats", WithScheduler(scheduler))
		for range 10 {
			c.Increment()
		}
		require.Eventually(t, func() bool { return c.Stats().Handled == 10 }, waitFor, 5*time.Millisecond)

		stats := c.Stats()
		assert.Equal(t, "stats", stats.Name)
		assert.Zero(t, stats.Exceptions)
		assert.Positive(t, stats.Uptime)
		assert.Contains(t, stats.String(), "handled 10 events")
		assert.GreaterOrEqual(t, stats.Utilization(), 0.0)
		c.LogStats()
		scheduler.LogStats()
		assert.Len(t, scheduler.Stats(), 1)
		require.NoError(t, c.Release())
	})

	t.Run("With stats disabled", func(t *testing.T) {
		scheduler := newTestScheduler(t, WithStats(false))
		c := Spawn(new(counter), "nostats", WithScheduler(scheduler))
		c.Increment()
		assert.Equal(t, 1, c.Count())

		stats := c.Stats()
		assert.Zero(t, stats.Handled)
		assert.Zero(t, stats.Utilization())
		c.LogStats()
		require.NoError(t, c.Release())
	})
}
