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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	gerrors "github.com/tochemey/goactor/errors"
	"github.com/tochemey/goactor/log"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTimers(t *testing.T) map[string]Timer {
	t.Helper()
	quartzTimer, err := NewQuartzTimer(log.DiscardLogger, time.Second)
	require.NoError(t, err)
	return map[string]Timer{
		"std":    NewStdTimer(),
		"quartz": quartzTimer,
	}
}

func TestTimers(t *testing.T) {
	for name, timer := range newTimers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.ErrorIs(t, timer.AfterFunc(time.Millisecond, func() {}), gerrors.ErrTimerStopped)

			require.NoError(t, timer.Start(ctx))
			require.NoError(t, timer.Start(ctx))

			const wait = 50 * time.Millisecond
			start := time.Now()
			fired := make(chan time.Time, 1)
			require.NoError(t, timer.AfterFunc(wait, func() { fired <- time.Now() }))
			assert.EqualValues(t, 1, timer.Pending())

			select {
			case at := <-fired:
				assert.GreaterOrEqual(t, at.Sub(start), wait)
			case <-time.After(5 * time.Second):
				t.Fatal("delayed task never fired")
			}
			require.Eventually(t, func() bool { return timer.Pending() == 0 }, time.Second, 5*time.Millisecond)

			// tasks that have not fired survive Stop and keep their delay
			const late = 80 * time.Millisecond
			scheduledAt := time.Now()
			survived := make(chan time.Time, 1)
			require.NoError(t, timer.AfterFunc(late, func() { survived <- time.Now() }))
			require.NoError(t, timer.Stop(ctx))
			assert.EqualValues(t, 1, timer.Pending())
			require.NoError(t, timer.Stop(ctx))
			require.ErrorIs(t, timer.AfterFunc(time.Millisecond, func() {}), gerrors.ErrTimerStopped)

			select {
			case at := <-survived:
				assert.GreaterOrEqual(t, at.Sub(scheduledAt), late)
			case <-time.After(5 * time.Second):
				t.Fatal("delayed task dropped by Stop")
			}
			require.Eventually(t, func() bool { return timer.Pending() == 0 }, time.Second, 5*time.Millisecond)
		})
	}
}
