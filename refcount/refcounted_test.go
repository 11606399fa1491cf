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

package refcount

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	gerrors "github.com/tochemey/goactor/errors"
	"github.com/tochemey/goactor/log"
)

type resource struct {
	RefCounted
	frees int
}

func newResource(name string, opts ...Option) *resource {
	res := new(resource)
	opts = append([]Option{WithFree(func() { res.frees++ }), WithLogger(log.DiscardLogger)}, opts...)
	res.Init(name, opts...)
	return res
}

func TestRefCounted(t *testing.T) {
	t.Run("With three retains and three releases", func(t *testing.T) {
		res := newResource("res")
		require.Zero(t, res.RefCount())

		res.Retain()
		res.Retain()
		res.Retain()
		require.EqualValues(t, 3, res.RefCount())

		require.NoError(t, res.Release())
		require.NoError(t, res.Release())
		require.False(t, res.Destroyed())
		require.Zero(t, res.frees)

		require.NoError(t, res.Release())
		require.True(t, res.Destroyed())
		require.Equal(t, 1, res.frees)
		require.False(t, res.OverReleased())

		err := res.Release()
		require.Error(t, err)
		assert.ErrorIs(t, err, gerrors.ErrDoubleRelease)
		assert.True(t, res.OverReleased())
		assert.Equal(t, 1, res.frees)
		assert.Zero(t, res.RefCount())

		var lifetimeErr *gerrors.LifetimeError
		require.ErrorAs(t, err, &lifetimeErr)
		assert.Equal(t, "res", lifetimeErr.Object)
		assert.Zero(t, lifetimeErr.Count)
	})
	t.Run("With release on a never retained object", func(t *testing.T) {
		res := newResource("")
		err := res.Release()
		require.ErrorIs(t, err, gerrors.ErrDoubleRelease)
		assert.False(t, res.Destroyed())
		assert.Contains(t, res.String(), "object@")
	})
	t.Run("With destroy while referenced", func(t *testing.T) {
		var aborted error
		res := newResource("busy", WithAbort(func(err error) { aborted = err }))
		res.Retain()

		res.Destroy()
		require.Error(t, aborted)
		assert.ErrorIs(t, aborted, gerrors.ErrDestroyedWhileReferenced)
		assert.False(t, res.Destroyed())
		assert.Zero(t, res.frees)

		require.NoError(t, res.Release())
		assert.True(t, res.Destroyed())
		assert.Equal(t, 1, res.frees)
	})
	t.Run("With destroy twice", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		res := newResource("twice", WithLogger(log.NewZap(log.WarningLevel, buffer)))
		res.Destroy()
		res.Destroy()
		assert.Equal(t, 1, res.frees)
		assert.Contains(t, buffer.String(), gerrors.ErrAlreadyDestroyed.Error())
	})
	t.Run("With zero value", func(t *testing.T) {
		var counted RefCounted
		counted.Retain()
		require.NoError(t, counted.Release())
		assert.True(t, counted.Destroyed())
	})
	t.Run("With concurrent retain and release", func(t *testing.T) {
		var mu sync.Mutex
		frees := 0
		res := new(resource)
		res.Init("concurrent", WithLogger(log.DiscardLogger), WithFree(func() {
			mu.Lock()
			frees++
			mu.Unlock()
		}))

		// the creator's reference keeps the object alive while workers churn
		res.Retain()

		group := new(errgroup.Group)
		for range 16 {
			group.Go(func() error {
				for range 1000 {
					res.Retain()
					if err := res.Release(); err != nil {
						return err
					}
				}
				return nil
			})
		}
		require.NoError(t, group.Wait())
		require.False(t, res.Destroyed())
		require.EqualValues(t, 1, res.RefCount())

		require.NoError(t, res.Release())
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 1, frees)
	})
	t.Run("With concurrent over release", func(t *testing.T) {
		res := newResource("racy")
		for range 8 {
			res.Retain()
		}

		var mu sync.Mutex
		var failures int
		var wg sync.WaitGroup
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := res.Release(); err != nil {
					mu.Lock()
					failures++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 8, failures)
		assert.Equal(t, 1, res.frees)
		assert.True(t, res.OverReleased())
	})
}

func TestRetained(t *testing.T) {
	res := newResource("handle")
	res.Retain()

	handle := Retain(res)
	require.Same(t, res, handle.Get())
	require.EqualValues(t, 2, res.RefCount())

	require.NoError(t, handle.Release())
	require.NoError(t, handle.Release())
	require.True(t, handle.Released())
	require.EqualValues(t, 1, res.RefCount())

	require.NoError(t, res.Release())
	require.True(t, res.Destroyed())
}

func TestTracker(t *testing.T) {
	tracker := NewTracker("test-resources")
	before := ObjectCount()

	first := newResource("first", WithTracker(tracker))
	second := newResource("second", WithTracker(tracker))
	first.Retain()
	second.Retain()

	assert.EqualValues(t, 2, tracker.Count())
	assert.EqualValues(t, 2, tracker.Created())
	assert.Equal(t, before+2, ObjectCount())
	assert.Contains(t, Trackers(), tracker)
	assert.Equal(t, "test-resources", tracker.Name())

	require.NoError(t, first.Release())
	assert.EqualValues(t, 1, tracker.Count())
	require.NoError(t, second.Release())
	assert.Zero(t, tracker.Count())
	assert.EqualValues(t, 2, tracker.Created())
	assert.Equal(t, before, ObjectCount())
}
