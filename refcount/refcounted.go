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

// Package refcount provides explicit, atomic reference counting for objects
// whose lifetime must not be left to lexical scope or to the garbage
// collector alone.
//
// A RefCounted starts with a count of zero; the creator performs the first
// Retain. Every holder pairs Retain with exactly one Release. When the count
// drops to zero the object's free function runs exactly once. Releasing an
// object whose count is already zero is reported as ErrDoubleRelease and
// never frees twice. Tearing an object down while holders remain is fatal.
package refcount

import (
	"fmt"

	"go.uber.org/atomic"

	gerrors "github.com/tochemey/goactor/errors"
	"github.com/tochemey/goactor/log"
)

// Object is implemented by anything whose lifetime is governed by a
// reference count.
type Object interface {
	// Retain adds a holder.
	Retain()
	// Release drops a holder.
	Release() error
}

// RefCounted is an embeddable reference counter.
// The zero value is usable; Init only attaches optional behavior.
type RefCounted struct {
	refs         atomic.Int32
	destroyed    atomic.Bool
	overReleased atomic.Bool

	name    string
	free    func()
	tracker *Tracker
	logger  log.Logger
	abort   func(err error)
}

// enforce compilation error
var _ Object = (*RefCounted)(nil)

// Init configures the counter. It must be called before the object is shared.
func (r *RefCounted) Init(name string, opts ...Option) {
	r.name = name
	for _, opt := range opts {
		opt.Apply(r)
	}
	if r.tracker != nil {
		r.tracker.inc()
	}
}

// Retain atomically adds a holder. The caller must already hold a valid
// reference, except for the creator's initial Retain.
func (r *RefCounted) Retain() {
	if r.destroyed.Load() {
		r.log().Warnf("%s retained after it was destroyed", r)
	}
	r.refs.Add(1)
}

// Release atomically drops a holder and frees the object when the last
// holder is gone. A release observed when the count is already zero or below
// returns a LifetimeError wrapping ErrDoubleRelease and leaves the object alone.
func (r *RefCounted) Release() error {
	for {
		current := r.refs.Load()
		if current <= 0 {
			r.overReleased.Store(true)
			err := gerrors.NewLifetimeError(r.String(), current, gerrors.ErrDoubleRelease)
			r.log().Warn(err)
			return err
		}

		if r.refs.CompareAndSwap(current, current-1) {
			if current == 1 {
				r.dispose()
			}
			return nil
		}
	}
}

// Destroy tears the object down without going through Release.
// Destroying an object that still has holders is a fatal error.
func (r *RefCounted) Destroy() {
	r.dispose()
}

// RefCount returns a snapshot of the number of holders
func (r *RefCounted) RefCount() int32 {
	return r.refs.Load()
}

// Destroyed reports whether the free function has run
func (r *RefCounted) Destroyed() bool {
	return r.destroyed.Load()
}

// OverReleased reports whether a double release has ever been observed
func (r *RefCounted) OverReleased() bool {
	return r.overReleased.Load()
}

// String returns the name given at Init or the object address
func (r *RefCounted) String() string {
	if r.name != "" {
		return r.name
	}
	return fmt.Sprintf("object@%p", r)
}

func (r *RefCounted) dispose() {
	if count := r.refs.Load(); count > 0 {
		r.fail(gerrors.NewLifetimeError(r.String(), count, gerrors.ErrDestroyedWhileReferenced))
		return
	}

	if !r.destroyed.CompareAndSwap(false, true) {
		r.log().Warn(gerrors.NewLifetimeError(r.String(), r.refs.Load(), gerrors.ErrAlreadyDestroyed))
		return
	}

	if r.tracker != nil {
		r.tracker.dec()
	}

	if r.free != nil {
		r.free()
	}
}

func (r *RefCounted) fail(err error) {
	if r.abort != nil {
		r.abort(err)
		return
	}
	r.log().Fatalf("FATAL: %v", err)
}

func (r *RefCounted) log() log.Logger {
	if r.logger != nil {
		return r.logger
	}
	return log.DefaultLogger
}
