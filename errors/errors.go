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

// Package errors holds the sentinel errors and error wrappers shared by the
// actor runtime.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrDoubleRelease is reported when an object is released while its
	// reference count is already zero or negative.
	ErrDoubleRelease = errors.New("object released too many times")

	// ErrDestroyedWhileReferenced is the fatal condition of tearing down an
	// object that still has holders.
	ErrDestroyedWhileReferenced = errors.New("object destroyed while still referenced")

	// ErrAlreadyDestroyed is returned when an object is torn down a second time.
	ErrAlreadyDestroyed = errors.New("object already destroyed")

	// ErrSchedulerStopped is returned when a stopped scheduler is started again.
	ErrSchedulerStopped = errors.New("scheduler has stopped")

	// ErrPoolStopped is returned when work is submitted to a stopped worker pool.
	ErrPoolStopped = errors.New("worker pool is not running")

	// ErrTimerStopped is returned when a delayed task is handed to a stopped timer.
	ErrTimerStopped = errors.New("timer is not running")

	// ErrInvalidConfig wraps every configuration violation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrActorNotSpawned is raised when work is enqueued on an actor that was never spawned.
	ErrActorNotSpawned = errors.New("actor has not been spawned")
)

// PanicError defines the panic error
// wrapping the underlying error
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError
func NewPanicError(err error) *PanicError {
	return &PanicError{err}
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

func (e *PanicError) Unwrap() error {
	return e.err
}

// LifetimeError describes a reference counting violation on a given object.
type LifetimeError struct {
	// Object identifies the offending object
	Object string
	// Count is the reference count observed when the violation was detected
	Count int32
	err   error
}

// enforce compilation error
var _ error = (*LifetimeError)(nil)

// NewLifetimeError creates an instance of LifetimeError
func NewLifetimeError(object string, count int32, err error) *LifetimeError {
	return &LifetimeError{Object: object, Count: count, err: err}
}

// Error implements the standard error interface
func (e *LifetimeError) Error() string {
	return fmt.Sprintf("%s: %v (refCount=%d)", e.Object, e.err, e.Count)
}

func (e *LifetimeError) Unwrap() error {
	return e.err
}
