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

import "go.uber.org/atomic"

// Retained is an owning handle on an Object. It retains the object on
// creation and releases it at most once, no matter how often Release is
// called on the handle.
type Retained[T Object] struct {
	object   T
	released atomic.Bool
}

// Retain retains the given object and returns a handle owning that reference
func Retain[T Object](object T) *Retained[T] {
	object.Retain()
	return &Retained[T]{object: object}
}

// Get returns the underlying object
func (r *Retained[T]) Get() T {
	return r.object
}

// Release gives the reference back. Subsequent calls are no-ops.
func (r *Retained[T]) Release() error {
	if !r.released.CompareAndSwap(false, true) {
		return nil
	}
	return r.object.Release()
}

// Released reports whether the handle has given its reference back
func (r *Retained[T]) Released() bool {
	return r.released.Load()
}
