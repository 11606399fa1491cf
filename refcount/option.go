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

import "github.com/tochemey/goactor/log"

// Option is the interface that applies a RefCounted option.
type Option interface {
	// Apply sets the Option value of a RefCounted.
	Apply(r *RefCounted)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(r *RefCounted)

// Apply applies the option
func (f OptionFunc) Apply(r *RefCounted) {
	f(r)
}

// WithFree sets the function run once when the last holder releases the object
func WithFree(free func()) Option {
	return OptionFunc(func(r *RefCounted) {
		r.free = free
	})
}

// WithTracker counts the object in the given instance tracker
func WithTracker(tracker *Tracker) Option {
	return OptionFunc(func(r *RefCounted) {
		r.tracker = tracker
	})
}

// WithLogger sets the logger used to report lifetime violations
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(r *RefCounted) {
		r.logger = logger
	})
}

// WithAbort replaces the fatal handler invoked when the object is torn down
// while still referenced. The default logs at fatal level and exits.
func WithAbort(abort func(err error)) Option {
	return OptionFunc(func(r *RefCounted) {
		r.abort = abort
	})
}
