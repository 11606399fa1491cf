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
	"time"
)

// Enqueue1 queues fn(a1) to run on the actor. The argument is captured now.
func Enqueue1[A1 any](behavior Behavior, fn func(A1), a1 A1) {
	behavior.base().Enqueue(func() { fn(a1) })
}

// Enqueue2 queues fn(a1, a2) to run on the actor
func Enqueue2[A1, A2 any](behavior Behavior, fn func(A1, A2), a1 A1, a2 A2) {
	behavior.base().Enqueue(func() { fn(a1, a2) })
}

// Enqueue3 queues fn(a1, a2, a3) to run on the actor
func Enqueue3[A1, A2, A3 any](behavior Behavior, fn func(A1, A2, A3), a1 A1, a2 A2, a3 A3) {
	behavior.base().Enqueue(func() { fn(a1, a2, a3) })
}

// EnqueueAfter1 queues fn(a1) to run on the actor once delay elapsed
func EnqueueAfter1[A1 any](behavior Behavior, delay time.Duration, fn func(A1), a1 A1) {
	behavior.base().EnqueueAfter(delay, func() { fn(a1) })
}

// EnqueueAfter2 queues fn(a1, a2) to run on the actor once delay elapsed
func EnqueueAfter2[A1, A2 any](behavior Behavior, delay time.Duration, fn func(A1, A2), a1 A1, a2 A2) {
	behavior.base().EnqueueAfter(delay, func() { fn(a1, a2) })
}
