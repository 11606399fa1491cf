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
	"runtime"
)

// callbackHold is owned by an asynchronized callback. While the callback is
// reachable the hold keeps one reference on the actor; the reference is
// released once the garbage collector reclaims the hold.
type callbackHold struct {
	actor *Actor
}

func newCallbackHold(actor *Actor) *callbackHold {
	actor.Retain()
	hold := &callbackHold{actor: actor}
	runtime.AddCleanup(hold, handOffHold, actor)
	return hold
}

// handOffHold runs on the runtime cleanup goroutine, which is shared by the
// whole process. The release may free the actor and run its Finalizer, so it
// happens on a goroutine of its own.
func handOffHold(actor *Actor) {
	go releaseHold(actor)
}

func releaseHold(actor *Actor) {
	if err := actor.Release(); err != nil {
		actor.logger.Error(err)
	}
}

// Asynchronize wraps fn into a callback that, whenever invoked, queues fn
// on the actor instead of running it in place. The callback keeps the
// actor alive for as long as it is reachable.
func Asynchronize(behavior Behavior, fn func()) func() {
	hold := newCallbackHold(behavior.base())
	return func() {
		hold.actor.Enqueue(fn)
	}
}

// Asynchronize1 is Asynchronize for callbacks taking one argument
func Asynchronize1[A1 any](behavior Behavior, fn func(A1)) func(A1) {
	hold := newCallbackHold(behavior.base())
	return func(a1 A1) {
		hold.actor.Enqueue(func() { fn(a1) })
	}
}

// Asynchronize2 is Asynchronize for callbacks taking two arguments
func Asynchronize2[A1, A2 any](behavior Behavior, fn func(A1, A2)) func(A1, A2) {
	hold := newCallbackHold(behavior.base())
	return func(a1 A1, a2 A2) {
		hold.actor.Enqueue(func() { fn(a1, a2) })
	}
}

// Asynchronize3 is Asynchronize for callbacks taking three arguments
func Asynchronize3[A1, A2, A3 any](behavior Behavior, fn func(A1, A2, A3)) func(A1, A2, A3) {
	hold := newCallbackHold(behavior.base())
	return func(a1 A1, a2 A2, a3 A3) {
		hold.actor.Enqueue(func() { fn(a1, a2, a3) })
	}
}
