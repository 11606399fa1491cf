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

/*
Package actor implements actors whose methods run one at a time on a shared
pool of goroutines, with lifetimes governed by explicit reference counts.

A concrete actor embeds Actor and is attached with Spawn. Public methods hand
their work to the mailbox and return immediately; the private implementation
runs later, serialized with every other call on the same actor:

	type Adder struct {
		actor.Actor
		total int
	}

	func (a *Adder) Add(n int) { actor.Enqueue1(a, a.add, n) }

	func (a *Adder) add(n int) { a.total += n }

	adder := actor.Spawn(new(Adder), "adder")
	adder.Add(2)

Only one enqueued call runs at any instant for a given actor, so the private
methods may touch the actor state without locks. Different actors run in
parallel. Calls made with Enqueue run in submission order; calls made with
EnqueueAfter only promise not to start before their delay and may overtake,
or be overtaken by, immediate calls.

Spawn performs the initial Retain. Every queued call holds its own
reference, and so does every callback built with Asynchronize, so an actor
is only freed after the last holder released it and its mailbox is empty.

The embedding type may implement AfterEventer, ExceptionCatcher and
Finalizer to customize how events are finished, how failed calls are
handled and what happens when the actor is freed.
*/
package actor
