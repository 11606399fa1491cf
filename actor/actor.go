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
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/goactor/errors"
	"github.com/tochemey/goactor/log"
	"github.com/tochemey/goactor/refcount"
)

var liveActors = refcount.NewTracker("actor")

// LiveActors returns the number of actors spawned and not yet freed
func LiveActors() int64 {
	return liveActors.Count()
}

// Behavior is implemented by any type embedding Actor
type Behavior interface {
	refcount.Object
	base() *Actor
}

// AfterEventer is implemented by actors that need to run code after every
// event, including failed ones.
type AfterEventer interface {
	AfterEvent()
}

// ExceptionCatcher is implemented by actors that handle failed events
// themselves. The default logs the failure.
type ExceptionCatcher interface {
	CaughtException(err error)
}

// Finalizer is implemented by actors that release resources when freed
type Finalizer interface {
	Finalize()
}

// Actor is the base of every actor. It is embedded by value in the
// concrete type and attached with Spawn.
type Actor struct {
	refcount.RefCounted

	name      string
	mailbox   Mailbox
	scheduler *Scheduler
	logger    log.Logger
	spawned   atomic.Bool

	afterEventer AfterEventer
	catcher      ExceptionCatcher
	finalizer    Finalizer
}

func (a *Actor) base() *Actor {
	return a
}

// Spawn attaches a mailbox to behavior and retains it once. The caller owns
// that reference and must Release it when done.
func Spawn[T Behavior](behavior T, name string, opts ...Option) T {
	actor := behavior.base()
	if !actor.spawned.CompareAndSwap(false, true) {
		panic(fmt.Sprintf("actor %s is already spawned", actor.name))
	}

	spawn := new(spawnConfig)
	for _, opt := range opts {
		opt.Apply(spawn)
	}

	if spawn.scheduler == nil {
		spawn.scheduler = DefaultScheduler()
	}

	if name == "" {
		name = "actor-" + uuid.NewString()
	}

	if spawn.logger == nil {
		spawn.logger = spawn.scheduler.Logger()
	}

	actor.name = name
	actor.scheduler = spawn.scheduler
	actor.logger = spawn.logger

	var hooks any = behavior
	if hook, ok := hooks.(AfterEventer); ok {
		actor.afterEventer = hook
	}
	if hook, ok := hooks.(ExceptionCatcher); ok {
		actor.catcher = hook
	}
	if hook, ok := hooks.(Finalizer); ok {
		actor.finalizer = hook
	}

	actor.RefCounted.Init(name,
		refcount.WithFree(actor.free),
		refcount.WithTracker(liveActors),
		refcount.WithLogger(actor.logger))

	actor.mailbox = actor.scheduler.newMailbox(name, actor)
	actor.scheduler.register(actor)
	actor.Retain()

	actor.logger.Debugf("actor %s spawned", name)
	return behavior
}

// ActorName returns the actor name
func (a *Actor) ActorName() string {
	return a.name
}

// EventCount returns the number of events queued or scheduled and not yet
// completed. It is a snapshot.
func (a *Actor) EventCount() int {
	if a.mailbox == nil {
		return 0
	}
	return a.mailbox.EventCount()
}

// Scheduler returns the scheduler the actor runs on
func (a *Actor) Scheduler() *Scheduler {
	return a.scheduler
}

// Logger returns the actor logger
func (a *Actor) Logger() log.Logger {
	return a.logger
}

// Stats returns a snapshot of the mailbox statistics
func (a *Actor) Stats() Stats {
	return a.mustMailbox().Stats()
}

// LogStats logs the mailbox statistics
func (a *Actor) LogStats() {
	a.mustMailbox().LogStats()
}

// Enqueue queues fn to run on the actor
func (a *Actor) Enqueue(fn func()) {
	a.mustMailbox().Enqueue(func() error {
		fn()
		return nil
	})
}

// EnqueueFunc queues fn to run on the actor. A returned error is handled
// like a panic.
func (a *Actor) EnqueueFunc(fn func() error) {
	a.mustMailbox().Enqueue(fn)
}

// EnqueueAfter queues fn to run on the actor once delay elapsed. A negative
// delay is treated as zero.
func (a *Actor) EnqueueAfter(delay time.Duration, fn func()) {
	a.mustMailbox().EnqueueAfter(delay, func() error {
		fn()
		return nil
	})
}

// EnqueueFuncAfter is the error returning variant of EnqueueAfter
func (a *Actor) EnqueueFuncAfter(delay time.Duration, fn func() error) {
	a.mustMailbox().EnqueueAfter(delay, fn)
}

func (a *Actor) mustMailbox() Mailbox {
	if a.mailbox == nil {
		panic(gerrors.ErrActorNotSpawned)
	}
	return a.mailbox
}

func (a *Actor) afterEvent() error {
	if a.afterEventer != nil {
		a.afterEventer.AfterEvent()
	}
	return nil
}

func (a *Actor) caughtException(err error) {
	if a.catcher != nil {
		a.catcher.CaughtException(err)
		return
	}
	a.logger.Errorf("%s: caught exception: %v", a.name, err)
}

// free runs once the last reference is gone
func (a *Actor) free() {
	a.scheduler.unregister(a)
	if a.finalizer != nil {
		if err := invoke(func() error {
			a.finalizer.Finalize()
			return nil
		}); err != nil {
			a.logger.Errorf("%s: finalizer failed: %v", a.name, err)
		}
	}
	a.mailbox.Dispose()
	a.logger.Debugf("actor %s freed", a.name)
}
