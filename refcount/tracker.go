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
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/atomic"
)

var (
	trackers    = mapset.NewSet[*Tracker]()
	objectCount = atomic.NewInt64(0)
)

// Tracker counts the live instances of one category of reference counted
// objects. It exists for leak audits only and must never drive behavior.
type Tracker struct {
	name    string
	live    *atomic.Int64
	created *atomic.Int64
}

// NewTracker creates a Tracker and registers it process-wide
func NewTracker(name string) *Tracker {
	tracker := &Tracker{
		name:    name,
		live:    atomic.NewInt64(0),
		created: atomic.NewInt64(0),
	}
	trackers.Add(tracker)
	return tracker
}

// Name returns the tracked category
func (t *Tracker) Name() string {
	return t.name
}

// Count returns the number of live instances
func (t *Tracker) Count() int64 {
	return t.live.Load()
}

// Created returns the number of instances ever created
func (t *Tracker) Created() int64 {
	return t.created.Load()
}

func (t *Tracker) inc() {
	t.created.Inc()
	t.live.Inc()
	objectCount.Inc()
}

func (t *Tracker) dec() {
	t.live.Dec()
	objectCount.Dec()
}

// Trackers returns every registered tracker ordered by name
func Trackers() []*Tracker {
	list := trackers.ToSlice()
	sort.Slice(list, func(i, j int) bool {
		return list[i].name < list[j].name
	})
	return list
}

// ObjectCount returns the number of live tracked objects across all categories
func ObjectCount() int64 {
	return objectCount.Load()
}
