// Package timeline implements the server's single cooperative task
// queue: a monotonic min-heap keyed on deadline, drained by exactly
// one worker goroutine so that model mutations never need locking.
package timeline

import (
	"container/heap"
	"sync"
	"time"
)

// Task is a unit of work run to completion by the worker with no
// preemption. A task may reschedule itself via the Timeline it was
// given at construction.
type Task func()

// Timeline is a single-worker cooperative scheduler with two
// scheduling primitives: run-as-soon-as-possible and
// run-after-at-least-delay. It is safe for concurrent producers; only
// one task runs at a time.
type Timeline struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  taskHeap
	seq    uint64
	closed bool
}

// New creates a Timeline with an empty queue. Call Run in its own
// goroutine to start draining it.
func New() *Timeline {
	tl := &Timeline{}
	tl.cond = sync.NewCond(&tl.mu)
	return tl
}

// ScheduleNow enqueues task to run as soon as the worker is free.
func (tl *Timeline) ScheduleNow(task Task) {
	tl.schedule(task, time.Now())
}

// ScheduleIn enqueues task to run no earlier than delay from now.
func (tl *Timeline) ScheduleIn(delay time.Duration, task Task) {
	tl.schedule(task, time.Now().Add(delay))
}

func (tl *Timeline) schedule(task Task, deadline time.Time) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	if tl.closed {
		return
	}
	tl.seq++
	heap.Push(&tl.items, &scheduledTask{task: task, deadline: deadline, seq: tl.seq})
	tl.cond.Signal()
}

// Run drains the queue until Close is called, running one task to
// completion before considering the next. It blocks the calling
// goroutine and should be run in its own goroutine.
func (tl *Timeline) Run() {
	for {
		task, ok := tl.next()
		if !ok {
			return
		}
		task()
	}
}

// Close stops the worker after any in-flight task finishes and any
// already-ready tasks are allowed to drain; pending future-scheduled
// tasks are discarded.
func (tl *Timeline) Close() {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.closed = true
	tl.cond.Broadcast()
}

func (tl *Timeline) next() (Task, bool) {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	for {
		if tl.items.Len() == 0 {
			if tl.closed {
				return nil, false
			}
			tl.cond.Wait()
			continue
		}

		wait := time.Until(tl.items[0].deadline)
		if wait <= 0 {
			t := heap.Pop(&tl.items).(*scheduledTask)
			return t.task, true
		}

		if tl.closed {
			return nil, false
		}

		// Wait until either a new (possibly earlier) task arrives or
		// the current head becomes ready.
		timer := time.AfterFunc(wait, func() {
			tl.mu.Lock()
			tl.cond.Broadcast()
			tl.mu.Unlock()
		})
		tl.cond.Wait()
		timer.Stop()
	}
}

type scheduledTask struct {
	task     Task
	deadline time.Time
	seq      uint64
}

// taskHeap orders by deadline, breaking ties by arrival order so
// equally-timed tasks run first-scheduled-first-run.
type taskHeap []*scheduledTask

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	if h[i].deadline.Equal(h[j].deadline) {
		return h[i].seq < h[j].seq
	}
	return h[i].deadline.Before(h[j].deadline)
}
func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x interface{}) {
	*h = append(*h, x.(*scheduledTask))
}

func (h *taskHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
