// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package managed

import (
	"sync"
	"time"
)

// Scheduler runs a task later, after the current unit of work finishes.
// Schedule must not run fn synchronously.
type Scheduler interface {
	Schedule(fn func())
}

// TimerScheduler runs tasks on a zero-delay timer. Tasks run on their own
// goroutine, so whatever they touch must be safe for concurrent use; Queue is.
type TimerScheduler struct{}

// NewTimerScheduler returns a scheduler backed by time.AfterFunc.
func NewTimerScheduler() TimerScheduler {
	return TimerScheduler{}
}

// Schedule implements Scheduler.
func (TimerScheduler) Schedule(fn func()) {
	time.AfterFunc(0, fn)
}

// ManualScheduler holds tasks until the host runs them, typically between
// frames on the rendering goroutine. It models a single-threaded event loop
// and is the scheduler used in tests.
type ManualScheduler struct {
	mu    sync.Mutex
	tasks []func()
}

// Schedule implements Scheduler.
func (s *ManualScheduler) Schedule(fn func()) {
	s.mu.Lock()
	s.tasks = append(s.tasks, fn)
	s.mu.Unlock()
}

// Pending returns the number of queued tasks.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// RunPending runs the tasks queued so far and returns how many ran. Tasks
// scheduled while running wait for the next call.
func (s *ManualScheduler) RunPending() int {
	s.mu.Lock()
	tasks := s.tasks
	s.tasks = nil
	s.mu.Unlock()

	for _, fn := range tasks {
		fn()
	}
	return len(tasks)
}
