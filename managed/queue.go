// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package managed

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/gogpu/flute"
)

// Collector accepts natives whose owners are gone.
type Collector interface {
	Collect(res Deletable)
}

// CollectorFunc adapts a function to Collector. Tests use it to capture
// collected natives instead of deleting them.
type CollectorFunc func(res Deletable)

// Collect implements Collector.
func (f CollectorFunc) Collect(res Deletable) { f(res) }

// ErrorHandler receives errors from flushes that ran on the scheduler.
type ErrorHandler func(err error)

// FlushError reports the first failed delete of a flush.
type FlushError struct {
	// Err is the first delete error.
	Err error

	// Stack is the goroutine stack captured when Err occurred.
	Stack []byte

	// Failures is the number of natives that failed to delete.
	Failures int

	// Deleted is the number of natives deleted successfully.
	Deleted int
}

func (e *FlushError) Error() string {
	if e.Failures > 1 {
		return fmt.Sprintf("managed: collection flush: %v (and %d more failures)", e.Err, e.Failures-1)
	}
	return fmt.Sprintf("managed: collection flush: %v", e.Err)
}

func (e *FlushError) Unwrap() error {
	return e.Err
}

// QueueStats are cumulative Queue counters.
type QueueStats struct {
	Collected int // natives handed to Collect
	Deleted   int // natives deleted by a flush
	Skipped   int // natives already deleted when the flush reached them
	Failed    int // natives whose Delete returned an error or panicked
	Flushes   int // completed flushes
}

// QueueOption configures a Queue.
type QueueOption func(*Queue)

// WithScheduler sets the scheduler used to arm deferred flushes.
func WithScheduler(s Scheduler) QueueOption {
	return func(q *Queue) {
		q.scheduler = s
	}
}

// WithErrorHandler sets the handler for errors from scheduled flushes.
func WithErrorHandler(h ErrorHandler) QueueOption {
	return func(q *Queue) {
		q.onError = h
	}
}

// Queue is a deferred, batched collector.
//
// Collect appends a native and arms a single flush on the scheduler if none
// is pending. The flush deletes every queued native that is not already
// deleted and clears the queue even when deletes fail.
//
// Queue is safe for concurrent use.
type Queue struct {
	mu        sync.Mutex
	pending   []Deletable
	scheduled bool
	stats     QueueStats

	scheduler Scheduler
	onError   ErrorHandler
}

// NewQueue creates a collection queue. The default scheduler is a
// TimerScheduler and the default error handler logs at warn level.
func NewQueue(opts ...QueueOption) *Queue {
	q := &Queue{
		scheduler: NewTimerScheduler(),
		onError:   logFlushError,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func logFlushError(err error) {
	flute.Logger().Warn("managed: collection flush failed", "err", err)
}

// Collect queues res for deletion and arms a flush.
func (q *Queue) Collect(res Deletable) {
	if res == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, res)
	q.stats.Collected++
	arm := !q.scheduled
	q.scheduled = true
	q.mu.Unlock()

	if arm {
		q.scheduler.Schedule(q.scheduledFlush)
	}
}

func (q *Queue) scheduledFlush() {
	if err := q.Flush(); err != nil {
		q.onError(err)
	}
}

// Flush deletes every queued native now. Natives already deleted are
// skipped. All natives are processed even if some fail; the first failure is
// returned as a *FlushError once the queue is drained.
func (q *Queue) Flush() error {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.scheduled = false
	q.mu.Unlock()

	var (
		flushErr *FlushError
		deleted  int
		skipped  int
	)
	for _, res := range batch {
		if res.IsDeleted() {
			skipped++
			continue
		}
		if err := safeDelete(res); err != nil {
			if flushErr == nil {
				flushErr = &FlushError{Err: err, Stack: debug.Stack()}
			}
			flushErr.Failures++
			continue
		}
		deleted++
	}

	q.mu.Lock()
	q.stats.Deleted += deleted
	q.stats.Skipped += skipped
	q.stats.Flushes++
	if flushErr != nil {
		q.stats.Failed += flushErr.Failures
	}
	q.mu.Unlock()

	if len(batch) > 0 {
		flute.Logger().Debug("managed: collection flush",
			"queued", len(batch), "deleted", deleted, "skipped", skipped)
	}
	if flushErr != nil {
		flushErr.Deleted = deleted
		return flushErr
	}
	return nil
}

// safeDelete calls res.Delete and turns a panic into an error so one bad
// native cannot abort the rest of the batch.
func safeDelete(res Deletable) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("managed: delete panicked: %v", r)
		}
	}()
	return res.Delete()
}

// Pending returns the number of natives waiting for a flush.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Scheduled reports whether a flush is armed.
func (q *Queue) Scheduled() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.scheduled
}

// Stats returns cumulative counters.
func (q *Queue) Stats() QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stats
}
