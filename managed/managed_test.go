// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package managed

import (
	"errors"
	"runtime"
	"testing"
	"time"
)

// fakeNative is a native resource that records its lifecycle.
type fakeNative struct {
	desc    blendDesc
	serial  int
	deleted bool
	deletes int
	failErr error
	panics  bool
}

func (n *fakeNative) Delete() error {
	n.deletes++
	n.deleted = true
	if n.panics {
		panic("native crashed")
	}
	return n.failErr
}

func (n *fakeNative) IsDeleted() bool { return n.deleted }

// blendDesc mimics a "blend color filter" description.
type blendDesc struct {
	color uint32
	mode  int
}

// countingFactory builds fakeNatives and counts calls per kind.
type countingFactory struct {
	defaults    int
	resurrected int
	serial      int
}

func (f *countingFactory) CreateDefault(d blendDesc) *fakeNative {
	f.defaults++
	f.serial++
	return &fakeNative{desc: d, serial: f.serial}
}

func (f *countingFactory) Resurrect(d blendDesc) *fakeNative {
	f.resurrected++
	f.serial++
	return &fakeNative{desc: d, serial: f.serial}
}

// =============================================================================
// Object Tests
// =============================================================================

func TestObjectLazyCreation(t *testing.T) {
	f := &countingFactory{}
	obj := New(blendDesc{color: 0xff0000ff, mode: 3}, Factory[blendDesc, *fakeNative](f))

	if obj.State() != StateAbsent {
		t.Fatalf("State() = %v, want Absent", obj.State())
	}
	if f.defaults != 0 {
		t.Fatal("native created before Handle")
	}
	if _, ok := obj.Peek(); ok {
		t.Error("Peek() before Handle should report no native")
	}

	n1 := obj.Handle()
	n2 := obj.Handle()
	if n1 != n2 {
		t.Error("Handle() created a second native while one is live")
	}
	if f.defaults != 1 || obj.Created() != 1 {
		t.Errorf("defaults = %d, Created() = %d, want 1, 1", f.defaults, obj.Created())
	}
	if obj.State() != StatePresent {
		t.Errorf("State() = %v, want Present", obj.State())
	}
}

func TestObjectResurrection(t *testing.T) {
	f := &countingFactory{}
	desc := blendDesc{color: 0x80112233, mode: 1}
	obj := New(desc, Factory[blendDesc, *fakeNative](f))

	first := obj.Handle()
	if err := obj.Delete(); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !first.IsDeleted() {
		t.Error("Delete did not free the native")
	}
	if obj.State() != StateDeleted {
		t.Errorf("State() = %v, want Deleted", obj.State())
	}

	second := obj.Handle()
	if second == first {
		t.Error("resurrected native should be a new resource")
	}
	if second.desc != first.desc {
		t.Errorf("resurrected desc = %v, want %v", second.desc, first.desc)
	}
	if f.resurrected != 1 || obj.Resurrections() != 1 {
		t.Errorf("resurrected = %d, Resurrections() = %d, want 1, 1", f.resurrected, obj.Resurrections())
	}

	// Delete, recreate, delete again must not fail.
	if err := obj.Delete(); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	third := obj.Handle()
	if third.desc != desc {
		t.Errorf("third native desc = %v, want %v", third.desc, desc)
	}
	if err := obj.Delete(); err != nil {
		t.Fatalf("third Delete: %v", err)
	}
}

func TestObjectDeleteIsIdempotent(t *testing.T) {
	f := &countingFactory{}
	obj := New(blendDesc{}, Factory[blendDesc, *fakeNative](f))

	if err := obj.Delete(); err != nil {
		t.Errorf("Delete before Handle: %v", err)
	}
	n := obj.Handle()
	_ = obj.Delete()
	_ = obj.Delete()
	if n.deletes != 1 {
		t.Errorf("native deleted %d times, want 1", n.deletes)
	}
}

func TestObjectExternallyDeletedNativeResurrects(t *testing.T) {
	f := &countingFactory{}
	obj := New(blendDesc{mode: 7}, Factory[blendDesc, *fakeNative](f))

	n := obj.Handle()
	_ = n.Delete() // e.g. flushed by a collector

	if obj.State() != StateDeleted {
		t.Errorf("State() = %v, want Deleted after external delete", obj.State())
	}
	if got := obj.Handle(); got == n || got.IsDeleted() {
		t.Error("Handle() returned the externally deleted native")
	}
	if err := obj.Delete(); err != nil {
		t.Errorf("Delete after resurrection: %v", err)
	}
}

func TestObjectDeleteError(t *testing.T) {
	boom := errors.New("boom")
	obj := New(blendDesc{}, FactoryFunc[blendDesc, *fakeNative](func(d blendDesc) *fakeNative {
		return &fakeNative{desc: d, failErr: boom}
	}))
	obj.Handle()
	if err := obj.Delete(); !errors.Is(err, boom) {
		t.Errorf("Delete() = %v, want wrapped boom", err)
	}
	if obj.State() != StateDeleted {
		t.Error("failed delete should still move the object to Deleted")
	}
}

func TestObjectEqualityByDescription(t *testing.T) {
	f := FactoryFunc[blendDesc, *fakeNative](func(d blendDesc) *fakeNative { return &fakeNative{desc: d} })
	a := New(blendDesc{color: 1, mode: 2}, f)
	b := New(blendDesc{color: 1, mode: 2}, f)
	c := New(blendDesc{color: 1, mode: 3}, f)

	if !a.Equal(b) {
		t.Error("structurally identical objects should be equal")
	}
	if a.Equal(c) {
		t.Error("different descriptions should not be equal")
	}
	if a.Key() != b.Key() {
		t.Error("Key() should match for equal objects")
	}
	var nilObj *Object[blendDesc, *fakeNative]
	if a.Equal(nilObj) || !nilObj.Equal(nil) {
		t.Error("nil handling in Equal is wrong")
	}
}

func TestNewCheckedNilFactory(t *testing.T) {
	if _, err := NewChecked[blendDesc, *fakeNative](blendDesc{}, nil); !errors.Is(err, ErrNilFactory) {
		t.Errorf("NewChecked(nil) = %v, want ErrNilFactory", err)
	}
}

func TestObjectRelease(t *testing.T) {
	var collected []Deletable
	c := CollectorFunc(func(res Deletable) { collected = append(collected, res) })

	obj := New(blendDesc{}, FactoryFunc[blendDesc, *fakeNative](func(d blendDesc) *fakeNative {
		return &fakeNative{desc: d}
	}))
	n := obj.Handle()
	obj.Release(c)

	if len(collected) != 1 || collected[0] != Deletable(n) {
		t.Fatalf("collected = %v, want [native]", collected)
	}
	if n.IsDeleted() {
		t.Error("Release must defer deletion to the collector")
	}
	if obj.Handle() == n {
		t.Error("Handle after Release should build a new native")
	}
}

// =============================================================================
// Box Tests
// =============================================================================

func TestBoxRefCounting(t *testing.T) {
	n := &fakeNative{}
	box := NewBox(n)
	box.Ref().Ref()

	for i := 0; i < 2; i++ {
		if err := box.Unref(); err != nil {
			t.Fatalf("Unref %d: %v", i, err)
		}
		if n.IsDeleted() {
			t.Fatalf("native deleted with %d refs left", box.RefCount())
		}
	}
	if err := box.Unref(); err != nil {
		t.Fatalf("last Unref: %v", err)
	}
	if !n.IsDeleted() {
		t.Error("native should be deleted after last Unref")
	}
	if err := box.Unref(); !errors.Is(err, ErrReleased) {
		t.Errorf("extra Unref = %v, want ErrReleased", err)
	}
}

// =============================================================================
// Queue Tests
// =============================================================================

func TestQueueDefersFlush(t *testing.T) {
	var sched ManualScheduler
	q := NewQueue(WithScheduler(&sched))

	a, b := &fakeNative{}, &fakeNative{}
	q.Collect(a)
	q.Collect(b)

	if a.IsDeleted() || b.IsDeleted() {
		t.Fatal("Collect must not delete synchronously")
	}
	if sched.Pending() != 1 {
		t.Fatalf("scheduled %d flushes, want exactly 1", sched.Pending())
	}
	if !q.Scheduled() {
		t.Error("Scheduled() = false with pending flush")
	}

	sched.RunPending()
	if !a.IsDeleted() || !b.IsDeleted() {
		t.Error("flush did not delete queued natives")
	}
	if q.Pending() != 0 || q.Scheduled() {
		t.Error("queue should be empty and disarmed after flush")
	}

	// A new Collect arms a new flush.
	q.Collect(&fakeNative{})
	if sched.Pending() != 1 {
		t.Errorf("second Collect scheduled %d flushes, want 1", sched.Pending())
	}
}

func TestQueueSkipsAlreadyDeleted(t *testing.T) {
	var sched ManualScheduler
	q := NewQueue(WithScheduler(&sched))

	n := &fakeNative{}
	q.Collect(n)
	_ = n.Delete() // explicitly released by ref counting first

	if err := q.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if n.deletes != 1 {
		t.Errorf("native deleted %d times, want 1", n.deletes)
	}
	if s := q.Stats(); s.Skipped != 1 || s.Deleted != 0 {
		t.Errorf("Stats = %+v, want 1 skipped, 0 deleted", s)
	}
}

func TestQueueDrainsOnError(t *testing.T) {
	const n = 6
	const bad = 2
	boom := errors.New("native 2 failed")

	var sched ManualScheduler
	q := NewQueue(WithScheduler(&sched))

	natives := make([]*fakeNative, n)
	for i := range natives {
		natives[i] = &fakeNative{}
		if i == bad {
			natives[i].failErr = boom
		}
		if i == 4 {
			natives[i].failErr = errors.New("later failure")
		}
		q.Collect(natives[i])
	}

	err := q.Flush()
	var fe *FlushError
	if !errors.As(err, &fe) {
		t.Fatalf("Flush() = %v, want *FlushError", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("Flush() error = %v, want first failure %v", err, boom)
	}
	if fe.Failures != 2 || fe.Deleted != n-2 {
		t.Errorf("Failures = %d, Deleted = %d, want 2, %d", fe.Failures, fe.Deleted, n-2)
	}
	if len(fe.Stack) == 0 {
		t.Error("FlushError should carry a stack trace")
	}
	for i, nat := range natives {
		if !nat.IsDeleted() {
			t.Errorf("native %d not deleted", i)
		}
	}
	if q.Pending() != 0 {
		t.Errorf("Pending() = %d after failed flush, want 0", q.Pending())
	}
}

func TestQueueRecoversPanics(t *testing.T) {
	q := NewQueue(WithScheduler(&ManualScheduler{}))
	crash := &fakeNative{panics: true}
	after := &fakeNative{}
	q.Collect(crash)
	q.Collect(after)

	if err := q.Flush(); err == nil {
		t.Fatal("Flush() should report the panicking delete")
	}
	if !after.IsDeleted() {
		t.Error("panic in one delete stopped the batch")
	}
}

func TestQueueScheduledFlushReportsErrors(t *testing.T) {
	var sched ManualScheduler
	var reported []error
	q := NewQueue(WithScheduler(&sched), WithErrorHandler(func(err error) {
		reported = append(reported, err)
	}))

	q.Collect(&fakeNative{failErr: errors.New("bad")})
	sched.RunPending()

	if len(reported) != 1 {
		t.Fatalf("error handler called %d times, want 1", len(reported))
	}
	if s := q.Stats(); s.Failed != 1 || s.Flushes != 1 {
		t.Errorf("Stats = %+v", s)
	}
}

func TestQueueTimerScheduler(t *testing.T) {
	q := NewQueue()
	n := &fakeNative{}
	done := make(chan struct{})
	q.Collect(signalingNative{n, done})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timer flush never ran")
	}
	if q.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", q.Pending())
	}
}

// signalingNative signals when it is deleted.
type signalingNative struct {
	*fakeNative
	done chan struct{}
}

func (p signalingNative) Delete() error {
	err := p.fakeNative.Delete()
	close(p.done)
	return err
}

func TestTrackCollectsUnreachableOwner(t *testing.T) {
	got := make(chan Deletable, 1)
	c := CollectorFunc(func(res Deletable) { got <- res })

	native := &fakeNative{}
	func() {
		owner := new([64]byte)
		Track(owner, native, c)
	}()

	deadline := time.After(5 * time.Second)
	for {
		runtime.GC()
		select {
		case res := <-got:
			if res != Deletable(native) {
				t.Errorf("collected %v, want tracked native", res)
			}
			return
		case <-deadline:
			t.Skip("owner not collected in time; GC timing is not guaranteed")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// =============================================================================
// Cache Tests
// =============================================================================

func TestCacheInternsByDescription(t *testing.T) {
	f := &countingFactory{}
	c := NewCache[blendDesc, *fakeNative](0, f)

	a := c.Get(blendDesc{color: 0xff000000, mode: 1})
	b := c.Get(blendDesc{color: 0xff000000, mode: 1})
	if a != b {
		t.Error("identical descriptions should intern to the same Object")
	}
	if c.Get(blendDesc{color: 0xff000000, mode: 2}) == a {
		t.Error("different descriptions should not share an Object")
	}
	if s := c.Stats(); s.Hits != 1 || s.Misses != 2 || s.Len != 2 {
		t.Errorf("Stats = %+v, want 1 hit, 2 misses, 2 entries", s)
	}
}

func TestCacheEvictionDeletesNatives(t *testing.T) {
	f := &countingFactory{}
	c := NewCache[blendDesc, *fakeNative](4, f)

	first := c.Get(blendDesc{mode: 0})
	native := first.Handle()
	for i := 1; i <= 4; i++ {
		c.Get(blendDesc{mode: i})
	}

	if c.Len() > 4 {
		t.Errorf("Len() = %d, want <= 4", c.Len())
	}
	if !native.IsDeleted() {
		t.Error("evicted object's native should be deleted")
	}
	if c.Stats().Evictions == 0 {
		t.Error("Evictions should be counted")
	}
	// The evicted object is still usable and resurrects.
	if first.Handle().IsDeleted() {
		t.Error("evicted object failed to resurrect")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d", c.Len())
	}
}
