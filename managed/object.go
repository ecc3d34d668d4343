// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package managed

import (
	"errors"
	"fmt"
)

// Deletable is a native resource with an explicit lifetime.
type Deletable interface {
	// Delete frees the native resource.
	Delete() error

	// IsDeleted reports whether Delete has already run.
	IsDeleted() bool
}

// Factory builds natives from a description.
//
// CreateDefault is used the first time a native is needed. Resurrect is used
// after the previous native was deleted; it must build a behaviourally
// equivalent resource, though not necessarily a byte-identical one.
type Factory[D comparable, T Deletable] interface {
	CreateDefault(desc D) T
	Resurrect(desc D) T
}

// FactoryFunc adapts a single constructor to Factory. It is used for both
// creation and resurrection.
type FactoryFunc[D comparable, T Deletable] func(desc D) T

// CreateDefault implements Factory.
func (f FactoryFunc[D, T]) CreateDefault(desc D) T { return f(desc) }

// Resurrect implements Factory.
func (f FactoryFunc[D, T]) Resurrect(desc D) T { return f(desc) }

// State is the lifecycle state of an Object's native resource.
type State uint8

// Object states.
const (
	// StateAbsent means no native has been created yet.
	StateAbsent State = iota

	// StatePresent means a live native exists.
	StatePresent

	// StateDeleted means the native was freed; the description is still valid.
	StateDeleted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateAbsent:
		return "Absent"
	case StatePresent:
		return "Present"
	case StateDeleted:
		return "Deleted"
	default:
		return "Unknown"
	}
}

// ErrNilFactory is returned by NewChecked when no factory is given.
var ErrNilFactory = errors.New("managed: nil factory")

// Object is a resurrectable wrapper around a native resource of type T built
// from a description of type D.
//
// At most one native exists per Object at any time. Object is not safe for
// concurrent use; it is owned by exactly one paint or filter and touched by one
// traversal at a time.
type Object[D comparable, T Deletable] struct {
	desc    D
	factory Factory[D, T]

	native T
	state  State

	created       int
	resurrections int
}

// New creates an Object for desc. No native is created until Handle.
// New panics if factory is nil.
func New[D comparable, T Deletable](desc D, factory Factory[D, T]) *Object[D, T] {
	o, err := NewChecked(desc, factory)
	if err != nil {
		panic(err)
	}
	return o
}

// NewChecked is like New but returns an error instead of panicking.
func NewChecked[D comparable, T Deletable](desc D, factory Factory[D, T]) (*Object[D, T], error) {
	if factory == nil {
		return nil, ErrNilFactory
	}
	return &Object[D, T]{desc: desc, factory: factory}, nil
}

// Handle returns the live native, creating it on first use and resurrecting it
// after a deletion. A native deleted behind the Object's back (for example by
// a Collector) is treated like an explicit Delete.
func (o *Object[D, T]) Handle() T {
	if o.state == StatePresent && o.native.IsDeleted() {
		o.state = StateDeleted
	}
	switch o.state {
	case StateAbsent:
		o.native = o.factory.CreateDefault(o.desc)
		o.created++
	case StateDeleted:
		o.native = o.factory.Resurrect(o.desc)
		o.created++
		o.resurrections++
	}
	o.state = StatePresent
	return o.native
}

// Peek returns the current native without creating one. ok is false unless
// the Object is in StatePresent.
func (o *Object[D, T]) Peek() (native T, ok bool) {
	if o.state != StatePresent || o.native.IsDeleted() {
		var zero T
		return zero, false
	}
	return o.native, true
}

// Delete frees the native if one is live. Deleting an Object that has no live
// native is a no-op.
func (o *Object[D, T]) Delete() error {
	if o.state != StatePresent {
		return nil
	}
	o.state = StateDeleted
	native := o.native
	var zero T
	o.native = zero
	if native.IsDeleted() {
		return nil
	}
	if err := native.Delete(); err != nil {
		return fmt.Errorf("managed: delete native: %w", err)
	}
	return nil
}

// Release hands the live native to c instead of deleting it immediately.
// The Object moves to StateDeleted and will resurrect on the next Handle.
func (o *Object[D, T]) Release(c Collector) {
	if o.state != StatePresent {
		return
	}
	c.Collect(o.native)
	var zero T
	o.native = zero
	o.state = StateDeleted
}

// Key returns the description. It is the equality and interning key.
func (o *Object[D, T]) Key() D {
	return o.desc
}

// Equal reports whether both objects share the same description.
func (o *Object[D, T]) Equal(other *Object[D, T]) bool {
	if o == nil || other == nil {
		return o == other
	}
	return o.desc == other.desc
}

// State returns the lifecycle state of the native.
func (o *Object[D, T]) State() State {
	if o.state == StatePresent && o.native.IsDeleted() {
		return StateDeleted
	}
	return o.state
}

// Created returns how many natives this Object has built, resurrections
// included.
func (o *Object[D, T]) Created() int {
	return o.created
}

// Resurrections returns how many times a deleted native was rebuilt.
func (o *Object[D, T]) Resurrections() int {
	return o.resurrections
}

// String describes the object for debugging.
func (o *Object[D, T]) String() string {
	return fmt.Sprintf("managed.Object{%v, %s}", o.desc, o.State())
}
