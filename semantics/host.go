// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package semantics

import (
	"fmt"
	"slices"
)

// Host is the platform element tree the semantics tree is mirrored onto.
// Calls arrive in an order that is valid to apply immediately.
type Host interface {
	// Create makes the element for a new object.
	Create(id int)

	// Update refreshes the attributes of id marked in changed.
	Update(o *Object, changed Dirty)

	// Insert places child under parent before the sibling before, or last
	// when hasBefore is false. A child already under parent is moved.
	Insert(parent, child, before int, hasBefore bool)

	// Detach takes child out of parent without destroying it.
	Detach(parent, child int)

	// Destroy removes the element of an object that left the tree.
	Destroy(id int)
}

// RecordingHost logs every host call and maintains the resulting element
// tree so tests can inspect both.
type RecordingHost struct {
	ops      []string
	children map[int][]int
}

var _ Host = (*RecordingHost)(nil)

// NewRecordingHost returns an empty recording host.
func NewRecordingHost() *RecordingHost {
	return &RecordingHost{children: make(map[int][]int)}
}

// Create implements Host.
func (h *RecordingHost) Create(id int) {
	h.log("create %d", id)
}

// Update implements Host.
func (h *RecordingHost) Update(o *Object, changed Dirty) {
	h.log("update %d %v", o.ID(), changed)
}

// Insert implements Host.
func (h *RecordingHost) Insert(parent, child, before int, hasBefore bool) {
	kids := h.children[parent]
	if i := slices.Index(kids, child); i >= 0 {
		kids = slices.Delete(kids, i, i+1)
	}
	at := len(kids)
	if hasBefore {
		if i := slices.Index(kids, before); i >= 0 {
			at = i
		}
		h.log("insert %d into %d before %d", child, parent, before)
	} else {
		h.log("append %d to %d", child, parent)
	}
	h.children[parent] = slices.Insert(kids, at, child)
}

// Detach implements Host.
func (h *RecordingHost) Detach(parent, child int) {
	h.log("detach %d from %d", child, parent)
	kids := h.children[parent]
	if i := slices.Index(kids, child); i >= 0 {
		h.children[parent] = slices.Delete(kids, i, i+1)
	}
}

// Destroy implements Host.
func (h *RecordingHost) Destroy(id int) {
	h.log("destroy %d", id)
	delete(h.children, id)
}

// Ops returns the calls made since the last Reset.
func (h *RecordingHost) Ops() []string {
	return h.ops
}

// Reset clears the call log. The element tree is kept.
func (h *RecordingHost) Reset() {
	h.ops = nil
}

// Children returns the element children of id in order.
func (h *RecordingHost) Children(id int) []int {
	return h.children[id]
}

func (h *RecordingHost) log(format string, args ...any) {
	h.ops = append(h.ops, fmt.Sprintf(format, args...))
}
