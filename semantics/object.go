// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package semantics

import (
	"strings"

	"github.com/gogpu/flute/geom"
)

// RootID is the id of the root object. The root exists from the start and
// is never removed.
const RootID = 0

// Flags describe the state of a node.
type Flags uint32

// Node flags.
const (
	FlagHasCheckedState Flags = 1 << iota
	FlagIsChecked
	FlagIsSelected
	FlagIsButton
	FlagIsTextField
	FlagIsFocused
	FlagHasEnabledState
	FlagIsEnabled
	FlagIsHeader
	FlagIsObscured
	FlagIsHidden
	FlagIsImage
	FlagIsLiveRegion
	FlagHasToggledState
	FlagIsToggled
)

// Actions are the operations a node supports.
type Actions uint32

// Node actions.
const (
	ActionTap Actions = 1 << iota
	ActionLongPress
	ActionScrollLeft
	ActionScrollRight
	ActionScrollUp
	ActionScrollDown
	ActionIncrease
	ActionDecrease
	ActionCopy
	ActionCut
	ActionPaste
	ActionDidGainFocus
	ActionDidLoseFocus
	ActionDismiss
)

// Dirty marks the attributes an update changed.
type Dirty uint16

// Dirty bits.
const (
	DirtyFlags Dirty = 1 << iota
	DirtyActions
	DirtyRect
	DirtyTransform
	DirtyLabel
	DirtyValue
	DirtyHint
	DirtyChildren
)

var dirtyNames = [...]string{"flags", "actions", "rect", "transform", "label", "value", "hint", "children"}

// String lists the set bits, separated by '|'.
func (d Dirty) String() string {
	if d == 0 {
		return "none"
	}
	var parts []string
	for i, name := range dirtyNames {
		if d&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "|")
}

// NodeUpdate is the complete description of one node in a frame. Every
// attribute is replaced; a nil child list means no children.
type NodeUpdate struct {
	ID      int
	Flags   Flags
	Actions Actions

	// Rect is in the node's own coordinate space.
	Rect geom.Rect

	// Transform maps the node into its parent. The zero matrix means
	// identity.
	Transform geom.Matrix4

	Label string
	Value string
	Hint  string

	// ChildrenInTraversalOrder decides element order.
	ChildrenInTraversalOrder []int

	// ChildrenInHitTestOrder must hold the same ids as
	// ChildrenInTraversalOrder, or be empty.
	ChildrenInHitTestOrder []int
}

// Object is the persistent state of one node.
type Object struct {
	id     int
	parent *Object

	flags     Flags
	actions   Actions
	rect      geom.Rect
	transform geom.Matrix4
	label     string
	value     string
	hint      string

	traversal []int
	hitTest   []int
}

func newObject(id int) *Object {
	return &Object{id: id, transform: geom.Identity()}
}

// ID returns the node id.
func (o *Object) ID() int { return o.id }

// Parent returns the containing object, or nil for the root and for
// detached objects.
func (o *Object) Parent() *Object { return o.parent }

func (o *Object) Flags() Flags             { return o.flags }
func (o *Object) Actions() Actions         { return o.actions }
func (o *Object) Rect() geom.Rect          { return o.rect }
func (o *Object) Transform() geom.Matrix4  { return o.transform }
func (o *Object) Label() string            { return o.label }
func (o *Object) Value() string            { return o.value }
func (o *Object) Hint() string             { return o.hint }
func (o *Object) HasFlag(f Flags) bool     { return o.flags&f == f }
func (o *Object) HasAction(a Actions) bool { return o.actions&a == a }
func (o *Object) ChildCount() int          { return len(o.traversal) }
func (o *Object) IsLeaf() bool             { return len(o.traversal) == 0 }
func (o *Object) isRoot() bool             { return o.id == RootID }

// ChildrenInTraversalOrder returns the child ids in traversal order. The
// slice must not be modified.
func (o *Object) ChildrenInTraversalOrder() []int { return o.traversal }

// ChildrenInHitTestOrder returns the child ids in hit test order. The slice
// must not be modified.
func (o *Object) ChildrenInHitTestOrder() []int { return o.hitTest }

// apply copies u into o and reports what changed.
func (o *Object) apply(u *NodeUpdate) Dirty {
	var d Dirty
	if o.flags != u.Flags {
		o.flags = u.Flags
		d |= DirtyFlags
	}
	if o.actions != u.Actions {
		o.actions = u.Actions
		d |= DirtyActions
	}
	if o.rect != u.Rect {
		o.rect = u.Rect
		d |= DirtyRect
	}
	m := u.Transform
	if m == (geom.Matrix4{}) {
		m = geom.Identity()
	}
	if o.transform != m {
		o.transform = m
		d |= DirtyTransform
	}
	if o.label != u.Label {
		o.label = u.Label
		d |= DirtyLabel
	}
	if o.value != u.Value {
		o.value = u.Value
		d |= DirtyValue
	}
	if o.hint != u.Hint {
		o.hint = u.Hint
		d |= DirtyHint
	}
	o.hitTest = append(o.hitTest[:0], u.ChildrenInHitTestOrder...)
	return d
}
