// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package semantics

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/flute"
	"github.com/gogpu/flute/internal/lis"
)

// Update errors. An update that fails validation changes nothing.
var (
	ErrDuplicateUpdate = errors.New("semantics: node updated twice")
	ErrUnknownChild    = errors.New("semantics: unknown child")
	ErrDuplicateChild  = errors.New("semantics: child listed twice")
	ErrRootAsChild     = errors.New("semantics: root listed as a child")
	ErrMultipleParents = errors.New("semantics: node reachable from more than one parent")
	ErrHitTestOrder    = errors.New("semantics: hit test order does not match traversal order")
	ErrBrokenParent    = errors.New("semantics: parent back-reference broken")
)

// UpdateStats counts what one Update did.
type UpdateStats struct {
	Created  int
	Updated  int
	Moved    int
	Detached int
	Removed  int
}

// Tree is the persistent semantics tree.
type Tree struct {
	host    Host
	objects map[int]*Object
	last    UpdateStats
}

// NewTree returns a tree holding only the root. A nil host discards the
// element operations.
func NewTree(host Host) *Tree {
	if host == nil {
		host = nopHost{}
	}
	t := &Tree{
		host:    host,
		objects: map[int]*Object{RootID: newObject(RootID)},
	}
	host.Create(RootID)
	return t
}

// Root returns the root object.
func (t *Tree) Root() *Object {
	return t.objects[RootID]
}

// Lookup returns the object with the given id.
func (t *Tree) Lookup(id int) (*Object, bool) {
	o, ok := t.objects[id]
	return o, ok
}

// Len returns the number of objects, root included.
func (t *Tree) Len() int {
	return len(t.objects)
}

// LastUpdate returns the statistics of the most recent successful Update.
func (t *Tree) LastUpdate() UpdateStats {
	return t.last
}

// Update applies one frame of node updates.
//
// The batch is validated first: every listed child must exist or be part of
// the batch, and every node must be reachable from the root through at most
// one parent. Updates for nodes that end up unreachable are ignored.
// Objects that lose their parent and are not adopted by another one are
// removed together with their subtrees.
func (t *Tree) Update(nodes []NodeUpdate) error {
	updates := make(map[int]*NodeUpdate, len(nodes))
	for i := range nodes {
		u := &nodes[i]
		if _, dup := updates[u.ID]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicateUpdate, u.ID)
		}
		if err := checkChildLists(u); err != nil {
			return err
		}
		updates[u.ID] = u
	}
	reachable, err := t.reachable(updates)
	if err != nil {
		return err
	}

	var stats UpdateStats
	for _, u := range nodes {
		if _, ok := t.objects[u.ID]; !ok && reachable[u.ID] {
			t.objects[u.ID] = newObject(u.ID)
			t.host.Create(u.ID)
			stats.Created++
		}
	}

	type pending struct {
		parent   *Object
		children []int
	}
	var dirtyParents []pending
	for i := range nodes {
		u := &nodes[i]
		if !reachable[u.ID] {
			continue
		}
		o := t.objects[u.ID]
		if changed := o.apply(u); changed != 0 {
			t.host.Update(o, changed)
			stats.Updated++
		}
		if !slices.Equal(o.traversal, u.ChildrenInTraversalOrder) {
			dirtyParents = append(dirtyParents, pending{o, u.ChildrenInTraversalOrder})
		}
	}

	var detached []*Object
	for _, p := range dirtyParents {
		for _, id := range p.parent.traversal {
			if slices.Contains(p.children, id) {
				continue
			}
			child := t.objects[id]
			t.host.Detach(p.parent.id, id)
			child.parent = nil
			detached = append(detached, child)
			stats.Detached++
		}
	}
	for _, p := range dirtyParents {
		stats.Moved += t.reconcile(p.parent, p.children)
	}
	for _, o := range detached {
		if o.parent == nil {
			stats.Removed += t.remove(o)
		}
	}

	if err := t.Validate(); err != nil {
		return err
	}
	t.last = stats
	flute.Logger().Debug("semantics: update applied",
		"nodes", len(nodes),
		"created", stats.Created,
		"moved", stats.Moved,
		"removed", stats.Removed)
	return nil
}

// checkChildLists validates the child lists of a single update.
func checkChildLists(u *NodeUpdate) error {
	seen := make(map[int]bool, len(u.ChildrenInTraversalOrder))
	for _, id := range u.ChildrenInTraversalOrder {
		if id == RootID {
			return fmt.Errorf("%w: under %d", ErrRootAsChild, u.ID)
		}
		if seen[id] {
			return fmt.Errorf("%w: %d under %d", ErrDuplicateChild, id, u.ID)
		}
		seen[id] = true
	}
	if len(u.ChildrenInHitTestOrder) == 0 {
		return nil
	}
	if len(u.ChildrenInHitTestOrder) != len(u.ChildrenInTraversalOrder) {
		return fmt.Errorf("%w: node %d", ErrHitTestOrder, u.ID)
	}
	for _, id := range u.ChildrenInHitTestOrder {
		if !seen[id] {
			return fmt.Errorf("%w: node %d", ErrHitTestOrder, u.ID)
		}
	}
	return nil
}

// reachable walks the tree as it will be after updates and returns the
// ids reachable from the root.
func (t *Tree) reachable(updates map[int]*NodeUpdate) (map[int]bool, error) {
	children := func(id int) []int {
		if u, ok := updates[id]; ok {
			return u.ChildrenInTraversalOrder
		}
		return t.objects[id].traversal
	}
	seen := map[int]bool{RootID: true}
	queue := []int{RootID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, c := range children(id) {
			_, known := t.objects[c]
			if _, updated := updates[c]; !known && !updated {
				return nil, fmt.Errorf("%w: %d under %d", ErrUnknownChild, c, id)
			}
			if seen[c] {
				return nil, fmt.Errorf("%w: %d", ErrMultipleParents, c)
			}
			seen[c] = true
			queue = append(queue, c)
		}
	}
	return seen, nil
}

// reconcile makes children the element children of p and returns how many
// existing children were moved. Children whose old positions form a longest
// increasing subsequence stay put; the rest are inserted before their
// successor, last to first.
func (t *Tree) reconcile(p *Object, children []int) int {
	oldPos := make(map[int]int, len(p.traversal))
	for i, id := range p.traversal {
		if t.objects[id].parent == p {
			oldPos[id] = i
		}
	}

	var (
		seq []int
		ids []int
	)
	for _, id := range children {
		if pos, ok := oldPos[id]; ok {
			seq = append(seq, pos)
			ids = append(ids, id)
		}
	}
	stationary := make(map[int]bool, len(seq))
	for _, i := range lis.Indices(seq) {
		stationary[ids[i]] = true
	}

	moved := 0
	before, hasBefore := 0, false
	for i := len(children) - 1; i >= 0; i-- {
		id := children[i]
		child := t.objects[id]
		if !stationary[id] {
			if old := child.parent; old != nil && old != p {
				// Adopted from a parent that is leaving the tree.
				t.host.Detach(old.id, id)
				old.traversal = slices.DeleteFunc(old.traversal, func(c int) bool { return c == id })
			}
			t.host.Insert(p.id, id, before, hasBefore)
			if _, ok := oldPos[id]; ok {
				moved++
			}
		}
		child.parent = p
		before, hasBefore = id, true
	}
	p.traversal = slices.Clone(children)
	return moved
}

// remove destroys o and the part of its subtree it still owns, returning
// the number of objects removed.
func (t *Tree) remove(o *Object) int {
	n := 1
	for _, id := range o.traversal {
		if child, ok := t.objects[id]; ok && child.parent == o {
			n += t.remove(child)
		}
	}
	t.host.Destroy(o.id)
	delete(t.objects, o.id)
	return n
}

// Validate checks that every child resolves to an object whose parent is
// the object listing it, and that every object is reachable from the root.
func (t *Tree) Validate() error {
	visited := 0
	var walk func(o *Object) error
	walk = func(o *Object) error {
		visited++
		for _, id := range o.traversal {
			child, ok := t.objects[id]
			if !ok {
				return fmt.Errorf("%w: %d lists missing child %d", ErrBrokenParent, o.id, id)
			}
			if child.parent != o {
				return fmt.Errorf("%w: child %d of %d", ErrBrokenParent, id, o.id)
			}
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(t.Root()); err != nil {
		return err
	}
	if visited != len(t.objects) {
		return fmt.Errorf("%w: %d of %d objects reachable", ErrBrokenParent, visited, len(t.objects))
	}
	return nil
}

type nopHost struct{}

func (nopHost) Create(int)                 {}
func (nopHost) Update(*Object, Dirty)      {}
func (nopHost) Insert(int, int, int, bool) {}
func (nopHost) Detach(int, int)            {}
func (nopHost) Destroy(int)                {}
