// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package intervaltree implements a static, balanced interval tree over
// closed integer ranges.
//
// The tree is built once from a mapping of values to ranges and is immutable
// afterwards. It answers "which values have a range containing x" in
// O(log n + k) time, where k is the number of matches. The font fallback
// registry uses it to map a code point to the fonts that cover it.
package intervaltree

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidRange is returned by New when a range has Low > High.
var ErrInvalidRange = errors.New("intervaltree: range low exceeds high")

// Range is a closed interval [Low, High].
type Range struct {
	Low, High int
}

// Contains reports whether x lies within the range.
func (r Range) Contains(x int) bool {
	return r.Low <= x && x <= r.High
}

// String returns "[low, high]".
func (r Range) String() string {
	return fmt.Sprintf("[%d, %d]", r.Low, r.High)
}

// node is a single interval in the tree.
type node[T comparable] struct {
	value        T
	low, high    int
	computedHigh int
	left, right  *node[T]
}

// Tree is a static interval tree. The zero value is an empty tree.
// Tree is safe for concurrent reads.
type Tree[T comparable] struct {
	root *node[T]
	size int
}

// triple is a flattened (value, range) pair used during construction.
type triple[T comparable] struct {
	value T
	r     Range
}

// New builds a tree from a mapping of values to ranges.
//
// Ranges are flattened, sorted by Low and split at the median index, so the
// height is O(log n) regardless of how the ranges are distributed. Map
// iteration order is random, so values sharing an identical range come back
// from Intersections in unspecified order; use NewFromSlice when that matters.
func New[T comparable](ranges map[T][]Range) (*Tree[T], error) {
	var flat []triple[T]
	for value, rs := range ranges {
		for _, r := range rs {
			if r.Low > r.High {
				return nil, fmt.Errorf("%w: %v", ErrInvalidRange, r)
			}
			flat = append(flat, triple[T]{value: value, r: r})
		}
	}
	return build(flat), nil
}

// NewFromSlice builds a tree from explicit (value, range) pairs. Unlike New,
// the input order breaks ties between identical ranges, which makes the order
// of Intersections fully deterministic.
func NewFromSlice[T comparable](values []T, ranges []Range) (*Tree[T], error) {
	if len(values) != len(ranges) {
		return nil, fmt.Errorf("intervaltree: %d values but %d ranges", len(values), len(ranges))
	}
	flat := make([]triple[T], len(values))
	for i, r := range ranges {
		if r.Low > r.High {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRange, r)
		}
		flat[i] = triple[T]{value: values[i], r: r}
	}
	return build(flat), nil
}

func build[T comparable](flat []triple[T]) *Tree[T] {
	sort.SliceStable(flat, func(i, j int) bool {
		if flat[i].r.Low != flat[j].r.Low {
			return flat[i].r.Low < flat[j].r.Low
		}
		return flat[i].r.High < flat[j].r.High
	})
	t := &Tree[T]{size: len(flat)}
	t.root = buildRange(flat, 0, len(flat)-1)
	if t.root != nil {
		computeHigh(t.root)
	}
	return t
}

// buildRange builds a balanced subtree from flat[start..end] by splitting at
// the median index.
func buildRange[T comparable](flat []triple[T], start, end int) *node[T] {
	if start > end {
		return nil
	}
	mid := start + (end-start)/2
	n := &node[T]{
		value: flat[mid].value,
		low:   flat[mid].r.Low,
		high:  flat[mid].r.High,
	}
	n.left = buildRange(flat, start, mid-1)
	n.right = buildRange(flat, mid+1, end)
	return n
}

// computeHigh fills computedHigh bottom-up and returns it.
func computeHigh[T comparable](n *node[T]) int {
	h := n.high
	if n.left != nil {
		h = max(h, computeHigh(n.left))
	}
	if n.right != nil {
		h = max(h, computeHigh(n.right))
	}
	n.computedHigh = h
	return h
}

// Len returns the number of intervals in the tree.
func (t *Tree[T]) Len() int {
	if t == nil {
		return 0
	}
	return t.size
}

// Intersections returns the values of every interval containing x, in
// ascending order of interval start.
func (t *Tree[T]) Intersections(x int) []T {
	var out []T
	if t == nil || t.root == nil {
		return out
	}
	t.root.searchForPoint(x, &out)
	return out
}

// Contains reports whether any interval contains x. It stops at the first
// match instead of collecting all of them.
func (t *Tree[T]) Contains(x int) bool {
	if t == nil || t.root == nil {
		return false
	}
	return t.root.containsDeep(x)
}

// searchForPoint collects matches in order: left subtree, this node, right
// subtree. A subtree is skipped when its computedHigh is below x. The right
// subtree is skipped when x is before this node's low, since every interval
// there starts at or after it.
func (n *node[T]) searchForPoint(x int, out *[]T) {
	if x > n.computedHigh {
		return
	}
	if n.left != nil {
		n.left.searchForPoint(x, out)
	}
	if n.low <= x && x <= n.high {
		*out = append(*out, n.value)
	}
	if x < n.low {
		return
	}
	if n.right != nil {
		n.right.searchForPoint(x, out)
	}
}

func (n *node[T]) containsDeep(x int) bool {
	if x > n.computedHigh {
		return false
	}
	if n.low <= x && x <= n.high {
		return true
	}
	if n.left != nil && n.left.containsDeep(x) {
		return true
	}
	if x < n.low {
		return false
	}
	return n.right != nil && n.right.containsDeep(x)
}

// Walk calls fn for every interval in ascending order of start. Iteration
// stops when fn returns false.
func (t *Tree[T]) Walk(fn func(value T, r Range) bool) {
	if t == nil || t.root == nil {
		return
	}
	t.root.walk(fn)
}

func (n *node[T]) walk(fn func(T, Range) bool) bool {
	if n.left != nil && !n.left.walk(fn) {
		return false
	}
	if !fn(n.value, Range{Low: n.low, High: n.high}) {
		return false
	}
	if n.right != nil {
		return n.right.walk(fn)
	}
	return true
}

// height returns the depth of the tree; used by tests to check balance.
func (t *Tree[T]) height() int {
	var h func(n *node[T]) int
	h = func(n *node[T]) int {
		if n == nil {
			return 0
		}
		return 1 + max(h(n.left), h(n.right))
	}
	return h(t.root)
}
