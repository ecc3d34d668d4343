// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layer

import (
	"iter"
	"strings"
)

// Walk visits l and its descendants depth first in paint order. fn receives
// each layer with its depth below l; returning false skips the layer's
// children.
func Walk(l Layer, fn func(l Layer, depth int) bool) {
	walk(l, 0, fn)
}

func walk(l Layer, depth int, fn func(Layer, int) bool) {
	if !fn(l, depth) {
		return
	}
	if c, ok := l.(Container); ok {
		for _, child := range c.Children() {
			walk(child, depth+1, fn)
		}
	}
}

// All returns an iterator over l and its descendants in paint order.
func All(l Layer) iter.Seq[Layer] {
	return func(yield func(Layer) bool) {
		all(l, yield)
	}
}

func all(l Layer, yield func(Layer) bool) bool {
	if !yield(l) {
		return false
	}
	if c, ok := l.(Container); ok {
		for _, child := range c.Children() {
			if !all(child, yield) {
				return false
			}
		}
	}
	return true
}

// Count returns the number of layers in the subtree rooted at l.
func Count(l Layer) int {
	n := 0
	for range All(l) {
		n++
	}
	return n
}

// Describe returns an indented dump of the subtree rooted at l, one layer
// per line. Prerolled layers include their paint bounds.
func Describe(l Layer) string {
	var b strings.Builder
	Walk(l, func(l Layer, depth int) bool {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(Label(l))
		if l.base().prerolled {
			b.WriteString(" bounds=")
			b.WriteString(l.PaintBounds().String())
		}
		b.WriteByte('\n')
		return true
	})
	return b.String()
}

// Label returns the kind of l followed by its properties.
func Label(l Layer) string {
	if d := l.describe(); d != "" {
		return l.Kind().String() + " " + d
	}
	return l.Kind().String()
}
