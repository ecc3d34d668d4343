// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layer

import (
	"fmt"
	"iter"
	"strings"

	"github.com/gogpu/flute/geom"
	"github.com/gogpu/flute/gfx"
)

// MutatorType tags a Mutator.
type MutatorType uint8

// Mutator types.
const (
	MutatorClipRect MutatorType = iota
	MutatorClipRRect
	MutatorClipPath
	MutatorTransform
	MutatorOpacity
)

// String returns the type name.
func (t MutatorType) String() string {
	switch t {
	case MutatorClipRect:
		return "clipRect"
	case MutatorClipRRect:
		return "clipRRect"
	case MutatorClipPath:
		return "clipPath"
	case MutatorTransform:
		return "transform"
	case MutatorOpacity:
		return "opacity"
	default:
		return fmt.Sprintf("MutatorType(%d)", t)
	}
}

// Mutator is one pending clip, transform or opacity effect. Only the field
// matching Type is set.
type Mutator struct {
	Type   MutatorType
	Rect   geom.Rect
	RRect  geom.RRect
	Path   gfx.Path
	Matrix geom.Matrix4
	Alpha  uint8
}

// IsClip reports whether the mutator clips.
func (m Mutator) IsClip() bool {
	return m.Type <= MutatorClipPath
}

// ClipBounds returns the bounds of a clip mutator in its own space.
func (m Mutator) ClipBounds() geom.Rect {
	switch m.Type {
	case MutatorClipRect:
		return m.Rect
	case MutatorClipRRect:
		return m.RRect.Bounds()
	case MutatorClipPath:
		return gfx.PathBounds(m.Path)
	default:
		return geom.Largest()
	}
}

// Equal compares mutators. Paths compare by identity.
func (m Mutator) Equal(o Mutator) bool {
	if m.Type != o.Type {
		return false
	}
	switch m.Type {
	case MutatorClipRect:
		return m.Rect == o.Rect
	case MutatorClipRRect:
		return m.RRect == o.RRect
	case MutatorClipPath:
		return m.Path == o.Path
	case MutatorTransform:
		return m.Matrix == o.Matrix
	default:
		return m.Alpha == o.Alpha
	}
}

// String describes the mutator.
func (m Mutator) String() string {
	switch m.Type {
	case MutatorClipRect:
		return "clipRect(" + m.Rect.String() + ")"
	case MutatorClipRRect:
		return "clipRRect(" + m.RRect.Rect.String() + ")"
	case MutatorClipPath:
		return "clipPath(" + gfx.PathBounds(m.Path).String() + ")"
	case MutatorTransform:
		return "transform(" + m.Matrix.String() + ")"
	default:
		return fmt.Sprintf("opacity(%d)", m.Alpha)
	}
}

// MutatorsStack records the effects pushed by the layers above the current
// one during preroll. Platform views receive a clone so they can be clipped
// and transformed like their native siblings.
//
// The zero value is an empty stack.
type MutatorsStack struct {
	mutators []Mutator
}

func (s *MutatorsStack) push(m Mutator) {
	s.mutators = append(s.mutators, m)
}

// PushClipRect pushes a rectangular clip.
func (s *MutatorsStack) PushClipRect(r geom.Rect) {
	s.push(Mutator{Type: MutatorClipRect, Rect: r})
}

// PushClipRRect pushes a rounded rectangular clip.
func (s *MutatorsStack) PushClipRRect(rr geom.RRect) {
	s.push(Mutator{Type: MutatorClipRRect, RRect: rr})
}

// PushClipPath pushes a path clip.
func (s *MutatorsStack) PushClipPath(p gfx.Path) {
	s.push(Mutator{Type: MutatorClipPath, Path: p})
}

// PushTransform pushes a transform.
func (s *MutatorsStack) PushTransform(m geom.Matrix4) {
	s.push(Mutator{Type: MutatorTransform, Matrix: m})
}

// PushOpacity pushes an opacity given as alpha in 0..255.
func (s *MutatorsStack) PushOpacity(alpha uint8) {
	s.push(Mutator{Type: MutatorOpacity, Alpha: alpha})
}

// Pop removes the most recent mutator.
func (s *MutatorsStack) Pop() {
	assertf(len(s.mutators) > 0, "pop on empty mutators stack")
	if len(s.mutators) == 0 {
		return
	}
	s.mutators[len(s.mutators)-1] = Mutator{}
	s.mutators = s.mutators[:len(s.mutators)-1]
}

// Len returns the number of mutators.
func (s *MutatorsStack) Len() int {
	return len(s.mutators)
}

// At returns the i-th mutator from the bottom.
func (s *MutatorsStack) At(i int) Mutator {
	return s.mutators[i]
}

// All iterates from the bottom (outermost layer) to the top.
func (s *MutatorsStack) All() iter.Seq[Mutator] {
	return func(yield func(Mutator) bool) {
		for _, m := range s.mutators {
			if !yield(m) {
				return
			}
		}
	}
}

// Backward iterates from the top (innermost layer) to the bottom.
func (s *MutatorsStack) Backward() iter.Seq[Mutator] {
	return func(yield func(Mutator) bool) {
		for i := len(s.mutators) - 1; i >= 0; i-- {
			if !yield(s.mutators[i]) {
				return
			}
		}
	}
}

// Clone returns an independent copy.
func (s *MutatorsStack) Clone() MutatorsStack {
	return MutatorsStack{mutators: append([]Mutator(nil), s.mutators...)}
}

// Equal reports whether both stacks hold equal mutators in the same order.
func (s *MutatorsStack) Equal(o *MutatorsStack) bool {
	if len(s.mutators) != len(o.mutators) {
		return false
	}
	for i := range s.mutators {
		if !s.mutators[i].Equal(o.mutators[i]) {
			return false
		}
	}
	return true
}

// Matrix returns the product of all transform mutators.
func (s *MutatorsStack) Matrix() geom.Matrix4 {
	m := geom.Identity()
	for _, mu := range s.mutators {
		if mu.Type == MutatorTransform {
			m = m.Multiply(mu.Matrix)
		}
	}
	return m
}

// Opacity returns the product of all opacity mutators as a value in [0, 1].
func (s *MutatorsStack) Opacity() float64 {
	o := 1.0
	for _, mu := range s.mutators {
		if mu.Type == MutatorOpacity {
			o *= float64(mu.Alpha) / 255
		}
	}
	return o
}

// DeviceCullRect intersects every clip, each mapped through the transforms
// pushed below it. The result is in the space of the bottom of the stack.
// With no clips it is geom.Largest.
func (s *MutatorsStack) DeviceCullRect() geom.Rect {
	cull := geom.Largest()
	m := geom.Identity()
	for _, mu := range s.mutators {
		switch {
		case mu.Type == MutatorTransform:
			m = m.Multiply(mu.Matrix)
		case mu.IsClip():
			cull = cull.Intersect(geom.TransformRect(m, mu.ClipBounds()))
		}
	}
	return cull
}

// CullRect returns DeviceCullRect mapped into the space at the top of the
// stack. An unclipped stack, or one whose transform cannot be inverted,
// yields geom.Largest.
func (s *MutatorsStack) CullRect() geom.Rect {
	cull := s.DeviceCullRect()
	if cull.IsLargest() || cull.IsEmpty() {
		return cull
	}
	m := s.Matrix()
	if m.IsIdentity() {
		return cull
	}
	if _, ok := m.Invert(); !ok {
		return geom.Largest()
	}
	return geom.InverseTransformRect(m, cull)
}

// String lists the mutators bottom to top.
func (s *MutatorsStack) String() string {
	parts := make([]string, len(s.mutators))
	for i, m := range s.mutators {
		parts[i] = m.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
