// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package managed

import "errors"

// ErrReleased is returned when a Box is released more times than it was
// referenced.
var ErrReleased = errors.New("managed: box already released")

// Box is a reference-counted native shared by several owners, such as one
// image drawn by many pictures. The native is deleted when the last reference
// is released. Box is not safe for concurrent use.
type Box[T Deletable] struct {
	native T
	refs   int
}

// NewBox wraps native with a reference count of one.
func NewBox[T Deletable](native T) *Box[T] {
	return &Box[T]{native: native, refs: 1}
}

// Ref adds a reference and returns the box.
func (b *Box[T]) Ref() *Box[T] {
	b.refs++
	return b
}

// Unref drops a reference, deleting the native when the count reaches zero.
func (b *Box[T]) Unref() error {
	if b.refs <= 0 {
		return ErrReleased
	}
	b.refs--
	if b.refs > 0 || b.native.IsDeleted() {
		return nil
	}
	return b.native.Delete()
}

// RefCount returns the current number of references.
func (b *Box[T]) RefCount() int {
	return b.refs
}

// Native returns the wrapped native. It must not be used after the last
// Unref.
func (b *Box[T]) Native() T {
	return b.native
}
