// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package semantics keeps the accessibility tree in sync with the frames the
// application produces.
//
// Each frame delivers a batch of [NodeUpdate]s. [Tree.Update] applies them to
// persistent [Object]s keyed by id and mirrors the result onto a [Host], the
// platform element tree. Child lists are reconciled with a longest
// increasing subsequence so that the fewest elements move: moving a live
// element can drop focus or an in-progress text selection.
package semantics
