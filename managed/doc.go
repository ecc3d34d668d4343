// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package managed pairs cheap, garbage-collected descriptions with expensive
// native resources whose lifetime must be managed explicitly.
//
// # Object
//
// An Object holds an immutable description and lazily realises the native
// resource on the first Handle call. Delete frees the native side but keeps the
// description, so the next Handle call resurrects an equivalent resource without
// changing the Object's identity. Equality is defined over the description, so
// structurally identical objects compare equal and can be interned by a Cache.
//
//	filter := managed.New(desc, managed.FactoryFunc[Desc, *Native](build))
//	n := filter.Handle()  // created
//	_ = filter.Delete()   // native freed
//	n = filter.Handle()   // resurrected from desc
//
// # Collection
//
// Natives that outlive their owners are handed to a Collector. Queue batches
// them and deletes them on a deferred callback, never synchronously, so a
// resource still in use by the current frame is not freed under it. A failed
// delete never stops the rest of the batch; the first failure is returned after
// the queue drains.
//
// Track wires an owner's reachability to a Collector with runtime.AddCleanup.
package managed
