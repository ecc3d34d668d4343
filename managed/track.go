// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package managed

import "runtime"

// Track arranges for res to be handed to c once owner becomes unreachable.
// res must not reference owner, or owner will never be collected.
//
// The returned Cleanup can be stopped when the owner deletes res itself.
func Track[O any](owner *O, res Deletable, c Collector) runtime.Cleanup {
	return runtime.AddCleanup(owner, func(r Deletable) {
		c.Collect(r)
	}, res)
}
