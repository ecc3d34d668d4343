// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layer

import "fmt"

// assertf panics with a "layer: " message when debug assertions are compiled
// in and cond is false.
func assertf(cond bool, format string, args ...any) {
	if debugAssertions && !cond {
		panic(fmt.Sprintf("layer: "+format, args...))
	}
}
