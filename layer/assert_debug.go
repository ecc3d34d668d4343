// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !flute_release

package layer

const debugAssertions = true
