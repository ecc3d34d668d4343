// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package lis computes longest increasing subsequences. Child reconciliation
// uses it to find the largest set of children that can stay where they are.
package lis

// Indices returns the positions in seq of one longest strictly increasing
// subsequence, in ascending order. Among subsequences of equal length the
// one ending earliest is chosen.
func Indices(seq []int) []int {
	if len(seq) == 0 {
		return nil
	}

	// tails[k] is the index of the smallest tail of an increasing run of
	// length k+1 seen so far.
	tails := make([]int, 0, len(seq))
	prev := make([]int, len(seq))
	for i, v := range seq {
		lo, hi := 0, len(tails)
		for lo < hi {
			mid := int(uint(lo+hi) >> 1)
			if seq[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo > 0 {
			prev[i] = tails[lo-1]
		} else {
			prev[i] = -1
		}
		if lo == len(tails) {
			tails = append(tails, i)
		} else {
			tails[lo] = i
		}
	}

	out := make([]int, len(tails))
	for k, i := len(tails)-1, tails[len(tails)-1]; k >= 0; k, i = k-1, prev[i] {
		out[k] = i
	}
	return out
}

// Values returns the elements of one longest strictly increasing
// subsequence of seq.
func Values(seq []int) []int {
	idx := Indices(seq)
	out := make([]int, len(idx))
	for k, i := range idx {
		out[k] = seq[i]
	}
	return out
}
