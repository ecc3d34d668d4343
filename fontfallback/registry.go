// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package fontfallback finds the fonts that can render a code point.
//
// Fonts are registered with the code point ranges they cover, either
// directly, from Unicode range tables, or from the cmap of TrueType and
// OpenType data. Lookups go through an interval tree that is rebuilt lazily
// after registrations.
package fontfallback

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"sync"
	"unicode"

	"github.com/go-text/typesetting/font"
	"golang.org/x/text/unicode/rangetable"

	"github.com/gogpu/flute"
	"github.com/gogpu/flute/intervaltree"
)

// Errors returned by Registry.
var (
	// ErrEmptyName is returned when registering a font without a name.
	ErrEmptyName = errors.New("fontfallback: empty font name")

	// ErrNoCoverage is returned when font data maps no code points.
	ErrNoCoverage = errors.New("fontfallback: font covers no code points")
)

// Registry maps code points to the fonts that cover them.
//
// Registry is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	rank   map[string]int
	ranges map[string][]intervaltree.Range
	tree   *intervaltree.Tree[string]
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		rank:   make(map[string]int),
		ranges: make(map[string][]intervaltree.Range),
	}
}

// Register adds ranges to the coverage of name. Registering a name again
// extends its coverage and keeps its original rank.
func (r *Registry) Register(name string, ranges ...intervaltree.Range) error {
	if name == "" {
		return ErrEmptyName
	}
	for _, rg := range ranges {
		if rg.Low > rg.High {
			return fmt.Errorf("fontfallback: register %q: %w: %v", name, intervaltree.ErrInvalidRange, rg)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rank[name]; !ok {
		r.rank[name] = len(r.order)
		r.order = append(r.order, name)
	}
	r.ranges[name] = append(r.ranges[name], ranges...)
	r.tree = nil
	return nil
}

// RegisterTable registers the code points of the given Unicode tables.
func (r *Registry) RegisterTable(name string, tables ...*unicode.RangeTable) error {
	return r.Register(name, tableRanges(rangetable.Merge(tables...))...)
}

// RegisterFontData parses TrueType or OpenType data and registers every
// code point its cmap maps to a glyph.
func (r *Registry) RegisterFontData(name string, data []byte) error {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("fontfallback: parse %q: %w", name, err)
	}

	var runes []rune
	it := face.Font.Cmap.Iter()
	for it.Next() {
		c, _ := it.Char()
		runes = append(runes, c)
	}
	if len(runes) == 0 {
		return fmt.Errorf("%w: %q", ErrNoCoverage, name)
	}
	return r.Register(name, coalesce(runes)...)
}

// Fonts returns the registered font names in registration order.
func (r *Registry) Fonts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Coverage returns the ranges registered for name.
func (r *Registry) Coverage(name string) []intervaltree.Range {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.ranges[name])
}

// index returns the lookup tree, building it if registrations changed.
func (r *Registry) index() *intervaltree.Tree[string] {
	r.mu.RLock()
	t := r.tree
	r.mu.RUnlock()
	if t != nil {
		return t
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tree != nil {
		return r.tree
	}

	var values []string
	var ranges []intervaltree.Range
	for _, name := range r.order {
		for _, rg := range r.ranges[name] {
			values = append(values, name)
			ranges = append(ranges, rg)
		}
	}
	// Ranges were validated on registration.
	t, _ = intervaltree.NewFromSlice(values, ranges)
	r.tree = t
	flute.Logger().Debug("fontfallback: index built", "fonts", len(r.order), "ranges", t.Len())
	return t
}

// FontsFor returns the fonts covering c in registration order.
func (r *Registry) FontsFor(c rune) []string {
	hits := r.index().Intersections(int(c))
	if len(hits) == 0 {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	slices.SortFunc(hits, func(a, b string) int { return r.rank[a] - r.rank[b] })
	return slices.Compact(hits)
}

// Covers reports whether any registered font covers c.
func (r *Registry) Covers(c rune) bool {
	return r.index().Contains(int(c))
}

// Missing returns the distinct code points of text that no font covers, in
// order of first appearance.
func (r *Registry) Missing(text string) []rune {
	t := r.index()
	var out []rune
	seen := make(map[rune]bool)
	for _, c := range text {
		if seen[c] {
			continue
		}
		seen[c] = true
		if !t.Contains(int(c)) {
			out = append(out, c)
		}
	}
	return out
}

// Resolve picks a small set of fonts that together cover text. It
// repeatedly takes the font covering the most code points not yet covered,
// preferring earlier registrations on ties. Code points no font covers are
// ignored.
func (r *Registry) Resolve(text string) []string {
	need := make(map[rune][]string)
	for _, c := range text {
		if _, ok := need[c]; ok {
			continue
		}
		if fonts := r.FontsFor(c); len(fonts) > 0 {
			need[c] = fonts
		}
	}

	r.mu.RLock()
	rank := make(map[string]int, len(r.rank))
	for name, i := range r.rank {
		rank[name] = i
	}
	r.mu.RUnlock()

	var picked []string
	for len(need) > 0 {
		counts := make(map[string]int)
		for _, fonts := range need {
			for _, f := range fonts {
				counts[f]++
			}
		}
		best := ""
		for f, n := range counts {
			if best == "" || n > counts[best] || (n == counts[best] && rank[f] < rank[best]) {
				best = f
			}
		}
		picked = append(picked, best)
		for c, fonts := range need {
			if slices.Contains(fonts, best) {
				delete(need, c)
			}
		}
	}
	return picked
}

// tableRanges flattens a range table into closed ranges. Strided entries
// contribute one range per code point.
func tableRanges(t *unicode.RangeTable) []intervaltree.Range {
	var out []intervaltree.Range
	add := func(lo, hi, stride int) {
		if stride == 1 {
			out = append(out, intervaltree.Range{Low: lo, High: hi})
			return
		}
		for c := lo; c <= hi; c += stride {
			out = append(out, intervaltree.Range{Low: c, High: c})
		}
	}
	for _, rg := range t.R16 {
		add(int(rg.Lo), int(rg.Hi), int(rg.Stride))
	}
	for _, rg := range t.R32 {
		add(int(rg.Lo), int(rg.Hi), int(rg.Stride))
	}
	return out
}

// coalesce sorts runes and merges consecutive code points into ranges.
func coalesce(runes []rune) []intervaltree.Range {
	slices.Sort(runes)
	runes = slices.Compact(runes)

	var out []intervaltree.Range
	for _, c := range runes {
		if n := len(out); n > 0 && out[n-1].High+1 == int(c) {
			out[n-1].High = int(c)
			continue
		}
		out = append(out, intervaltree.Range{Low: int(c), High: int(c)})
	}
	return out
}
