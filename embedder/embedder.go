// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package embedder composites platform views with a layer tree.
//
// A ViewEmbedder hosts a set of platform views. During preroll, layers
// announce the views they place; during paint, content that must appear above
// a view is redirected to an overlay canvas allocated for that view. Once the
// frame is painted, SubmitFrame resolves the final geometry of every view,
// closes the overlays, and diffs the view order against the previous frame so
// the platform only restacks what changed.
package embedder

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/gogpu/flute"
	"github.com/gogpu/flute/geom"
	"github.com/gogpu/flute/gfx"
	"github.com/gogpu/flute/layer"
	"github.com/gogpu/flute/recording"
)

// DefaultOverlayLimit is the default number of overlay canvases per frame.
const DefaultOverlayLimit = 8

// Errors returned by the embedder.
var (
	// ErrViewExists is returned when creating a view whose id is taken.
	ErrViewExists = errors.New("embedder: view already exists")

	// ErrUnknownView is returned for operations on ids with no view.
	ErrUnknownView = errors.New("embedder: unknown view")

	// ErrDuplicateView is returned when a frame composites a view twice.
	ErrDuplicateView = errors.New("embedder: view composited twice in one frame")

	// ErrNilFactory is returned by Create when the factory is nil.
	ErrNilFactory = errors.New("embedder: nil view factory")
)

// View is native content placed by the platform.
//
// A View that also implements io.Closer is closed when disposed.
type View interface {
	// Place positions the view for the frame being presented.
	Place(p Placement)

	// Hide removes the view from the screen without destroying it.
	Hide()
}

// ViewFactory creates the view for id.
type ViewFactory func(id int64) (View, error)

// Option configures a ViewEmbedder.
type Option func(*ViewEmbedder)

// WithOverlayLimit caps how many overlay canvases a frame may allocate.
// Views composited past the limit share the canvas below them.
func WithOverlayLimit(n int) Option {
	return func(e *ViewEmbedder) {
		if n >= 0 {
			e.overlayLimit = n
		}
	}
}

// composited is one view announced during the current frame.
type composited struct {
	id      int64
	params  layer.EmbeddedViewParams
	overlay *recording.Recorder
}

// ViewEmbedder implements layer.ViewEmbedder.
//
// ViewEmbedder is safe for concurrent use, though a frame is expected to be
// driven from one goroutine.
type ViewEmbedder struct {
	overlayLimit int

	mu        sync.Mutex
	views     map[int64]View
	frameSize geom.Size
	frame     []composited
	index     map[int64]int
	err       error
	previous  []int64
	frameID   uint64
}

var _ layer.ViewEmbedder = (*ViewEmbedder)(nil)

// New creates an embedder with no views.
func New(opts ...Option) *ViewEmbedder {
	e := &ViewEmbedder{
		overlayLimit: DefaultOverlayLimit,
		views:        make(map[int64]View),
		index:        make(map[int64]int),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Create registers a view built by factory under id.
func (e *ViewEmbedder) Create(id int64, factory ViewFactory) error {
	if factory == nil {
		return ErrNilFactory
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.views[id]; ok {
		return fmt.Errorf("%w: %d", ErrViewExists, id)
	}
	v, err := factory(id)
	if err != nil {
		return fmt.Errorf("embedder: create view %d: %w", id, err)
	}
	e.views[id] = v
	flute.Logger().Debug("embedder: view created", "id", id)
	return nil
}

// Dispose hides and releases the view registered under id.
func (e *ViewEmbedder) Dispose(id int64) error {
	e.mu.Lock()
	v, ok := e.views[id]
	if ok {
		delete(e.views, id)
		e.previous = slices.DeleteFunc(e.previous, func(p int64) bool { return p == id })
	}
	e.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownView, id)
	}
	v.Hide()
	if c, ok := v.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("embedder: dispose view %d: %w", id, err)
		}
	}
	return nil
}

// Views returns the registered view ids in ascending order.
func (e *ViewEmbedder) Views() []int64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]int64, 0, len(e.views))
	for id := range e.views {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// BeginFrame starts a frame of the given size, discarding any frame that was
// not submitted. Overlay canvases cull to the frame bounds.
func (e *ViewEmbedder) BeginFrame(size geom.Size) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.frameSize = size
	e.resetFrame()
}

func (e *ViewEmbedder) resetFrame() {
	e.frame = e.frame[:0]
	clear(e.index)
	e.err = nil
}

func (e *ViewEmbedder) overlayCull() geom.Rect {
	if e.frameSize.IsEmpty() {
		return geom.Largest()
	}
	return geom.FromOffsetSize(geom.Offset{}, e.frameSize)
}

// PrerollCompositeEmbeddedView implements layer.ViewEmbedder. It records the
// view's parameters and its position in the composition order.
func (e *ViewEmbedder) PrerollCompositeEmbeddedView(viewID int64, params layer.EmbeddedViewParams) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.views[viewID]; !ok {
		e.fail(fmt.Errorf("%w: %d", ErrUnknownView, viewID))
		return
	}
	if _, ok := e.index[viewID]; ok {
		e.fail(fmt.Errorf("%w: %d", ErrDuplicateView, viewID))
		return
	}

	c := composited{id: viewID, params: params}
	if len(e.frame) < e.overlayLimit {
		c.overlay = recording.BeginRecording(e.overlayCull())
	}
	e.index[viewID] = len(e.frame)
	e.frame = append(e.frame, c)
}

func (e *ViewEmbedder) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

// OverlayCanvases implements layer.ViewEmbedder.
func (e *ViewEmbedder) OverlayCanvases() []gfx.Canvas {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []gfx.Canvas
	for _, c := range e.frame {
		if c.overlay != nil {
			out = append(out, c.overlay)
		}
	}
	return out
}

// CompositeEmbeddedView implements layer.ViewEmbedder. It returns the
// overlay for content above viewID, or nil when the view has none.
func (e *ViewEmbedder) CompositeEmbeddedView(viewID int64) gfx.Canvas {
	e.mu.Lock()
	defer e.mu.Unlock()

	i, ok := e.index[viewID]
	if !ok || e.frame[i].overlay == nil {
		return nil
	}
	return e.frame[i].overlay
}

// SubmitFrame finishes the frame: it places every composited view, hides the
// views that left the composition, and returns the result. The frame state
// is reset whether or not an error is returned.
func (e *ViewEmbedder) SubmitFrame() (*Composition, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.resetFrame()

	if e.err != nil {
		return nil, e.err
	}

	e.frameID++
	comp := &Composition{
		FrameID: e.frameID,
		Views:   make([]Placement, len(e.frame)),
	}
	order := make([]int64, len(e.frame))
	for i, c := range e.frame {
		p := place(c.id, c.params)
		if c.overlay != nil {
			p.Overlay = c.overlay.EndRecording()
		}
		comp.Views[i] = p
		order[i] = c.id
	}
	comp.Diff = diffOrder(e.previous, order)

	for _, id := range comp.Diff.Removed {
		if v, ok := e.views[id]; ok {
			v.Hide()
		}
	}
	for _, p := range comp.Views {
		if v, ok := e.views[p.ViewID]; ok {
			v.Place(p)
		}
	}
	e.previous = order

	flute.Logger().Debug("embedder: frame submitted",
		"frame", comp.FrameID,
		"views", len(comp.Views),
		"added", len(comp.Diff.Added),
		"moved", len(comp.Diff.Moved),
		"removed", len(comp.Diff.Removed))
	return comp, nil
}
