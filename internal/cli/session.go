// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/gogpu/flute/embedder"
	"github.com/gogpu/flute/gfx"
	"github.com/gogpu/flute/internal/scenefile"
	"github.com/gogpu/flute/layer"
	"github.com/gogpu/flute/managed"
	"github.com/gogpu/flute/rastercache"
)

// session is a loaded scene wired to a compositor. Natives released during
// a frame are deleted between frames.
type session struct {
	scene *scenefile.Scene
	tree  *layer.LayerTree

	sched *managed.ManualScheduler
	queue *managed.Queue
	res   *gfx.Resources
	cache *rastercache.Cache
	views *embedder.ViewEmbedder
	comp  *layer.Compositor
}

// openScene loads path and prepares a compositor whose raster cache uses r.
func (c *CLI) openScene(path string, r rastercache.Rasterizer) (*session, error) {
	scene, err := scenefile.Load(path)
	if err != nil {
		return nil, err
	}
	backend, err := gfx.NewBackend(scene.Frame.Backend)
	if err != nil {
		return nil, err
	}

	s := &session{scene: scene, sched: &managed.ManualScheduler{}}
	s.queue = managed.NewQueue(
		managed.WithScheduler(s.sched),
		managed.WithErrorHandler(func(err error) { c.Logger.Warn("native delete failed", "err", err) }),
	)
	s.res = gfx.NewResources(backend, gfx.WithCollector(s.queue))

	s.tree, err = scene.Build(s.res)
	if err != nil {
		return nil, err
	}

	s.views = embedder.New()
	for l := range layer.All(s.tree.Root) {
		pv, ok := l.(*layer.PlatformViewLayer)
		if !ok || slices.Contains(s.views.Views(), pv.ViewID) {
			continue
		}
		if err := s.views.Create(pv.ViewID, loggedViews(c.Logger)); err != nil {
			return nil, err
		}
	}

	s.comp = &layer.Compositor{ViewEmbedder: s.views, Resources: s.res, Backend: backend}
	if !scene.Cache.Disabled && r != nil {
		s.cache = rastercache.New(r, scene.CacheOptions()...)
		s.comp.RasterCache = s.cache
	}
	c.Logger.Debug("scene loaded",
		"path", path,
		"layers", layer.Count(s.tree.Root),
		"backend", backend.Name(),
		"views", len(s.views.Views()))
	return s, nil
}

// frame composites one frame into canvas and runs the deferred deletes.
func (s *session) frame(canvas gfx.Canvas) (*embedder.Composition, error) {
	s.views.BeginFrame(s.tree.FrameSize)
	f := s.comp.Frame(canvas)
	f.Raster(s.tree, false)
	f.End()
	comp, err := s.views.SubmitFrame()
	s.sched.RunPending()
	if err != nil {
		return nil, fmt.Errorf("submit frame %d: %w", s.comp.Frames(), err)
	}
	return comp, nil
}

func (s *session) stats() []stat {
	q := s.queue.Stats()
	rows := []stat{
		{"frames", s.comp.Frames()},
		{"collected", q.Collected},
		{"deleted", q.Deleted},
		{"flushes", q.Flushes},
	}
	if s.cache != nil {
		cs := s.cache.Stats()
		rows = append(rows,
			stat{"cache entries", cs.Entries},
			stat{"rasterized", cs.Rasterized},
			stat{"hits", cs.Hits},
			stat{"misses", cs.Misses},
			stat{"hit rate", cs.HitRate},
			stat{"evictions", cs.Evictions},
			stat{"cache bytes", cs.Size},
		)
	}
	return rows
}

// loggedView stands in for native content. It logs where it is placed.
type loggedView struct {
	id     int64
	logger *log.Logger
}

func loggedViews(l *log.Logger) embedder.ViewFactory {
	return func(id int64) (embedder.View, error) {
		return &loggedView{id: id, logger: l}, nil
	}
}

func (v *loggedView) Place(p embedder.Placement) {
	v.logger.Debug("view placed", "id", v.id, "bounds", p.Bounds(), "visible", p.Visible)
}

func (v *loggedView) Hide() {
	v.logger.Debug("view hidden", "id", v.id)
}
