// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package scenefile reads TOML scene descriptions and turns them into layer
// trees.
//
// A scene has a [frame] table, an optional [cache] table and a list of
// [[layer]] tables. Container layers nest their children as [[layer.layer]]
// and picture layers list their drawing commands as [[layer.op]]:
//
//	[frame]
//	width = 200
//	height = 120
//	dpr = 2.0
//	background = "white"
//
//	[[layer]]
//	kind = "opacity"
//	alpha = 128
//
//	  [[layer.layer]]
//	  kind = "picture"
//	  offset = [10, 10]
//
//	    [[layer.layer.op]]
//	    op = "rect"
//	    rect = [0, 0, 50, 30]
//	    color = "#ff0000"
package scenefile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/flute/gfx"
	"github.com/gogpu/flute/rastercache"
)

// Defaults applied to missing [frame] and [cache] values.
const (
	DefaultWidth   = 256
	DefaultHeight  = 256
	DefaultBackend = "raster"
)

// Errors.
var (
	ErrUnknownKey  = errors.New("scenefile: unknown key")
	ErrUnknownKind = errors.New("scenefile: unknown layer kind")
	ErrUnknownOp   = errors.New("scenefile: unknown op")
	ErrBadColor    = errors.New("scenefile: bad color")
	ErrBadValue    = errors.New("scenefile: bad value")
)

// Scene is a decoded scene file.
type Scene struct {
	Frame  Frame   `toml:"frame"`
	Cache  Cache   `toml:"cache"`
	Layers []Layer `toml:"layer"`
}

// Frame describes the output surface.
type Frame struct {
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	DPR        float64 `toml:"dpr"`
	Backend    string  `toml:"backend"`
	Background string  `toml:"background"`
}

// Cache configures the raster cache.
type Cache struct {
	Disabled  bool  `toml:"disabled"`
	Threshold int   `toml:"threshold"`
	BudgetMB  int64 `toml:"budget_mb"`
}

// Layer is one node of the layer tree. Only the fields of Kind are used.
type Layer struct {
	Kind string `toml:"kind"`

	Offset    []float64 `toml:"offset"`
	Rect      []float64 `toml:"rect"`
	Radius    float64   `toml:"radius"`
	Points    []float64 `toml:"points"`
	Clip      string    `toml:"clip"`
	Alpha     *int      `toml:"alpha"`
	Matrix    []float64 `toml:"matrix"`
	Translate []float64 `toml:"translate"`
	Scale     []float64 `toml:"scale"`
	Rotate    float64   `toml:"rotate"`

	Blur   float64   `toml:"blur"`
	Invert bool      `toml:"invert"`
	Tint   string    `toml:"tint"`
	Blend  string    `toml:"blend"`
	Colors []string  `toml:"colors"`
	Stops  []float64 `toml:"stops"`

	Elevation   float64 `toml:"elevation"`
	Color       string  `toml:"color"`
	ShadowColor string  `toml:"shadow_color"`

	ViewID int64     `toml:"view_id"`
	Size   []float64 `toml:"size"`

	Complex    bool `toml:"complex"`
	WillChange bool `toml:"will_change"`
	Ops        []Op `toml:"op"`

	Children []Layer `toml:"layer"`
}

// Op is one drawing command of a picture layer.
type Op struct {
	Op          string    `toml:"op"`
	Rect        []float64 `toml:"rect"`
	Radius      float64   `toml:"radius"`
	Points      []float64 `toml:"points"`
	Color       string    `toml:"color"`
	Colors      []string  `toml:"colors"`
	Style       string    `toml:"style"`
	StrokeWidth float64   `toml:"stroke_width"`
	Elevation   float64   `toml:"elevation"`
}

// Load reads and parses the scene file at path.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a scene and fills in defaults. Keys the scene format does
// not define are rejected.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	md, err := toml.Decode(string(data), &s)
	if err != nil {
		return nil, fmt.Errorf("scenefile: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(keys, ", "))
	}
	s.setDefaults()
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scene) setDefaults() {
	if s.Frame.Width == 0 {
		s.Frame.Width = DefaultWidth
	}
	if s.Frame.Height == 0 {
		s.Frame.Height = DefaultHeight
	}
	if s.Frame.DPR == 0 {
		s.Frame.DPR = 1
	}
	if s.Frame.Backend == "" {
		s.Frame.Backend = DefaultBackend
	}
}

func (s *Scene) validate() error {
	switch {
	case s.Frame.Width < 0 || s.Frame.Height < 0:
		return fmt.Errorf("%w: frame size %dx%d", ErrBadValue, s.Frame.Width, s.Frame.Height)
	case s.Frame.DPR < 0:
		return fmt.Errorf("%w: dpr %g", ErrBadValue, s.Frame.DPR)
	case s.Cache.Threshold < 0 || s.Cache.BudgetMB < 0:
		return fmt.Errorf("%w: cache threshold %d budget %d", ErrBadValue, s.Cache.Threshold, s.Cache.BudgetMB)
	}
	if s.Frame.Background != "" {
		if _, err := ParseColor(s.Frame.Background); err != nil {
			return err
		}
	}
	return nil
}

// Background returns the frame background color, transparent when unset.
func (s *Scene) Background() gfx.Color {
	c, err := ParseColor(s.Frame.Background)
	if err != nil {
		return gfx.Transparent
	}
	return c
}

// CacheOptions returns the raster cache options of the scene.
func (s *Scene) CacheOptions() []rastercache.Option {
	var opts []rastercache.Option
	if s.Cache.Threshold > 0 {
		opts = append(opts, rastercache.WithAccessThreshold(s.Cache.Threshold))
	}
	if s.Cache.BudgetMB > 0 {
		opts = append(opts, rastercache.WithCapacity(s.Cache.BudgetMB<<20))
	}
	return opts
}
