// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scenefile

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/gogpu/gg"

	"github.com/gogpu/flute/geom"
	"github.com/gogpu/flute/gfx"
	"github.com/gogpu/flute/layer"
	"github.com/gogpu/flute/recording"
)

// Build turns the scene into a layer tree. Paints and filters are created
// from res.
func (s *Scene) Build(res *gfx.Resources) (*layer.LayerTree, error) {
	b := layer.NewSceneBuilder(
		layer.WithFrameSize(geom.Size{Width: float64(s.Frame.Width), Height: float64(s.Frame.Height)}),
		layer.WithDevicePixelRatio(s.Frame.DPR),
	)
	bl := builder{res: res, b: b}
	for i := range s.Layers {
		if err := bl.add(&s.Layers[i], fmt.Sprintf("layer[%d]", i)); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

type builder struct {
	res *gfx.Resources
	b   *layer.SceneBuilder
}

func (bl *builder) add(l *Layer, where string) error {
	wrap := func(err error) error {
		return fmt.Errorf("%s (%s): %w", where, l.Kind, err)
	}
	switch l.Kind {
	case "picture":
		pic, err := bl.picture(l.Ops)
		if err != nil {
			return wrap(err)
		}
		off, err := offset(l.Offset)
		if err != nil {
			return wrap(err)
		}
		bl.b.AddPicture(off, pic, l.Complex, l.WillChange)
		return nil
	case "platform_view":
		off, err := offset(l.Offset)
		if err != nil {
			return wrap(err)
		}
		size, err := pair(l.Size, "size")
		if err != nil {
			return wrap(err)
		}
		bl.b.AddPlatformView(l.ViewID, off, geom.Size{Width: size[0], Height: size[1]})
		return nil
	}

	if err := bl.push(l); err != nil {
		return wrap(err)
	}
	defer bl.b.Pop()
	for i := range l.Children {
		if err := bl.add(&l.Children[i], fmt.Sprintf("%s.layer[%d]", where, i)); err != nil {
			return err
		}
	}
	return nil
}

// push opens the container described by l.
func (bl *builder) push(l *Layer) error {
	switch l.Kind {
	case "container", "offset":
		off, err := offset(l.Offset)
		if err != nil {
			return err
		}
		bl.b.PushOffset(off.X, off.Y)
	case "transform":
		m, err := transform(l)
		if err != nil {
			return err
		}
		bl.b.PushTransform(m)
	case "clip_rect":
		r, err := rect(l.Rect)
		if err != nil {
			return err
		}
		bl.b.PushClipRect(r, clipBehavior(l.Clip))
	case "clip_rrect":
		r, err := rect(l.Rect)
		if err != nil {
			return err
		}
		bl.b.PushClipRRect(geom.RRectXY(r, l.Radius, l.Radius), clipBehavior(l.Clip))
	case "clip_path":
		p, err := polygon(l.Points)
		if err != nil {
			return err
		}
		bl.b.PushClipPath(p, clipBehavior(l.Clip))
	case "opacity":
		alpha := 255
		if l.Alpha != nil {
			alpha = *l.Alpha
		}
		if alpha < 0 || alpha > 255 {
			return fmt.Errorf("%w: alpha %d", ErrBadValue, alpha)
		}
		off, err := offset(l.Offset)
		if err != nil {
			return err
		}
		bl.b.PushOpacity(uint8(alpha), off)
	case "color_filter":
		f, err := bl.colorFilter(l)
		if err != nil {
			return err
		}
		bl.b.PushColorFilter(f)
	case "image_filter":
		f, err := bl.imageFilter(l)
		if err != nil {
			return err
		}
		bl.b.PushImageFilter(f)
	case "backdrop_filter":
		f, err := bl.imageFilter(l)
		if err != nil {
			return err
		}
		bl.b.PushBackdropFilter(f, blendMode(l.Blend))
	case "shader_mask":
		r, err := rect(l.Rect)
		if err != nil {
			return err
		}
		sh, err := bl.gradient(l.Colors, l.Stops, r)
		if err != nil {
			return err
		}
		bl.b.PushShaderMask(sh, r, blendMode(l.Blend), gfx.FilterLow)
	case "physical_shape":
		r, err := rect(l.Rect)
		if err != nil {
			return err
		}
		col, err := ParseColor(l.Color)
		if err != nil {
			return err
		}
		shadow := gfx.Black
		if l.ShadowColor != "" {
			if shadow, err = ParseColor(l.ShadowColor); err != nil {
				return err
			}
		}
		path := gfx.RRectPath(geom.RRectXY(r, l.Radius, l.Radius))
		bl.b.PushPhysicalShape(path, l.Elevation, col, shadow, clipBehaviorOr(l.Clip, gfx.ClipNone))
	default:
		return ErrUnknownKind
	}
	return bl.b.Err()
}

func (bl *builder) colorFilter(l *Layer) (*gfx.ColorFilter, error) {
	switch {
	case l.Invert:
		return bl.res.NewMatrixColorFilter(gfx.InvertColorMatrix), nil
	case l.Tint != "":
		c, err := ParseColor(l.Tint)
		if err != nil {
			return nil, err
		}
		return bl.res.NewBlendColorFilter(c, blendModeOr(l.Blend, gfx.BlendModulate)), nil
	case len(l.Matrix) == 20:
		var m gfx.ColorMatrix
		for i, v := range l.Matrix {
			m[i] = float32(v)
		}
		return bl.res.NewMatrixColorFilter(m), nil
	}
	return nil, fmt.Errorf("%w: color_filter needs invert, tint or a 20-entry matrix", ErrBadValue)
}

func (bl *builder) imageFilter(l *Layer) (*gfx.ImageFilter, error) {
	var f *gfx.ImageFilter
	if l.Blur > 0 {
		f = bl.res.NewBlurImageFilter(l.Blur, l.Blur, gfx.TileClamp)
	}
	if l.Invert {
		inv := bl.res.NewColorFilterImageFilter(bl.res.NewMatrixColorFilter(gfx.InvertColorMatrix))
		f = bl.res.ComposeImageFilters(inv, f)
	}
	if len(l.Matrix) > 0 || len(l.Translate) > 0 || len(l.Scale) > 0 || l.Rotate != 0 {
		m, err := transform(l)
		if err != nil {
			return nil, err
		}
		f = bl.res.ComposeImageFilters(bl.res.NewMatrixImageFilter(m, gfx.FilterLow), f)
	}
	if f == nil {
		return nil, fmt.Errorf("%w: image filter needs blur, invert or a transform", ErrBadValue)
	}
	return f, nil
}

// gradient returns a left-to-right linear gradient across r.
func (bl *builder) gradient(names []string, stops []float64, r geom.Rect) (*gfx.Shader, error) {
	colors := make([]gfx.Color, len(names))
	for i, n := range names {
		c, err := ParseColor(n)
		if err != nil {
			return nil, err
		}
		colors[i] = c
	}
	return bl.res.NewLinearGradient(
		geom.Offset{X: r.Left, Y: r.Top},
		geom.Offset{X: r.Right, Y: r.Top},
		colors, stops, gfx.TileClamp)
}

// picture records ops. The cull rect is the bounds of what they draw.
func (bl *builder) picture(ops []Op) (*recording.Picture, error) {
	draws := make([]func(gfx.Canvas), len(ops))
	for i := range ops {
		fn, err := bl.op(&ops[i])
		if err != nil {
			return nil, fmt.Errorf("op[%d] (%s): %w", i, ops[i].Op, err)
		}
		draws[i] = fn
	}
	draw := func(c gfx.Canvas) {
		for _, fn := range draws {
			fn(c)
		}
	}
	probe := recording.BeginRecording(geom.Largest())
	draw(probe)
	return recording.Record(probe.Bounds(), draw), nil
}

func (bl *builder) op(op *Op) (func(gfx.Canvas), error) {
	p, err := bl.paint(op)
	if err != nil {
		return nil, err
	}
	switch op.Op {
	case "rect", "rrect", "shadow":
		r, err := rect(op.Rect)
		if err != nil {
			return nil, err
		}
		switch {
		case op.Op == "shadow":
			path := gfx.RRectPath(geom.RRectXY(r, op.Radius, op.Radius))
			col := p.Color()
			return func(c gfx.Canvas) { c.DrawShadow(path, col, op.Elevation, false, 1) }, nil
		case op.Op == "rrect" || op.Radius > 0:
			rr := geom.RRectXY(r, op.Radius, op.Radius)
			return func(c gfx.Canvas) { c.DrawRRect(rr, p) }, nil
		default:
			return func(c gfx.Canvas) { c.DrawRect(r, p) }, nil
		}
	case "path":
		path, err := polygon(op.Points)
		if err != nil {
			return nil, err
		}
		return func(c gfx.Canvas) { c.DrawPath(path, p) }, nil
	case "paint":
		return func(c gfx.Canvas) { c.DrawPaint(p) }, nil
	}
	return nil, ErrUnknownOp
}

func (bl *builder) paint(op *Op) (*gfx.Paint, error) {
	p := bl.res.NewPaint()
	if op.Color != "" {
		c, err := ParseColor(op.Color)
		if err != nil {
			return nil, err
		}
		p.SetColor(c)
	}
	if len(op.Colors) > 0 {
		r, err := rect(op.Rect)
		if err != nil {
			return nil, err
		}
		sh, err := bl.gradient(op.Colors, nil, r)
		if err != nil {
			return nil, err
		}
		p.SetShader(sh)
	}
	switch op.Style {
	case "", "fill":
	case "stroke":
		p.SetStyle(gfx.StyleStroke)
		p.SetStrokeWidth(max(op.StrokeWidth, 1))
	default:
		return nil, fmt.Errorf("%w: style %q", ErrBadValue, op.Style)
	}
	return p, nil
}

// ParseColor accepts #RGB, #RRGGBB, #AARRGGBB and SVG color names.
func ParseColor(s string) (gfx.Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if c, ok := colornames.Map[s]; ok {
		return gfx.ColorOf(c), nil
	}
	if s == "transparent" {
		return gfx.Transparent, nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	switch len(hex) {
	case 6:
		return gfx.Color(v) | 0xFF000000, nil
	case 8:
		return gfx.Color(v), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadColor, s)
}

func offset(v []float64) (geom.Offset, error) {
	if len(v) == 0 {
		return geom.Offset{}, nil
	}
	p, err := pair(v, "offset")
	return geom.Offset{X: p[0], Y: p[1]}, err
}

func pair(v []float64, name string) ([2]float64, error) {
	if len(v) != 2 {
		return [2]float64{}, fmt.Errorf("%w: %s needs 2 values, got %d", ErrBadValue, name, len(v))
	}
	return [2]float64{v[0], v[1]}, nil
}

// rect reads [left, top, width, height].
func rect(v []float64) (geom.Rect, error) {
	if len(v) != 4 {
		return geom.Rect{}, fmt.Errorf("%w: rect needs 4 values, got %d", ErrBadValue, len(v))
	}
	return geom.LTWH(v[0], v[1], v[2], v[3]), nil
}

// polygon reads flattened x, y pairs into a closed path.
func polygon(v []float64) (gfx.Path, error) {
	if len(v) < 6 || len(v)%2 != 0 {
		return nil, fmt.Errorf("%w: points needs at least 3 x, y pairs", ErrBadValue)
	}
	p := gg.NewPath()
	p.MoveTo(v[0], v[1])
	for i := 2; i < len(v); i += 2 {
		p.LineTo(v[i], v[i+1])
	}
	p.Close()
	return p, nil
}

// transform reads a 6-entry affine matrix [a b c d tx ty] or composes
// translate, rotate (degrees) and scale in that order.
func transform(l *Layer) (geom.Matrix4, error) {
	if len(l.Matrix) > 0 {
		if len(l.Matrix) != 6 {
			return geom.Matrix4{}, fmt.Errorf("%w: matrix needs 6 values, got %d", ErrBadValue, len(l.Matrix))
		}
		a := l.Matrix
		return geom.FromAffine(gg.Matrix{A: a[0], B: a[2], C: a[4], D: a[1], E: a[3], F: a[5]}), nil
	}
	m := geom.Identity()
	if len(l.Translate) > 0 {
		t, err := pair(l.Translate, "translate")
		if err != nil {
			return m, err
		}
		m = m.Translate(t[0], t[1])
	}
	if l.Rotate != 0 {
		m = m.Multiply(geom.RotationZ(l.Rotate * math.Pi / 180))
	}
	if len(l.Scale) > 0 {
		s, err := pair(l.Scale, "scale")
		if err != nil {
			return m, err
		}
		m = m.Multiply(geom.Scaling(s[0], s[1]))
	}
	return m, nil
}

func clipBehavior(name string) gfx.ClipBehavior {
	return clipBehaviorOr(name, gfx.ClipHardEdge)
}

func clipBehaviorOr(name string, def gfx.ClipBehavior) gfx.ClipBehavior {
	for _, b := range []gfx.ClipBehavior{gfx.ClipNone, gfx.ClipHardEdge, gfx.ClipAntiAlias, gfx.ClipAntiAliasWithSaveLayer} {
		if strings.EqualFold(name, b.String()) {
			return b
		}
	}
	return def
}

func blendMode(name string) gfx.BlendMode {
	return blendModeOr(name, gfx.BlendSrcOver)
}

func blendModeOr(name string, def gfx.BlendMode) gfx.BlendMode {
	for m := gfx.BlendClear; m <= gfx.BlendLuminosity; m++ {
		if strings.EqualFold(name, m.String()) {
			return m
		}
	}
	return def
}
