// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layer

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/flute/geom"
	"github.com/gogpu/flute/gfx"
)

// Builder errors.
var (
	// ErrInvalidGeometry reports a NaN or infinite coordinate, matrix entry or
	// a negative size.
	ErrInvalidGeometry = errors.New("layer: invalid geometry")

	// ErrNilResource reports a missing path, picture, filter or shader.
	ErrNilResource = errors.New("layer: nil resource")

	// ErrClipNone reports a clip layer pushed with gfx.ClipNone.
	ErrClipNone = errors.New("layer: clip layer with ClipNone")

	// ErrBuilt reports use of a builder after Build.
	ErrBuilt = errors.New("layer: builder already built")
)

// BuilderOption configures a SceneBuilder.
type BuilderOption func(*SceneBuilder)

// WithFrameSize sets the frame size of the built tree.
func WithFrameSize(s geom.Size) BuilderOption {
	return func(b *SceneBuilder) {
		b.frameSize = s
	}
}

// WithDevicePixelRatio sets the device pixel ratio of the built tree.
func WithDevicePixelRatio(dpr float64) BuilderOption {
	return func(b *SceneBuilder) {
		b.dpr = dpr
	}
}

// SceneBuilder assembles a layer tree with push/pop calls.
//
// Input is validated as it arrives. The first invalid call is remembered and
// returned by Build; the offending push still opens an inert container so
// that the caller's Pop calls stay paired, and the method returns nil.
type SceneBuilder struct {
	root      *RootLayer
	stack     []Container
	frameSize geom.Size
	dpr       float64
	err       error
	built     bool
}

// NewSceneBuilder returns a builder with an empty root.
func NewSceneBuilder(opts ...BuilderOption) *SceneBuilder {
	root := NewRootLayer()
	b := &SceneBuilder{
		root:  root,
		stack: []Container{root},
		dpr:   1,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Err returns the first recorded error.
func (b *SceneBuilder) Err() error {
	return b.err
}

// Depth returns the number of open pushes.
func (b *SceneBuilder) Depth() int {
	return len(b.stack) - 1
}

func (b *SceneBuilder) current() Container {
	return b.stack[len(b.stack)-1]
}

// check records err for op and reports whether the call may proceed.
func (b *SceneBuilder) check(op string, err error) bool {
	if b.built && err == nil {
		err = ErrBuilt
	}
	if err == nil {
		return true
	}
	if b.err == nil {
		b.err = fmt.Errorf("layer: %s: %w", op, err)
	}
	return false
}

func (b *SceneBuilder) push(c Container) {
	b.current().Add(c)
	b.stack = append(b.stack, c)
}

// pushInert keeps Pop calls balanced after a rejected push.
func (b *SceneBuilder) pushInert() {
	b.stack = append(b.stack, NewContainerLayer())
}

// PushOffset opens a translated group.
func (b *SceneBuilder) PushOffset(dx, dy float64) *OffsetLayer {
	if !b.check("PushOffset", validOffset(geom.Offset{X: dx, Y: dy})) {
		b.pushInert()
		return nil
	}
	l := NewOffsetLayer(dx, dy)
	b.push(l)
	return l
}

// PushTransform opens a transformed group.
func (b *SceneBuilder) PushTransform(m geom.Matrix4) *TransformLayer {
	if !b.check("PushTransform", validMatrix(m)) {
		b.pushInert()
		return nil
	}
	l := NewTransformLayer(m)
	b.push(l)
	return l
}

// PushClipRect opens a group clipped to r.
func (b *SceneBuilder) PushClipRect(r geom.Rect, behavior gfx.ClipBehavior) *ClipRectLayer {
	if !b.check("PushClipRect", errors.Join(validRect(r), validClip(behavior))) {
		b.pushInert()
		return nil
	}
	l := NewClipRectLayer(r, behavior)
	b.push(l)
	return l
}

// PushClipRRect opens a group clipped to rr.
func (b *SceneBuilder) PushClipRRect(rr geom.RRect, behavior gfx.ClipBehavior) *ClipRRectLayer {
	var err error
	if !rr.IsFinite() {
		err = ErrInvalidGeometry
	}
	if !b.check("PushClipRRect", errors.Join(err, validClip(behavior))) {
		b.pushInert()
		return nil
	}
	l := NewClipRRectLayer(rr, behavior)
	b.push(l)
	return l
}

// PushClipPath opens a group clipped to p.
func (b *SceneBuilder) PushClipPath(p gfx.Path, behavior gfx.ClipBehavior) *ClipPathLayer {
	if !b.check("PushClipPath", errors.Join(validPath(p), validClip(behavior))) {
		b.pushInert()
		return nil
	}
	l := NewClipPathLayer(p, behavior)
	b.push(l)
	return l
}

// PushOpacity opens a group composited with alpha.
func (b *SceneBuilder) PushOpacity(alpha uint8, offset geom.Offset) *OpacityLayer {
	if !b.check("PushOpacity", validOffset(offset)) {
		b.pushInert()
		return nil
	}
	l := NewOpacityLayer(alpha, offset)
	b.push(l)
	return l
}

// PushColorFilter opens a group filtered by f.
func (b *SceneBuilder) PushColorFilter(f *gfx.ColorFilter) *ColorFilterLayer {
	if !b.check("PushColorFilter", nonNil(f == nil, "color filter")) {
		b.pushInert()
		return nil
	}
	l := NewColorFilterLayer(f)
	b.push(l)
	return l
}

// PushImageFilter opens a group filtered by f.
func (b *SceneBuilder) PushImageFilter(f *gfx.ImageFilter) *ImageFilterLayer {
	if !b.check("PushImageFilter", nonNil(f == nil, "image filter")) {
		b.pushInert()
		return nil
	}
	l := NewImageFilterLayer(f)
	b.push(l)
	return l
}

// PushBackdropFilter opens a group drawn over a filtered backdrop.
func (b *SceneBuilder) PushBackdropFilter(f *gfx.ImageFilter, mode gfx.BlendMode) *BackdropFilterLayer {
	if !b.check("PushBackdropFilter", nonNil(f == nil, "image filter")) {
		b.pushInert()
		return nil
	}
	l := NewBackdropFilterLayer(f, mode)
	b.push(l)
	return l
}

// PushShaderMask opens a group masked by s over maskRect.
func (b *SceneBuilder) PushShaderMask(s *gfx.Shader, maskRect geom.Rect, mode gfx.BlendMode, q gfx.FilterQuality) *ShaderMaskLayer {
	if !b.check("PushShaderMask", errors.Join(nonNil(s == nil, "shader"), validRect(maskRect))) {
		b.pushInert()
		return nil
	}
	l := NewShaderMaskLayer(s, maskRect, mode, q)
	b.push(l)
	return l
}

// PushPhysicalShape opens a group drawn on a filled, shadowed path.
// ClipNone is allowed and leaves the children unclipped.
func (b *SceneBuilder) PushPhysicalShape(p gfx.Path, elevation float64, color, shadowColor gfx.Color, behavior gfx.ClipBehavior) *PhysicalShapeLayer {
	var err error
	if !isFinite(elevation) || elevation < 0 {
		err = ErrInvalidGeometry
	}
	if !b.check("PushPhysicalShape", errors.Join(validPath(p), err)) {
		b.pushInert()
		return nil
	}
	l := NewPhysicalShapeLayer(p, elevation, color, shadowColor, behavior)
	b.push(l)
	return l
}

// Pop closes the innermost open group. Popping at the root does nothing.
func (b *SceneBuilder) Pop() {
	if len(b.stack) > 1 {
		b.stack = b.stack[:len(b.stack)-1]
	}
}

// AddPicture adds a picture leaf at offset.
func (b *SceneBuilder) AddPicture(offset geom.Offset, pic gfx.Picture, isComplex, willChange bool) *PictureLayer {
	if !b.check("AddPicture", errors.Join(validOffset(offset), nonNil(pic == nil, "picture"))) {
		return nil
	}
	l := NewPictureLayer(pic, offset, isComplex, willChange)
	b.current().Add(l)
	return l
}

// AddPlatformView adds a platform view leaf.
func (b *SceneBuilder) AddPlatformView(viewID int64, offset geom.Offset, size geom.Size) *PlatformViewLayer {
	var err error
	if !size.IsValid() {
		err = ErrInvalidGeometry
	}
	if !b.check("AddPlatformView", errors.Join(validOffset(offset), err)) {
		return nil
	}
	l := NewPlatformViewLayer(viewID, offset, size)
	b.current().Add(l)
	return l
}

// remover is implemented by every container layer.
type remover interface {
	remove(child Layer)
}

// AddRetained adds a layer kept from a previous frame, detaching it from
// its old parent.
func (b *SceneBuilder) AddRetained(l Layer) {
	if !b.check("AddRetained", nonNil(l == nil, "layer")) {
		return
	}
	if p, ok := l.Parent().(remover); ok {
		p.remove(l)
	}
	b.current().Add(l)
}

// Build returns the tree. The builder must not be used afterwards.
func (b *SceneBuilder) Build() (*LayerTree, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.built {
		return nil, ErrBuilt
	}
	b.built = true
	if !b.frameSize.IsValid() || !isFinite(b.dpr) || b.dpr <= 0 {
		return nil, fmt.Errorf("layer: Build: frame %vx%v at %v: %w", b.frameSize.Width, b.frameSize.Height, b.dpr, ErrInvalidGeometry)
	}
	return &LayerTree{
		Root:             b.root,
		FrameSize:        b.frameSize,
		DevicePixelRatio: b.dpr,
	}, nil
}

func validOffset(o geom.Offset) error {
	if !o.IsFinite() {
		return ErrInvalidGeometry
	}
	return nil
}

func validRect(r geom.Rect) error {
	if !r.IsFinite() {
		return ErrInvalidGeometry
	}
	return nil
}

func validMatrix(m geom.Matrix4) error {
	if !m.IsFinite() {
		return ErrInvalidGeometry
	}
	return nil
}

func validPath(p gfx.Path) error {
	if p == nil {
		return fmt.Errorf("path: %w", ErrNilResource)
	}
	return nil
}

func validClip(b gfx.ClipBehavior) error {
	if b == gfx.ClipNone {
		return ErrClipNone
	}
	return nil
}

func nonNil(isNil bool, what string) error {
	if isNil {
		return fmt.Errorf("%s: %w", what, ErrNilResource)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
