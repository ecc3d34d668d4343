// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gfx

import (
	"math"

	"github.com/gogpu/flute/geom"
)

// Shadow light model, in physical pixels.
const (
	shadowLightHeight = 600.0
	shadowLightRadius = 800.0

	ambientHeightFactor = 1.0 / 128.0
	ambientGeomFactor   = 64.0
	maxAmbientRadius    = 300 * ambientHeightFactor * ambientGeomFactor
)

// ShadowBounds is the shadow bounds model shared by the bundled backends.
//
// The ambient shadow grows the path by a blur proportional to elevation.
// The spot shadow is cast by a disc light above the path: the shape is
// magnified by the occluder's height and blurred by the light's radius.
// The bundled backends draw the occluder shifted down by half the elevation
// and blur it with that same sigma, so the outset also covers the shift plus
// three sigma of blur in device pixels. The result is the path bounds
// inflated by the largest of the three, scaled back into the local space of
// ctm.
func ShadowBounds(pathBounds geom.Rect, elevation, dpr float64, ctm geom.Matrix4) geom.Rect {
	if elevation == 0 || pathBounds.IsEmpty() {
		return pathBounds
	}
	if dpr <= 0 {
		dpr = 1
	}

	ambient := math.Min(elevation*ambientHeightFactor*ambientGeomFactor, maxAmbientRadius)

	occluder := math.Min(math.Abs(elevation)*dpr, 0.95*shadowLightHeight)
	zRatio := occluder / (shadowLightHeight - occluder)
	magnify := shadowLightHeight / (shadowLightHeight - occluder)
	spotBlur := shadowLightRadius * zRatio / dpr
	spot := (magnify-1)*math.Max(pathBounds.Width(), pathBounds.Height())/2 + spotBlur

	outset := math.Max(ambient, spot)
	if s := deviceScale(ctm); s > 0 {
		outset /= s
	}
	if s := minScale(ctm); s > 0 {
		outset = math.Max(outset, ShadowReach(elevation, dpr)/s)
	}
	return pathBounds.Inflate(outset)
}

// ShadowOffset is the downward shift of the occluder in device pixels. It
// is also the blur sigma.
func ShadowOffset(elevation, dpr float64) float64 {
	if dpr <= 0 {
		dpr = 1
	}
	return math.Abs(elevation) * dpr / 2
}

// ShadowReach is how far a drawn shadow extends past the occluder in device
// pixels: the shift, a blur kernel of three sigma and one pixel of
// anti-aliasing.
func ShadowReach(elevation, dpr float64) float64 {
	sigma := ShadowOffset(elevation, dpr)
	return sigma + math.Ceil(3*sigma) + 1
}

// deviceScale approximates the uniform scale of the 2D part of m.
func deviceScale(m geom.Matrix4) float64 {
	if m.IsTranslate() {
		return 1
	}
	return math.Sqrt(math.Abs(m[0]*m[5] - m[1]*m[4]))
}

// minScale is the smallest singular value of the 2D part of m: no local
// vector of length d maps to a device vector shorter than d*minScale.
func minScale(m geom.Matrix4) float64 {
	if m.IsTranslate() {
		return 1
	}
	a, b, c, d := m[0], m[4], m[1], m[5]
	sum := a*a + b*b + c*c + d*d
	det := a*d - b*c
	disc := math.Sqrt(math.Max(sum*sum-4*det*det, 0))
	return math.Sqrt(math.Max((sum-disc)/2, 0))
}
