/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package xform maps between document, display and device coordinates.
//
// A View keeps the forward matrix (document→display) and its inverse in a
// single lazily rebuilt cell so both always come from the same inputs.
package xform

import (
	"log/slog"
	"math"

	"drawsurface/internal/geom"
	"drawsurface/internal/lazy"
	applog "drawsurface/internal/log"
)

// Zoom limits applied by ZoomAt.
const (
	MinZoom = 0.05
	MaxZoom = 64.0
)

type matrices struct {
	fwd, inv geom.Matrix
}

// View holds the scroll/zoom/rotation state of one surface.
type View struct {
	size        geom.Size
	scale       float64
	rotation    geom.Angle
	offset      geom.Point
	sheetScale  float64
	sheetOffset geom.Point
	deviceScale float64

	epoch uint64
	mats  *lazy.Value[matrices]
	log   *slog.Logger
}

// NewView returns an identity view of the given display size.
func NewView(size geom.Size, logger *slog.Logger) *View {
	if logger == nil {
		logger = applog.WithComponent("xform")
	}
	v := &View{size: size, scale: 1, sheetScale: 1, deviceScale: 1, log: logger}
	v.mats = lazy.New(v.build)
	return v
}

func (v *View) build() matrices {
	s := v.EffectiveScale()
	o := v.offset.Add(v.sheetOffset)
	fwd := geom.Scale(s, s).Mul(geom.Rotate(v.rotation)).Mul(geom.Translate(-o.X, -o.Y))
	inv := geom.Translate(o.X, o.Y).Mul(geom.Rotate(-v.rotation)).Mul(geom.Scale(1/s, 1/s))
	return matrices{fwd: fwd, inv: inv}
}

func (v *View) changed() {
	v.epoch++
	v.mats.Invalidate()
}

// Epoch increases on every input change. Dependents use it as a stamp.
func (v *View) Epoch() uint64 { return v.epoch }

// coerce replaces an unusable scale factor with 1.
func (v *View) coerce(what string, s float64) float64 {
	if s > 0 && !math.IsInf(s, 0) && !math.IsNaN(s) {
		return s
	}
	v.log.Warn("invalid scale coerced to 1", slog.String("field", what), slog.Float64("value", s))
	return 1
}

func (v *View) Size() geom.Size { return v.size }
func (v *View) SetSize(s geom.Size) {
	if s != v.size {
		v.size = s
		v.changed()
	}
}

func (v *View) Scale() float64 { return v.scale }

// SetScale sets the zoom factor. Zero, negative and non-finite values
// become 1.
func (v *View) SetScale(s float64) {
	s = v.coerce("scale", s)
	if s != v.scale {
		v.scale = s
		v.changed()
	}
}

func (v *View) Rotation() geom.Angle { return v.rotation }
func (v *View) SetRotation(a geom.Angle) {
	if a != v.rotation {
		v.rotation = a
		v.changed()
	}
}

// Offset is the document point shown at the display origin (before the
// sheet offset is added).
func (v *View) Offset() geom.Point { return v.offset }
func (v *View) SetOffset(p geom.Point) {
	if p != v.offset {
		v.offset = p
		v.changed()
	}
}

// SetSheet composes a sheet's own scale and offset into the view.
func (v *View) SetSheet(scale float64, offset geom.Point) {
	scale = v.coerce("sheet_scale", scale)
	if scale != v.sheetScale || offset != v.sheetOffset {
		v.sheetScale, v.sheetOffset = scale, offset
		v.changed()
	}
}

func (v *View) DeviceScale() float64 { return v.deviceScale }
func (v *View) SetDeviceScale(s float64) {
	s = v.coerce("device_scale", s)
	if s != v.deviceScale {
		v.deviceScale = s
		v.changed()
	}
}

// EffectiveScale is zoom times sheet scale.
func (v *View) EffectiveScale() float64 { return v.scale * v.sheetScale }

// Forward returns the document→display matrix.
func (v *View) Forward() geom.Matrix { return v.mats.Get().fwd }

// Inverse returns the display→document matrix.
func (v *View) Inverse() geom.Matrix { return v.mats.Get().inv }

func (v *View) ToDisplay(p geom.Point) geom.Point  { return v.Forward().Apply(p) }
func (v *View) ToDocument(p geom.Point) geom.Point { return v.Inverse().Apply(p) }

// DisplayDeltaToDocument converts a display-space displacement.
func (v *View) DisplayDeltaToDocument(d geom.Point) geom.Point {
	return v.Inverse().ApplyVector(d)
}

// DocumentDeltaToDisplay converts a document-space displacement.
func (v *View) DocumentDeltaToDisplay(d geom.Point) geom.Point {
	return v.Forward().ApplyVector(d)
}

func (v *View) ToDevice(p geom.Point) geom.Point   { return p.Mul(v.deviceScale) }
func (v *View) FromDevice(p geom.Point) geom.Point { return p.Mul(1 / v.deviceScale) }

// Viewport is the display rectangle covered by the surface.
func (v *View) Viewport() geom.Rect { return geom.R(0, 0, v.size.W, v.size.H) }

// VisibleDocumentRect is the document-space bounds of the viewport.
func (v *View) VisibleDocumentRect() geom.Rect {
	return v.Inverse().TransformRect(v.Viewport())
}

// ZoomAt multiplies the zoom by factor while keeping the document point
// under display point at fixed on screen.
func (v *View) ZoomAt(at geom.Point, factor float64) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return
	}
	doc := v.ToDocument(at)
	ns := math.Min(MaxZoom, math.Max(MinZoom, v.scale*factor))
	if ns == v.scale {
		return
	}
	v.scale = ns
	es := v.EffectiveScale()
	back := geom.Rotate(-v.rotation).ApplyVector(at).Mul(1 / es)
	v.offset = doc.Sub(back).Sub(v.sheetOffset)
	v.changed()
}

// ScrollBy moves the viewport by a display-space displacement.
func (v *View) ScrollBy(d geom.Point) {
	if d.IsZero() {
		return
	}
	v.offset = v.offset.Add(v.DisplayDeltaToDocument(d))
	v.changed()
}
