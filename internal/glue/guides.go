/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package glue

import (
	"math"

	"drawsurface/internal/geom"
	"drawsurface/internal/shape"
)

// SnapOptions controls which alignment candidates the guide responder
// considers.
type SnapOptions struct {
	// Threshold is the maximum distance, in document units, at which
	// snapping occurs.
	Threshold     float64
	SnapToEdges   bool
	SnapToCenters bool
}

// Anchor is a static reference rectangle. Higher weights win ties.
type Anchor struct {
	Rect   geom.Rect
	Weight float64
}

// Orientation of a guide line.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

// GuideLine is an alignment line to draw while a snap is in effect.
type GuideLine struct {
	Orientation Orientation
	Center      bool // aligned on centres rather than edges
	Position    float64
	From, To    geom.Point
}

// AlignRect snaps a moving rectangle against anchors, independently on X
// and Y. It returns the snapped rectangle and the guides that caused it.
func AlignRect(moving geom.Rect, anchors []Anchor, opts SnapOptions) (geom.Rect, []GuideLine) {
	if opts.Threshold <= 0 {
		opts.Threshold = 6
	}
	bx := axisBest{dist: math.Inf(1)}
	by := axisBest{dist: math.Inf(1)}

	mL, mR, mT, mB := moving.X, moving.X+moving.W, moving.Y, moving.Y+moving.H
	mCX, mCY := moving.X+moving.W/2, moving.Y+moving.H/2

	for _, a := range anchors {
		aL, aR, aT, aB := a.Rect.X, a.Rect.X+a.Rect.W, a.Rect.Y, a.Rect.Y+a.Rect.H
		aCX, aCY := a.Rect.X+a.Rect.W/2, a.Rect.Y+a.Rect.H/2
		v := func(x float64, center bool) GuideLine { return vertical(x, moving, a.Rect, center) }
		h := func(y float64, center bool) GuideLine { return horizontal(y, moving, a.Rect, center) }

		if opts.SnapToEdges {
			bx.consider(mL-aL, opts.Threshold, a.Weight, v(aL, false))
			bx.consider(mR-aR, opts.Threshold, a.Weight, v(aR, false))
			bx.consider(mL-aR, opts.Threshold, a.Weight, v(aR, false))
			bx.consider(mR-aL, opts.Threshold, a.Weight, v(aL, false))
			by.consider(mT-aT, opts.Threshold, a.Weight, h(aT, false))
			by.consider(mB-aB, opts.Threshold, a.Weight, h(aB, false))
			by.consider(mT-aB, opts.Threshold, a.Weight, h(aB, false))
			by.consider(mB-aT, opts.Threshold, a.Weight, h(aT, false))
		}
		if opts.SnapToCenters {
			bx.consider(mCX-aCX, opts.Threshold, a.Weight, v(aCX, true))
			by.consider(mCY-aCY, opts.Threshold, a.Weight, h(aCY, true))
		}
	}

	snapped := moving
	var guides []GuideLine
	if bx.found {
		snapped.X = round3(moving.X - bx.delta)
		guides = append(guides, bx.guide)
	}
	if by.found {
		snapped.Y = round3(moving.Y - by.delta)
		guides = append(guides, by.guide)
	}
	return snapped, guides
}

type axisBest struct {
	delta, dist, score float64
	guide              GuideLine
	found              bool
}

func (b *axisBest) consider(delta, threshold, weight float64, g GuideLine) {
	dist := math.Abs(delta)
	if dist > threshold {
		return
	}
	score := dist / math.Max(1, weight)
	if !b.found || score < b.score {
		b.delta, b.dist, b.score, b.guide, b.found = delta, dist, score, g, true
	}
}

func vertical(x float64, a, b geom.Rect, center bool) GuideLine {
	x = round3(x)
	minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y+a.H, b.Y+b.H)
	return GuideLine{Orientation: Vertical, Center: center, Position: x, From: geom.Pt(x, minY), To: geom.Pt(x, maxY)}
}

func horizontal(y float64, a, b geom.Rect, center bool) GuideLine {
	y = round3(y)
	minX, maxX := math.Min(a.X, b.X), math.Max(a.X+a.W, b.X+b.W)
	return GuideLine{Orientation: Horizontal, Center: center, Position: y, From: geom.Pt(minX, y), To: geom.Pt(maxX, y)}
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

// Guides is a responder aligning the dragged shape's bounds with anchor
// rectangles. It remembers the guide lines of the last query it accepted
// for each shape so they can be drawn.
type Guides struct {
	Options SnapOptions
	Anchors func(*shape.Shape) []Anchor
	lines   map[*shape.Shape][]GuideLine
}

func NewGuides(opts SnapOptions, anchors func(*shape.Shape) []Anchor) *Guides {
	return &Guides{Options: opts, Anchors: anchors, lines: make(map[*shape.Shape][]GuideLine)}
}

// Respond implements Responder.
func (g *Guides) Respond(q *Query) {
	if g.Anchors == nil || q.Shape == nil {
		return
	}
	// Bounds as they would be at the unsnapped pin.
	moving := q.Shape.Bounds().Translate(q.ProposedPin().Sub(q.Shape.DocPin()))
	snapped, lines := AlignRect(moving, g.Anchors(q.Shape), g.Options)
	if len(lines) == 0 {
		delete(g.lines, q.Shape)
		return
	}
	off := snapped.Min().Sub(moving.Min())
	if q.AcceptPin(q.ProposedPin().Add(off), off.Len(), "guides") {
		g.lines[q.Shape] = lines
	}
}

// Lines returns the guides recorded for s.
func (g *Guides) Lines(s *shape.Shape) []GuideLine { return g.lines[s] }

// Reset forgets all recorded guides.
func (g *Guides) Reset() { clear(g.lines) }
