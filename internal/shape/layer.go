/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shape

import (
	"github.com/google/uuid"

	"drawsurface/internal/geom"
)

// Layer holds top-level shapes in draw order, back to front.
type Layer struct {
	Name    string
	Visible bool
	Locked  bool
	shapes  []*Shape
}

func NewLayer(name string) *Layer { return &Layer{Name: name, Visible: true} }

// Shapes returns the layer's shapes back to front. The slice must not be
// modified.
func (l *Layer) Shapes() []*Shape { return l.shapes }

func (l *Layer) Len() int { return len(l.shapes) }

// Editable reports whether the layer takes hits and edits. A locked layer
// still draws.
func (l *Layer) Editable() bool { return l.Visible && !l.Locked }

// Add appends s at the front of the draw order. A shape owned by a parent is
// detached first.
func (l *Layer) Add(s ...*Shape) {
	for _, sh := range s {
		if sh == nil {
			continue
		}
		if sh.parent != nil {
			sh.parent.RemoveChild(sh)
		}
		l.shapes = append(l.shapes, sh)
	}
}

// Remove drops s from the layer; it reports whether s was present.
func (l *Layer) Remove(s *Shape) bool {
	for i, sh := range l.shapes {
		if sh == s {
			l.shapes = append(l.shapes[:i], l.shapes[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns the shape with id anywhere in the layer's trees.
func (l *Layer) Find(id uuid.UUID) *Shape {
	var found *Shape
	for _, s := range l.shapes {
		s.Walk(func(c *Shape) {
			if found == nil && c.ID == id {
				found = c
			}
		})
		if found != nil {
			return found
		}
	}
	return nil
}

// Bounds is the union of all shape bounds.
func (l *Layer) Bounds() (geom.Rect, bool) {
	var out geom.Rect
	for i, s := range l.shapes {
		if i == 0 {
			out = s.Bounds()
		} else {
			out = out.Union(s.Bounds())
		}
	}
	return out, len(l.shapes) > 0
}

// Sheet is a page of layers. Scale and Offset compose into the view that
// displays the sheet.
type Sheet struct {
	Name   string
	Scale  float64
	Offset geom.Point
	Size   geom.Size
	layers []*Layer
	active int
}

// NewSheet returns a sheet with a single active layer named "default".
func NewSheet(name string, size geom.Size) *Sheet {
	return &Sheet{Name: name, Scale: 1, Size: size, layers: []*Layer{NewLayer("default")}}
}

func (s *Sheet) Layers() []*Layer { return s.layers }

// AddLayer appends l and makes it active.
func (s *Sheet) AddLayer(l *Layer) {
	s.layers = append(s.layers, l)
	s.active = len(s.layers) - 1
}

// ActiveLayer returns nil when the sheet has no layers.
func (s *Sheet) ActiveLayer() *Layer {
	if s == nil || s.active < 0 || s.active >= len(s.layers) {
		return nil
	}
	return s.layers[s.active]
}

// SetActive selects the layer at index i; out of range means "none".
func (s *Sheet) SetActive(i int) {
	if i < 0 || i >= len(s.layers) {
		s.active = -1
		return
	}
	s.active = i
}

// FindShape searches all layers.
func (s *Sheet) FindShape(id uuid.UUID) *Shape {
	for _, l := range s.layers {
		if f := l.Find(id); f != nil {
			return f
		}
	}
	return nil
}
