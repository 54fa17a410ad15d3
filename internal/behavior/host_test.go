/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package behavior

import (
	"image/color"
	"io"
	"log/slog"
	"testing"

	"drawsurface/internal/geom"
	"drawsurface/internal/glue"
	"drawsurface/internal/hittest"
	"drawsurface/internal/knob"
	"drawsurface/internal/render"
	"drawsurface/internal/selection"
	"drawsurface/internal/shape"
	"drawsurface/internal/xform"
)

// testHost is a minimal surface: identity view, one layer.
type testHost struct {
	bind     Bindings
	sel      *selection.Set
	layer    *shape.Layer
	noLayer  bool
	ht       hittest.Tester
	policy   hittest.Policy
	resolver glue.Resolver
	view     *xform.View
	knobs    *knob.Controller

	captured      bool
	captures      int
	invalidations int
	commits       []string
	log           *slog.Logger
}

func newTestHost(t *testing.T) *testHost {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	v := xform.NewView(geom.Size{W: 500, H: 500}, log)
	kc, err := knob.NewController(v, 8)
	if err != nil {
		t.Fatal(err)
	}
	return &testHost{
		bind:  DefaultBindings(),
		sel:   selection.New(),
		layer: shape.NewLayer("l"),
		ht:    hittest.New(2),
		view:  v,
		knobs: kc,
		log:   log,
	}
}

func (h *testHost) Bindings() Bindings         { return h.bind }
func (h *testHost) Selection() *selection.Set  { return h.sel }
func (h *testHost) Logger() *slog.Logger       { return h.log }
func (h *testHost) Invalidate()                { h.invalidations++ }
func (h *testHost) RaiseGlue(q *glue.Query)    { h.resolver.Raise(q) }
func (h *testHost) Capture()                   { h.captured = true; h.captures++ }
func (h *testHost) ReleaseCapture()            { h.captured = false }
func (h *testHost) ShapeAt(p geom.Point) *shape.Shape {
	return h.ht.TopShape(h.ActiveLayer(), p)
}
func (h *testHost) ShapesInRect(r geom.Rect) []*shape.Shape {
	return hittest.InRect(h.ActiveLayer(), r, h.policy)
}
func (h *testHost) KnobAt(p geom.Point) (knob.Handle, bool) { return h.knobs.At(p) }
func (h *testHost) MoveKnob(k knob.Handle, p geom.Point) knob.Handle {
	return h.knobs.MoveTo(k, p)
}
func (h *testHost) Commit(label string, _ map[*shape.Shape]shape.State) {
	h.commits = append(h.commits, label)
}
func (h *testHost) ActiveLayer() *shape.Layer {
	if h.noLayer {
		return nil
	}
	return h.layer
}

func (h *testHost) rect(name string, r geom.Rect) *shape.Shape {
	s := shape.NewRect(name, r, &render.Brush{Color: color.NRGBA{A: 255}}, nil)
	h.layer.Add(s)
	return s
}

func at(x, y float64) Event {
	p := geom.Pt(x, y)
	return Event{Display: p, Doc: p, Buttons: ButtonPrimary}
}

func released(x, y float64) Event {
	e := at(x, y)
	e.Buttons = 0
	return e
}

func withMods(e Event, m Modifiers) Event {
	e.Mods = m
	return e
}

func mustStack(t *testing.T, h Host) *Stack {
	t.Helper()
	s, err := NewStack(h)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
