/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"slices"
	"strings"

	"drawsurface/internal/behavior"
	"drawsurface/internal/config"
	"drawsurface/internal/geom"
	applog "drawsurface/internal/log"
	"drawsurface/internal/render"
	"drawsurface/internal/shape"
	"drawsurface/internal/surface"
)

const pinEpsilon = 1e-6

// ErrBuild wraps problems turning a script's shape list into a sheet.
var ErrBuild = errors.New("script: build")

// Build creates the sheet a script describes. Named shapes are returned by
// name so expectations can find them.
func Build(sc Script) (*shape.Sheet, map[string]*shape.Shape, error) {
	size := geom.Size{W: sc.Sheet.Width, H: sc.Sheet.Height}
	if size.W <= 0 || size.H <= 0 {
		size = geom.Size{W: 1000, H: 1000}
	}
	name := sc.Sheet.Name
	if name == "" {
		name = "sheet"
	}
	sheet := shape.NewSheet(name, size)
	byName := map[string]*shape.Shape{}
	layer := sheet.ActiveLayer()
	for i, spec := range sc.Shapes {
		sh, err := buildShape(spec)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: shape %d: %v", ErrBuild, i, err)
		}
		layer.Add(sh)
		if spec.Name != "" {
			byName[spec.Name] = sh
		}
	}
	return sheet, byName, nil
}

func buildShape(spec ShapeSpec) (*shape.Shape, error) {
	var fill *render.Brush
	if spec.Fill != "" {
		c, err := render.ParseHex(spec.Fill)
		if err != nil {
			return nil, err
		}
		fill = &render.Brush{Color: c}
	}
	stroke := &render.Pen{Color: color.NRGBA{A: 0xff}, Width: 1}
	if spec.Stroke != "" {
		c, err := render.ParseHex(spec.Stroke)
		if err != nil {
			return nil, err
		}
		stroke.Color = c
	}
	if spec.Width > 0 {
		stroke.Width = spec.Width
	}

	r := geom.R(spec.X, spec.Y, spec.W, spec.H)
	var sh *shape.Shape
	switch spec.Kind {
	case "rect":
		sh = shape.NewRect(spec.Name, r, fill, stroke)
	case "ellipse":
		sh = shape.NewEllipse(spec.Name, r, fill, stroke)
	case "polyline":
		pts := make([]geom.Point, len(spec.Points))
		for i, p := range spec.Points {
			pts[i] = geom.Pt(p[0], p[1])
		}
		sh = shape.NewPolyline(spec.Name, pts, spec.Closed, fill, stroke)
	default:
		return nil, fmt.Errorf("unknown kind %q", spec.Kind)
	}
	if spec.Angle != 0 {
		sh.SetAngle(geom.Degrees(spec.Angle))
	}
	return sh, nil
}

// Options configures Run.
type Options struct {
	Config *config.AppConfig
	Logger *slog.Logger
}

// Result is what a replay left behind. Failures holds every step that
// errored or whose expectation did not hold; replay does not stop at the
// first one.
type Result struct {
	Surface  *surface.Surface
	Shapes   map[string]*shape.Shape
	Steps    int
	Failures []Error
}

// OK reports whether every step succeeded.
func (r Result) OK() bool { return len(r.Failures) == 0 }

// Run replays sc against a fresh surface driven by manual timers.
func Run(sc Script, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = applog.WithComponent("script")
	}
	sheet, byName, err := Build(sc)
	if err != nil {
		return Result{}, err
	}
	timers := &surface.ManualTimers{}
	s, err := surface.New(surface.Options{
		Size:   geom.Size{W: sc.View.Width, H: sc.View.Height},
		Sheet:  sheet,
		Config: opts.Config,
		Logger: logger,
		Timers: timers,
	})
	if err != nil {
		return Result{}, err
	}
	if sc.View.Zoom > 0 {
		s.View().SetScale(sc.View.Zoom)
	}
	if sc.View.Rotation != 0 {
		s.View().SetRotation(geom.Degrees(sc.View.Rotation))
	}

	res := Result{Surface: s, Shapes: byName}
	r := &replay{s: s, timers: timers, shapes: byName}
	for _, st := range sc.Steps {
		res.Steps++
		for _, msg := range r.step(st) {
			res.Failures = append(res.Failures, Error{Line: st.Line, Message: msg})
		}
	}
	logger.Info("replay finished",
		slog.Int("steps", res.Steps),
		slog.Int("failures", len(res.Failures)))
	return res, nil
}

type replay struct {
	s      *surface.Surface
	timers *surface.ManualTimers
	shapes map[string]*shape.Shape
}

func (r *replay) input(st Step, pressed bool) surface.Input {
	if st.Button != nil {
		pressed = *st.Button
	}
	in := surface.Input{At: geom.Pt(st.At[0], st.At[1]), Mods: behavior.ParseModifiers(st.Mods)}
	if pressed {
		in.Buttons = behavior.ButtonPrimary
	}
	return in
}

func (r *replay) step(st Step) []string {
	var err error
	switch st.Op {
	case "down":
		err = r.s.PointerDown(r.input(st, true))
	case "move":
		err = r.s.PointerMove(r.input(st, true))
	case "hover":
		err = r.s.PreviewMove(r.input(st, false))
	case "up":
		err = r.s.PointerUp(r.input(st, false))
	case "enter":
		err = r.s.PointerEnter(r.input(st, false))
	case "leave":
		err = r.s.PointerLeave(r.input(st, false))
	case "cancel":
		err = r.s.Cancel()
	case "tick":
		for range max(st.Count, 1) {
			r.timers.Tick()
		}
	case "zoom":
		r.s.View().ZoomAt(geom.Pt(st.At[0], st.At[1]), st.Factor)
		r.s.Invalidate()
	case "scroll":
		r.s.View().ScrollBy(geom.Pt(st.By[0], st.By[1]))
		r.s.Invalidate()
	case "undo":
		if !r.s.Undo() {
			return []string{"nothing to undo"}
		}
	case "redo":
		if !r.s.Redo() {
			return []string{"nothing to redo"}
		}
	case "expect":
		return r.check(*st.Expect)
	default:
		return []string{fmt.Sprintf("unknown op %q", st.Op)}
	}
	if err != nil {
		return []string{fmt.Sprintf("%s: %v", st.Op, err)}
	}
	return nil
}

func (r *replay) check(e Expectation) []string {
	var bad []string
	if e.Selected != nil {
		if n := r.s.Selection().Len(); n != *e.Selected {
			bad = append(bad, fmt.Sprintf("selected = %d, want %d", n, *e.Selected))
		}
	}
	if e.Stack != nil {
		kinds := r.s.Stack().Kinds()
		got := make([]string, len(kinds))
		for i, k := range kinds {
			got[i] = k.String()
		}
		if !slices.Equal(got, e.Stack) {
			bad = append(bad, fmt.Sprintf("stack = [%s], want [%s]", strings.Join(got, " "), strings.Join(e.Stack, " ")))
		}
	}
	if e.Captured != nil && r.s.Captured() != *e.Captured {
		bad = append(bad, fmt.Sprintf("captured = %t, want %t", r.s.Captured(), *e.Captured))
	}
	if e.Shapes != nil {
		n := 0
		if l := r.s.ActiveLayer(); l != nil {
			n = l.Len()
		}
		if n != *e.Shapes {
			bad = append(bad, fmt.Sprintf("shapes = %d, want %d", n, *e.Shapes))
		}
	}
	names := make([]string, 0, len(e.Pins))
	for name := range e.Pins {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		want := geom.Pt(e.Pins[name][0], e.Pins[name][1])
		sh := r.shapes[name]
		if sh == nil {
			bad = append(bad, fmt.Sprintf("unknown shape %q", name))
			continue
		}
		if got := sh.DocPin(); !got.Near(want, pinEpsilon) {
			bad = append(bad, fmt.Sprintf("%s pin = (%g,%g), want (%g,%g)", name, got.X, got.Y, want.X, want.Y))
		}
	}
	return bad
}
