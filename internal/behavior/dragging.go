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
	"log/slog"

	"drawsurface/internal/geom"
	"drawsurface/internal/glue"
	"drawsurface/internal/knob"
	"drawsurface/internal/render"
	"drawsurface/internal/shape"
)

type dragStart struct {
	shape  *shape.Shape
	pin    geom.Point // parent space
	docPin geom.Point
}

// Dragging moves the selection, or a single knob, while the primary button
// is held. Shape drags consult the glue resolver on every move.
type Dragging struct {
	link
	noop
	host Host

	knob      *knob.Handle
	grab      geom.Point // handle minus pointer, display space
	anchor    geom.Point
	starts    []dragStart
	before    map[*shape.Shape]shape.State
	delta     geom.Point
	snap      *glue.Query
	began     bool
	edited    bool
	SnapBrush render.Brush
}

// NewDragging prepares a drag of the current selection.
func NewDragging(host Host) (*Dragging, error) {
	if host == nil {
		return nil, ErrNilHost
	}
	if host.Selection() == nil || host.Selection().IsEmpty() {
		return nil, ErrEmptySelection
	}
	return &Dragging{host: host, SnapBrush: render.Brush{Color: color.NRGBA{R: 0xff, G: 0x66, B: 0x00, A: 0xc0}}}, nil
}

// NewKnobDragging prepares a drag of one handle.
func NewKnobDragging(host Host, h knob.Handle) (*Dragging, error) {
	if host == nil {
		return nil, ErrNilHost
	}
	if h.Point == nil {
		return nil, ErrNilKnob
	}
	return &Dragging{host: host, knob: &h}, nil
}

func (d *Dragging) Kind() Kind   { return KindDragging }
func (d *Dragging) chain() *link { return &d.link }
func (d *Dragging) valid() bool  { return d != nil && d.host != nil }

// KnobMode reports whether the drag edits a single control point.
func (d *Dragging) KnobMode() bool { return d.knob != nil }

// Delta is the displacement applied on the last move, in document space.
func (d *Dragging) Delta() geom.Point { return d.delta }

// Shapes lists the dragged shapes.
func (d *Dragging) Shapes() []*shape.Shape {
	out := make([]*shape.Shape, len(d.starts))
	for i, st := range d.starts {
		out[i] = st.shape
	}
	return out
}

func (d *Dragging) DragBegin(_ *Stack, down Event) error {
	d.anchor = down.Doc
	d.before = make(map[*shape.Shape]shape.State)
	if d.knob != nil {
		d.grab = d.knob.Display.Sub(down.Display)
		s := d.knob.Point.Shape()
		d.before[s] = s.State()
	} else {
		for _, s := range d.host.Selection().Shapes() {
			d.starts = append(d.starts, dragStart{shape: s, pin: s.Pin(), docPin: s.DocPin()})
			d.before[s] = s.State()
		}
	}
	d.began = true
	d.host.Capture()
	d.host.Logger().Debug("drag begin",
		slog.Bool("knob", d.knob != nil), slog.Int("shapes", len(d.starts)))
	return nil
}

func (d *Dragging) PointerMove(s *Stack, ev Event) error {
	if !ev.Primary() {
		return d.PointerUp(s, ev)
	}
	d.apply(ev)
	return nil
}

func (d *Dragging) apply(ev Event) {
	if !d.began {
		return
	}
	if d.knob != nil {
		h := d.host.MoveKnob(*d.knob, ev.Display.Add(d.grab))
		if h.Display != d.knob.Display {
			d.edited = true
		}
		d.knob = &h
		d.host.Invalidate()
		return
	}
	var qs []*glue.Query
	if !ev.Has(d.host.Bindings().IgnoreGlue) {
		qs = make([]*glue.Query, 0, len(d.starts))
		for _, st := range d.starts {
			q := &glue.Query{Shape: st.shape, StartPin: st.docPin, Anchor: d.anchor, Target: ev.Doc}
			d.host.RaiseGlue(q)
			qs = append(qs, q)
		}
	}
	d.snap, _ = glue.Resolve(qs)
	d.delta = glue.Delta(qs, d.anchor, ev.Doc)
	for _, st := range d.starts {
		dd := d.delta
		if p := st.shape.Parent(); p != nil {
			dd = p.InverseWorld().ApplyVector(dd)
		}
		st.shape.SetPin(st.pin.Add(dd))
	}
	d.host.Invalidate()
}

// PointerUp applies the final position, records the edit and pops.
func (d *Dragging) PointerUp(s *Stack, ev Event) error {
	d.apply(ev)
	if d.changed() {
		label := "move"
		if d.knob != nil {
			label = "edit " + d.knob.Point.Kind().String()
		}
		d.host.Commit(label, d.before)
	}
	return d.finish(s)
}

func (d *Dragging) changed() bool {
	if d.knob != nil {
		return d.edited
	}
	return !d.delta.IsZero()
}

// Cancel puts every dragged shape back where it started.
func (d *Dragging) Cancel(s *Stack) error {
	for sh, st := range d.before {
		sh.Restore(st)
	}
	d.delta = geom.Point{}
	d.host.Invalidate()
	return d.finish(s)
}

func (d *Dragging) finish(s *Stack) error {
	d.starts, d.before, d.snap, d.began = nil, nil, nil, false
	d.host.ReleaseCapture()
	return s.Pop(d)
}

// PreviewMove is passed to the behavior below so hover state stays current.
func (d *Dragging) PreviewMove(s *Stack, ev Event) error {
	return Forward(d, func(p Behavior) error { return p.PreviewMove(s, ev) })
}

// RenderPost marks the snapped pointer target, if any.
func (d *Dragging) RenderPost(b render.Backend, toDisplay geom.Matrix) {
	if d.snap == nil {
		return
	}
	p := toDisplay.Apply(d.snap.Snapped)
	br := d.SnapBrush
	b.DrawEllipse(p, 3, 3, &br, nil)
}

var _ Behavior = (*Dragging)(nil)
