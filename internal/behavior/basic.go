/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package behavior

import (
	"drawsurface/internal/knob"
	"drawsurface/internal/shape"
)

// Basic is the idle behavior. It applies the click selection policy, turns
// presses into drags once the pointer leaves the dead zone and tracks the
// shape under a hovering pointer.
type Basic struct {
	link
	noop
	host Host

	pressed   bool
	down      Event
	downShape *shape.Shape
	downKnob  *knob.Handle
	hover     *shape.Shape
}

func NewBasic(host Host) *Basic { return &Basic{host: host} }

func (b *Basic) Kind() Kind   { return KindBasic }
func (b *Basic) chain() *link { return &b.link }
func (b *Basic) valid() bool  { return b != nil && b.host != nil }

// Hover is the shape last seen under a hovering pointer.
func (b *Basic) Hover() *shape.Shape { return b.hover }

// Pressed reports whether a press is waiting to become a click or a drag.
func (b *Basic) Pressed() bool { return b.pressed }

func (b *Basic) PointerDown(_ *Stack, ev Event) error {
	if !ev.Primary() || b.host.ActiveLayer() == nil {
		return nil
	}
	b.pressed, b.down, b.downShape, b.downKnob = true, ev, nil, nil
	if h, ok := b.host.KnobAt(ev.Display); ok {
		b.downKnob = &h
		return nil
	}
	sh := b.host.ShapeAt(ev.Doc)
	b.downShape = sh
	sel := b.host.Selection()
	switch {
	case ev.Has(b.host.Bindings().MultiSelect):
		sel.Toggle(sh)
	case sh == nil:
		sel.Clear()
	case !sel.Contains(sh):
		sel.Replace(sh)
	}
	b.host.Invalidate()
	return nil
}

func (b *Basic) PointerMove(s *Stack, ev Event) error {
	if !b.pressed {
		return b.PreviewMove(s, ev)
	}
	if !ev.Primary() {
		// Released outside the surface; the up never reached us.
		b.pressed = false
		return nil
	}
	if ev.Display.Dist(b.down.Display) <= b.host.Bindings().DeadZone {
		return nil
	}
	b.pressed = false
	next, err := b.dragFor()
	if err != nil {
		return err
	}
	if err := s.Push(next); err != nil {
		return err
	}
	if err := next.DragBegin(s, b.down); err != nil {
		return err
	}
	return next.PointerMove(s, ev)
}

func (b *Basic) dragFor() (Behavior, error) {
	switch {
	case b.downKnob != nil:
		return NewKnobDragging(b.host, *b.downKnob)
	case b.downShape != nil && !b.host.Selection().IsEmpty():
		return NewDragging(b.host)
	default:
		return NewRangeSelecting(b.host)
	}
}

func (b *Basic) PreviewMove(_ *Stack, ev Event) error {
	if b.host.ActiveLayer() == nil {
		b.hover = nil
		return nil
	}
	if h := b.host.ShapeAt(ev.Doc); h != b.hover {
		b.hover = h
		b.host.Invalidate()
	}
	return nil
}

func (b *Basic) PointerUp(_ *Stack, ev Event) error {
	if !b.pressed {
		return nil
	}
	b.pressed = false
	if b.downKnob != nil || ev.Has(b.host.Bindings().MultiSelect) || b.host.ActiveLayer() == nil {
		return nil
	}
	sel := b.host.Selection()
	if sh := b.host.ShapeAt(ev.Doc); sh != nil {
		sel.Replace(sh)
	} else {
		sel.Clear()
	}
	b.host.Invalidate()
	return nil
}

func (b *Basic) PointerLeave(*Stack, Event) error {
	if b.hover != nil {
		b.hover = nil
		b.host.Invalidate()
	}
	return nil
}

// Cancel drops a pending press.
func (b *Basic) Cancel(*Stack) error {
	b.pressed = false
	return nil
}

var _ Behavior = (*Basic)(nil)
