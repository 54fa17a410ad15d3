/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package behavior implements the pointer state machine of a drawing
// surface as a stack of behaviors.
//
// The variant set is closed: Basic sits at the bottom of every stack and
// pushes Dragging or RangeSelecting when a press turns into a drag. Events
// go to the top behavior first; a behavior reaches the one beneath it only
// by calling Forward explicitly.
package behavior

import (
	"errors"
	"log/slog"
	"strings"

	"drawsurface/internal/geom"
	"drawsurface/internal/glue"
	"drawsurface/internal/knob"
	"drawsurface/internal/render"
	"drawsurface/internal/selection"
	"drawsurface/internal/shape"
)

var (
	ErrNilHost        = errors.New("behavior: nil host")
	ErrEmptySelection = errors.New("behavior: selection is empty")
	ErrNilKnob        = errors.New("behavior: nil knob")
	ErrNilBehavior    = errors.New("behavior: nil behavior")
	ErrAlreadyPushed  = errors.New("behavior: behavior already on stack")
	ErrNotOnStack     = errors.New("behavior: behavior not on stack")
	ErrNotTop         = errors.New("behavior: behavior is not on top")
	ErrRootBehavior   = errors.New("behavior: cannot pop the root behavior")
)

// Kind names a behavior variant.
type Kind int

const (
	KindBasic Kind = iota
	KindDragging
	KindRangeSelecting
)

func (k Kind) String() string {
	switch k {
	case KindDragging:
		return "dragging"
	case KindRangeSelecting:
		return "range-selecting"
	default:
		return "basic"
	}
}

// Buttons is the set of pointer buttons held during an event.
type Buttons uint8

const (
	ButtonPrimary Buttons = 1 << iota
	ButtonSecondary
	ButtonMiddle
)

// Modifiers is the set of modifier keys held during an event.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// ParseModifiers reads names like "ctrl", "shift+alt" or "cmd".
func ParseModifiers(s string) Modifiers {
	var m Modifiers
	for _, part := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool { return r == '+' || r == ',' || r == ' ' }) {
		switch part {
		case "shift":
			m |= ModShift
		case "ctrl", "control":
			m |= ModCtrl
		case "alt", "option":
			m |= ModAlt
		case "meta", "cmd", "super":
			m |= ModMeta
		}
	}
	return m
}

// Event is a pointer event with its position in both display and document
// space.
type Event struct {
	Display geom.Point
	Doc     geom.Point
	Buttons Buttons
	Mods    Modifiers
}

func (e Event) Primary() bool        { return e.Buttons&ButtonPrimary != 0 }
func (e Event) Has(m Modifiers) bool { return m != 0 && e.Mods&m == m }

// Bindings are the user-configurable parts of the state machine.
type Bindings struct {
	MultiSelect Modifiers
	IgnoreGlue  Modifiers
	// DeadZone is the display distance a press must travel before it
	// becomes a drag.
	DeadZone float64
}

func DefaultBindings() Bindings {
	return Bindings{MultiSelect: ModCtrl, IgnoreGlue: ModAlt, DeadZone: 3}
}

// Host is everything a behavior needs from the surface that owns it. The
// surface outlives every behavior on its stack.
type Host interface {
	Bindings() Bindings
	Selection() *selection.Set
	// ActiveLayer is nil while no sheet or layer is active.
	ActiveLayer() *shape.Layer
	ShapeAt(doc geom.Point) *shape.Shape
	ShapesInRect(r geom.Rect) []*shape.Shape
	KnobAt(display geom.Point) (knob.Handle, bool)
	MoveKnob(h knob.Handle, display geom.Point) knob.Handle
	RaiseGlue(q *glue.Query)
	Capture()
	ReleaseCapture()
	Invalidate()
	// Commit records an edit for undo; before holds the pre-edit state of
	// every shape touched.
	Commit(label string, before map[*shape.Shape]shape.State)
	Logger() *slog.Logger
}

// Behavior is one state of the pointer state machine. The interface is
// sealed; the only implementations are Basic, Dragging and RangeSelecting.
type Behavior interface {
	Kind() Kind
	Prior() Behavior

	PointerDown(s *Stack, ev Event) error
	PointerMove(s *Stack, ev Event) error
	PreviewMove(s *Stack, ev Event) error
	PointerUp(s *Stack, ev Event) error
	PointerLeave(s *Stack, ev Event) error
	// DragBegin receives the press that started a drag, right after the
	// behavior was pushed.
	DragBegin(s *Stack, down Event) error
	// Cancel abandons the behavior's gesture and pops it.
	Cancel(s *Stack) error

	RenderPre(b render.Backend, toDisplay geom.Matrix)
	RenderPost(b render.Backend, toDisplay geom.Matrix)

	chain() *link
	valid() bool
}

type link struct{ prior Behavior }

func (l *link) Prior() Behavior { return l.prior }

// noop supplies the handlers a variant leaves alone.
type noop struct{}

func (noop) PointerDown(*Stack, Event) error  { return nil }
func (noop) PointerMove(*Stack, Event) error  { return nil }
func (noop) PreviewMove(*Stack, Event) error  { return nil }
func (noop) PointerUp(*Stack, Event) error    { return nil }
func (noop) PointerLeave(*Stack, Event) error { return nil }
func (noop) DragBegin(*Stack, Event) error    { return nil }
func (noop) Cancel(*Stack) error              { return nil }

func (noop) RenderPre(render.Backend, geom.Matrix)  {}
func (noop) RenderPost(render.Backend, geom.Matrix) {}

// Forward hands an event to the behavior beneath b. It is a no-op for the
// root behavior.
func Forward(b Behavior, fn func(prior Behavior) error) error {
	if p := b.Prior(); p != nil {
		return fn(p)
	}
	return nil
}
