/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package surface

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"drawsurface/internal/behavior"
	"drawsurface/internal/dnd"
	"drawsurface/internal/geom"
	"drawsurface/internal/shape"
)

// incomingDrag is an OS drag hovering over the surface.
type incomingDrag struct {
	payload dnd.Payload
	effect  dnd.Effect
}

// outgoingDrag is a drag this surface started. consumed is set when the
// drop landed back on this surface and already moved the originals.
type outgoingDrag struct {
	shapes   []*shape.Shape
	consumed bool
}

func encodeShapes(src uuid.UUID, anchor geom.Point, shapes []*shape.Shape) ([]byte, error) {
	return dnd.Encode(dnd.New(src, anchor, shapes))
}

// BeginDragOut turns the current shape drag into an OS drag. The internal
// drag is cancelled so the shapes return to their start positions; the
// returned payload carries them with the grab point as anchor.
func (s *Surface) BeginDragOut() ([]byte, dnd.Effect, error) {
	if s.closed {
		return nil, dnd.EffectNone, ErrNoSurface
	}
	if s.sel.IsEmpty() {
		return nil, dnd.EffectNone, behavior.ErrEmptySelection
	}
	anchor := s.view.ToDocument(s.last.At)
	if d, ok := s.stack.Top().(*behavior.Dragging); ok && !d.KnobMode() {
		anchor = anchor.Sub(d.Delta())
	}
	if err := s.Cancel(); err != nil {
		return nil, dnd.EffectNone, err
	}
	shapes := s.sel.Shapes()
	data, err := encodeShapes(s.id, anchor, shapes)
	if err != nil {
		return nil, dnd.EffectNone, err
	}
	s.outgoing = &outgoingDrag{shapes: shapes}
	s.log.Debug("drag out", slog.Int("shapes", len(shapes)))
	return data, dnd.EffectCopy | dnd.EffectMove, nil
}

// EndDragOut completes a drag started by BeginDragOut. A move to another
// target removes the originals.
func (s *Surface) EndDragOut(effect dnd.Effect) {
	out := s.outgoing
	s.outgoing = nil
	if out == nil || s.closed || out.consumed || effect != dnd.EffectMove {
		return
	}
	l := s.ActiveLayer()
	if l == nil || !l.Editable() {
		return
	}
	for _, sh := range out.shapes {
		s.sel.Remove(sh)
		if p := sh.Parent(); p != nil {
			p.RemoveChild(sh)
		} else {
			l.Remove(sh)
		}
	}
	s.log.Info("moved out", slog.Int("shapes", len(out.shapes)))
	s.Invalidate()
}

// DragEnter decodes the payload offered by the transport. An unreadable
// payload or a missing or locked layer refuses the drag.
func (s *Surface) DragEnter(data []byte, in Input, allowed dnd.Effect) dnd.Effect {
	s.incoming = nil
	if s.closed || !s.editable() {
		return dnd.EffectNone
	}
	p, err := dnd.Decode(data)
	if err != nil {
		s.log.Warn("drag refused", slog.Any("err", err))
		return dnd.EffectNone
	}
	anchor := geom.Pt(p.Anchor[0], p.Anchor[1])
	shapes, err := p.Build(anchor)
	if err != nil {
		s.log.Warn("drag refused", slog.Any("err", err))
		return dnd.EffectNone
	}
	s.incoming = &incomingDrag{payload: p}
	s.preview.Begin(shapes, anchor)
	return s.DragOver(in, allowed)
}

// DragOver moves the preview and reports the effect a drop would have.
func (s *Surface) DragOver(in Input, allowed dnd.Effect) dnd.Effect {
	if s.closed || s.incoming == nil {
		return dnd.EffectNone
	}
	s.last = in
	s.preview.Move(in.At)
	s.incoming.effect = dnd.Negotiate(allowed, in.Mods, s.copyMod)
	s.Invalidate()
	return s.incoming.effect
}

func (s *Surface) DragLeave() {
	if s.incoming == nil {
		return
	}
	s.incoming = nil
	s.preview.End()
	s.Invalidate()
}

// QueryContinue answers the transport's poll during a drag this surface
// started.
func (s *Surface) QueryContinue(escape bool, buttons behavior.Buttons) dnd.Action {
	a := dnd.Decide(escape, buttons)
	if a == dnd.ActionCancel {
		s.outgoing = nil
		s.DragLeave()
	}
	return a
}

// Drop completes an incoming drag. Copies are created only here. A move
// whose source is this surface moves the originals instead.
func (s *Surface) Drop(in Input, allowed dnd.Effect) (dnd.Effect, error) {
	inc := s.incoming
	if s.closed {
		return dnd.EffectNone, ErrNoSurface
	}
	if inc == nil {
		return dnd.EffectNone, nil
	}
	effect := s.DragOver(in, allowed)
	s.incoming = nil
	s.preview.End()
	defer s.Invalidate()

	l := s.ActiveLayer()
	if l == nil || effect == dnd.EffectNone {
		return dnd.EffectNone, nil
	}
	at := s.view.ToDocument(in.At)

	if effect == dnd.EffectMove && s.outgoing != nil && inc.payload.Source == s.id.String() {
		s.moveOriginals(at.Sub(geom.Pt(inc.payload.Anchor[0], inc.payload.Anchor[1])))
		s.outgoing.consumed = true
		return effect, nil
	}

	shapes, err := inc.payload.Build(at)
	if err != nil {
		return dnd.EffectNone, fmt.Errorf("drop: %w", err)
	}
	l.Add(shapes...)
	s.sel.Replace(shapes...)
	s.log.Info("drop", slog.String("effect", effect.String()), slog.Int("shapes", len(shapes)))
	return effect, nil
}

func (s *Surface) moveOriginals(delta geom.Point) {
	if delta.IsZero() {
		return
	}
	before := make(map[*shape.Shape]shape.State, len(s.outgoing.shapes))
	for _, sh := range s.outgoing.shapes {
		before[sh] = sh.State()
		d := delta
		if p := sh.Parent(); p != nil {
			d = p.InverseWorld().ApplyVector(d)
		}
		sh.MoveBy(d)
	}
	s.Commit("move", before)
}
