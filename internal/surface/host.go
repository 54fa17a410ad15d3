/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package surface

import (
	"log/slog"
	"time"

	"drawsurface/internal/behavior"
	"drawsurface/internal/geom"
	"drawsurface/internal/glue"
	"drawsurface/internal/hittest"
	"drawsurface/internal/knob"
	"drawsurface/internal/selection"
	"drawsurface/internal/shape"
	"drawsurface/internal/undo"
)

// The methods below make Surface the behavior.Host of its stack.

func (s *Surface) Bindings() behavior.Bindings { return s.bindings }
func (s *Surface) Selection() *selection.Set   { return s.sel }
func (s *Surface) Logger() *slog.Logger        { return s.log }

func (s *Surface) ActiveLayer() *shape.Layer {
	if s.closed || s.sheet == nil {
		return nil
	}
	return s.sheet.ActiveLayer()
}

// editable reports whether the active layer accepts edits.
func (s *Surface) editable() bool {
	l := s.ActiveLayer()
	return l != nil && l.Editable()
}

func (s *Surface) tester() hittest.Tester {
	return hittest.New(s.docUnits(s.cfg.Interaction.HitTolerancePx))
}

func (s *Surface) ShapeAt(doc geom.Point) *shape.Shape {
	return s.tester().TopShape(s.ActiveLayer(), doc)
}

func (s *Surface) ShapesInRect(r geom.Rect) []*shape.Shape {
	return hittest.InRect(s.ActiveLayer(), r, s.policy)
}

func (s *Surface) KnobAt(display geom.Point) (knob.Handle, bool) {
	if !s.editable() {
		return knob.Handle{}, false
	}
	return s.knobs.At(display)
}

func (s *Surface) MoveKnob(h knob.Handle, display geom.Point) knob.Handle {
	out := s.knobs.MoveTo(h, display)
	s.sel.Invalidate()
	return out
}

// RaiseGlue passes q to the responders unless glue is disabled.
func (s *Surface) RaiseGlue(q *glue.Query) {
	if !s.cfg.Glue.Enabled {
		return
	}
	s.resolver.Raise(q)
}

func (s *Surface) Capture() {
	s.captured = true
}

func (s *Surface) ReleaseCapture() {
	s.captured = false
	s.stopAutoscroll()
	s.guides.Reset()
}

func (s *Surface) Invalidate() {
	s.dirty = true
	if s.onInvalidate != nil {
		s.onInvalidate()
	}
}

// Commit records the edit of every shape in before on the active sheet's
// undo history.
func (s *Surface) Commit(label string, before map[*shape.Shape]shape.State) {
	if s.sheet == nil || len(before) == 0 {
		return
	}
	e := undo.Entry{Sheet: s.sheet.Name, Label: label, TS: time.Now()}
	// Selection order keeps entries stable across runs.
	seen := make(map[*shape.Shape]bool, len(before))
	add := func(sh *shape.Shape) {
		st, ok := before[sh]
		if !ok || seen[sh] {
			return
		}
		seen[sh] = true
		e.Changes = append(e.Changes, undo.Change{ShapeID: sh.ID, Before: st, After: sh.State()})
	}
	for _, sh := range s.sel.Shapes() {
		add(sh)
	}
	for sh := range before {
		add(sh)
	}
	s.history.Push(e)
	s.log.Debug("commit", slog.String("label", label), slog.Int("shapes", len(e.Changes)))
}

// Undo reverts the newest edit on the current sheet. It does nothing while
// a gesture is in progress.
func (s *Surface) Undo() bool {
	if s.closed || s.sheet == nil || s.stack.Len() > 1 {
		return false
	}
	e, ok := s.history.Undo(s.sheet.Name)
	if !ok {
		return false
	}
	s.apply(e, true)
	return true
}

// Redo reapplies the newest undone edit.
func (s *Surface) Redo() bool {
	if s.closed || s.sheet == nil || s.stack.Len() > 1 {
		return false
	}
	e, ok := s.history.Redo(s.sheet.Name)
	if !ok {
		return false
	}
	s.apply(e, false)
	return true
}

func (s *Surface) CanUndo() bool { return s.sheet != nil && s.history.CanUndo(s.sheet.Name) }
func (s *Surface) CanRedo() bool { return s.sheet != nil && s.history.CanRedo(s.sheet.Name) }

func (s *Surface) apply(e undo.Entry, backwards bool) {
	missing := 0
	for _, c := range e.Changes {
		sh := s.sheet.FindShape(c.ShapeID)
		if sh == nil {
			missing++
			continue
		}
		if backwards {
			sh.Restore(c.Before)
		} else {
			sh.Restore(c.After)
		}
	}
	if missing > 0 {
		s.log.Warn("undo skipped deleted shapes", slog.String("label", e.Label), slog.Int("missing", missing))
	}
	s.Invalidate()
}

var _ behavior.Host = (*Surface)(nil)
