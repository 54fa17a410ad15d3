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
)

// Input is a pointer sample as the host reports it: display position,
// buttons held and modifiers.
type Input struct {
	At      geom.Point
	Buttons behavior.Buttons
	Mods    behavior.Modifiers
}

func (s *Surface) event(in Input) behavior.Event {
	return behavior.Event{Display: in.At, Doc: s.view.ToDocument(in.At), Buttons: in.Buttons, Mods: in.Mods}
}

func (s *Surface) dispatch(op string, in Input, fn func(behavior.Event) error) error {
	if s.closed {
		return nil
	}
	s.last = in
	err := fn(s.event(in))
	if err != nil {
		s.log.Error("pointer dispatch", slog.String("op", op), slog.Any("err", err))
	}
	return err
}

func (s *Surface) PointerDown(in Input) error {
	return s.dispatch("down", in, s.stack.PointerDown)
}

// PointerMove is a move with buttons possibly held. While capture is held
// and the pointer is outside the viewport, autoscroll runs.
func (s *Surface) PointerMove(in Input) error {
	err := s.dispatch("move", in, s.stack.PointerMove)
	s.updateAutoscroll()
	return err
}

// PreviewMove is a hover move with no button held.
func (s *Surface) PreviewMove(in Input) error {
	return s.dispatch("preview", in, s.stack.PreviewMove)
}

func (s *Surface) PointerUp(in Input) error {
	err := s.dispatch("up", in, s.stack.PointerUp)
	s.updateAutoscroll()
	return err
}

func (s *Surface) PointerEnter(in Input) error {
	if s.closed {
		return nil
	}
	s.inside = true
	s.last = in
	s.updateAutoscroll()
	return nil
}

// PointerLeave keeps a captured drag alive; the behavior decides what a
// leave means.
func (s *Surface) PointerLeave(in Input) error {
	if s.closed {
		return nil
	}
	s.inside = false
	err := s.dispatch("leave", in, s.stack.PointerLeave)
	s.updateAutoscroll()
	return err
}

// Cancel abandons the current gesture, restoring anything it moved.
func (s *Surface) Cancel() error {
	if s.closed {
		return nil
	}
	s.stopAutoscroll()
	err := s.stack.Cancel()
	s.Invalidate()
	return err
}

func (s *Surface) outside() bool {
	return !s.inside || !s.view.Viewport().Contains(s.last.At)
}

func (s *Surface) updateAutoscroll() {
	want := s.captured && s.outside() && s.last.Buttons&behavior.ButtonPrimary != 0
	switch {
	case want && s.autoscroll == nil:
		iv := time.Duration(s.cfg.Interaction.AutoscrollIntervalMs) * time.Millisecond
		s.autoscroll = s.timers.Every(iv, s.autoscrollTick)
		s.log.Debug("autoscroll start")
	case !want:
		s.stopAutoscroll()
	}
}

func (s *Surface) stopAutoscroll() {
	if s.autoscroll == nil {
		return
	}
	s.autoscroll.Stop()
	s.autoscroll = nil
	s.log.Debug("autoscroll stop")
}

// autoscrollTick scrolls toward the pointer and replays the last move so
// the drag follows the content.
func (s *Surface) autoscrollTick() {
	if s.closed || !s.captured || s.last.Buttons&behavior.ButtonPrimary == 0 || !s.outside() {
		s.stopAutoscroll()
		return
	}
	s.view.ScrollBy(s.scrollStep(s.last.At))
	if err := s.dispatch("autoscroll", s.last, s.stack.PointerMove); err != nil {
		s.stopAutoscroll()
	}
	s.Invalidate()
}

// scrollStep points from the viewport toward p, one step per axis that p
// lies beyond.
func (s *Surface) scrollStep(p geom.Point) geom.Point {
	vp := s.view.Viewport()
	step := s.cfg.Interaction.AutoscrollStepPx
	var d geom.Point
	switch {
	case p.X < vp.X:
		d.X = -step
	case p.X > vp.X+vp.W:
		d.X = step
	}
	switch {
	case p.Y < vp.Y:
		d.Y = -step
	case p.Y > vp.Y+vp.H:
		d.Y = step
	}
	return d
}
