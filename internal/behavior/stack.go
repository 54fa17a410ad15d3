/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package behavior

import (
	"fmt"
	"log/slog"

	"drawsurface/internal/geom"
	"drawsurface/internal/render"
)

// Stack is the behavior stack of one surface. The bottom entry is always
// the Basic behavior created with the stack.
type Stack struct {
	host  Host
	items []Behavior
	log   *slog.Logger
}

// NewStack returns a stack holding a single Basic behavior.
func NewStack(host Host) (*Stack, error) {
	if host == nil {
		return nil, ErrNilHost
	}
	s := &Stack{host: host, log: host.Logger().With(slog.String("component", "behavior"))}
	s.items = []Behavior{NewBasic(host)}
	return s, nil
}

func (s *Stack) Host() Host { return s.host }

// Top is the first responder.
func (s *Stack) Top() Behavior { return s.items[len(s.items)-1] }

// Root is the Basic behavior at the bottom.
func (s *Stack) Root() *Basic { return s.items[0].(*Basic) }

func (s *Stack) Len() int { return len(s.items) }

// Kinds lists the stack from bottom to top.
func (s *Stack) Kinds() []Kind {
	out := make([]Kind, len(s.items))
	for i, b := range s.items {
		out[i] = b.Kind()
	}
	return out
}

func (s *Stack) index(b Behavior) int {
	for i, it := range s.items {
		if it == b {
			return i
		}
	}
	return -1
}

// Push makes b the first responder and links it to the previous top.
func (s *Stack) Push(b Behavior) error {
	if b == nil || !b.valid() {
		return ErrNilBehavior
	}
	if s.index(b) >= 0 {
		return fmt.Errorf("%w: %s", ErrAlreadyPushed, b.Kind())
	}
	b.chain().prior = s.Top()
	s.items = append(s.items, b)
	s.log.Debug("push", slog.String("behavior", b.Kind().String()), slog.Int("depth", len(s.items)))
	return nil
}

// Pop removes b, which must be the current top. A failed pop leaves the
// stack untouched.
func (s *Stack) Pop(b Behavior) error {
	if b == nil || !b.valid() {
		return ErrNilBehavior
	}
	i := s.index(b)
	switch {
	case i < 0:
		return fmt.Errorf("%w: %s", ErrNotOnStack, b.Kind())
	case i == 0:
		return ErrRootBehavior
	case i != len(s.items)-1:
		return fmt.Errorf("%w: %s is below %s", ErrNotTop, b.Kind(), s.Top().Kind())
	}
	s.items = s.items[:i]
	b.chain().prior = nil
	s.log.Debug("pop", slog.String("behavior", b.Kind().String()), slog.Int("depth", len(s.items)))
	return nil
}

// Event dispatch: the top behavior receives every event first.

func (s *Stack) PointerDown(ev Event) error  { return s.Top().PointerDown(s, ev) }
func (s *Stack) PointerMove(ev Event) error  { return s.Top().PointerMove(s, ev) }
func (s *Stack) PreviewMove(ev Event) error  { return s.Top().PreviewMove(s, ev) }
func (s *Stack) PointerUp(ev Event) error    { return s.Top().PointerUp(s, ev) }
func (s *Stack) PointerLeave(ev Event) error { return s.Top().PointerLeave(s, ev) }

// Cancel abandons every gesture above the root.
func (s *Stack) Cancel() error {
	for len(s.items) > 1 {
		top := s.Top()
		if err := top.Cancel(s); err != nil {
			return err
		}
		if s.Top() == top {
			return s.Pop(top)
		}
	}
	return nil
}

// RenderPre draws pre-overlays bottom to top.
func (s *Stack) RenderPre(b render.Backend, toDisplay geom.Matrix) {
	for _, it := range s.items {
		it.RenderPre(b, toDisplay)
	}
}

// RenderPost draws post-overlays bottom to top.
func (s *Stack) RenderPost(b render.Backend, toDisplay geom.Matrix) {
	for _, it := range s.items {
		it.RenderPost(b, toDisplay)
	}
}
