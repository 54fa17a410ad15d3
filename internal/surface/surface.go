/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package surface owns one interactive drawing surface: the view
// transform, the sheet being edited, the selection, the behavior stack and
// every collaborator they need. Hosts feed it pointer, drag-and-drop and
// timer events and ask it to render.
package surface

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"drawsurface/internal/behavior"
	"drawsurface/internal/config"
	"drawsurface/internal/geom"
	"drawsurface/internal/glue"
	"drawsurface/internal/hittest"
	"drawsurface/internal/knob"
	applog "drawsurface/internal/log"
	"drawsurface/internal/preview"
	"drawsurface/internal/selection"
	"drawsurface/internal/shape"
	"drawsurface/internal/undo"
	"drawsurface/internal/xform"
)

var (
	// ErrNoSurface is returned by operations on a closed surface.
	ErrNoSurface = errors.New("surface is closed")
	ErrNoLayer   = errors.New("no active layer")
)

// Options configures New. Zero values get defaults.
type Options struct {
	Size   geom.Size
	Sheet  *shape.Sheet
	Config *config.AppConfig
	Logger *slog.Logger
	// Timers drives autoscroll; ManualTimers when nil.
	Timers TimerService
	// OnInvalidate is called whenever the surface needs repainting.
	OnInvalidate func()
}

// Surface is driven from a single goroutine and holds no locks.
type Surface struct {
	id     uuid.UUID
	cfg    config.AppConfig
	log    *slog.Logger
	timers TimerService

	view     *xform.View
	sheet    *shape.Sheet
	sel      *selection.Set
	stack    *behavior.Stack
	resolver glue.Resolver
	guides   *glue.Guides
	knobs    *knob.Controller
	preview  *preview.Renderer
	history  *undo.Manager
	bindings behavior.Bindings
	copyMod  behavior.Modifiers
	policy   hittest.Policy

	onInvalidate func()
	dirty        bool
	closed       bool

	captured   bool
	inside     bool
	last       Input
	autoscroll Timer

	incoming *incomingDrag
	outgoing *outgoingDrag
}

// New builds a surface. A nil sheet leaves the surface inert until SetSheet.
func New(opts Options) (*Surface, error) {
	cfg := config.Defaults()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = applog.WithComponent("surface")
	}
	timers := opts.Timers
	if timers == nil {
		timers = &ManualTimers{}
	}
	size := opts.Size
	if size.W <= 0 || size.H <= 0 {
		size = geom.Size{W: 800, H: 600}
	}

	s := &Surface{
		id:           uuid.New(),
		cfg:          cfg,
		log:          logger,
		timers:       timers,
		view:         xform.NewView(size, logger.With(slog.String("component", "xform"))),
		sel:          selection.New(),
		preview:      preview.New(),
		onInvalidate: opts.OnInvalidate,
		inside:       true,
		policy:       hittest.ParsePolicy(cfg.Interaction.RangePolicy),
		copyMod:      behavior.ParseModifiers(cfg.Interaction.CopyModifier),
		bindings: behavior.Bindings{
			MultiSelect: behavior.ParseModifiers(cfg.Interaction.MultiSelectModifier),
			IgnoreGlue:  behavior.ParseModifiers(cfg.Interaction.IgnoreGlueModifier),
			DeadZone:    cfg.Interaction.DragDeadZonePx,
		},
		history: undo.NewManager(undo.Config{
			MaxEntries:  cfg.Undo.MaxEntries,
			MaxPerSheet: cfg.Undo.MaxPerSheet,
			MinInterval: coalesce(cfg.Undo.CoalesceMs),
		}),
	}

	kc, err := knob.NewController(s.view, cfg.Interaction.KnobSizePx)
	if err != nil {
		return nil, err
	}
	s.knobs = kc
	s.sel.OnChange(func(set *selection.Set) { s.knobs.Bind(set.Shapes()) })

	stack, err := behavior.NewStack(s)
	if err != nil {
		return nil, err
	}
	s.stack = stack
	s.subscribeGlue()

	if opts.Sheet != nil {
		s.SetSheet(opts.Sheet)
	}
	return s, nil
}

func coalesce(ms int) time.Duration {
	if ms <= 0 {
		return -1
	}
	return time.Duration(ms) * time.Millisecond
}

// subscribeGlue registers the built-in responders in priority order:
// guides, pins, grid. Thresholds are configured in display pixels and
// converted at query time so they stay constant on screen.
func (s *Surface) subscribeGlue() {
	g := s.cfg.Glue
	s.guides = glue.NewGuides(glue.SnapOptions{SnapToEdges: g.SnapToEdges, SnapToCenters: g.SnapToCenters}, s.guideAnchors)
	if g.SnapToEdges || g.SnapToCenters {
		s.resolver.Subscribe(func(q *glue.Query) {
			s.guides.Options.Threshold = s.docUnits(g.ThresholdPx)
			s.guides.Respond(q)
		})
	}
	if g.SnapToPins {
		s.resolver.Subscribe(func(q *glue.Query) {
			glue.Pins(s.pinCandidates, s.docUnits(g.ThresholdPx))(q)
		})
	}
	if g.Grid > 0 {
		s.resolver.Subscribe(func(q *glue.Query) {
			glue.Grid(g.Grid, s.docUnits(g.ThresholdPx))(q)
		})
	}
}

// docUnits converts a display-pixel length into document units.
func (s *Surface) docUnits(px float64) float64 {
	return px / s.view.EffectiveScale()
}

// others lists the shapes on the active layer that are not being dragged.
func (s *Surface) others(exclude *shape.Shape) []*shape.Shape {
	l := s.ActiveLayer()
	if l == nil {
		return nil
	}
	var out []*shape.Shape
	for _, sh := range l.Shapes() {
		if sh != exclude && !s.sel.Contains(sh) {
			out = append(out, sh)
		}
	}
	return out
}

func (s *Surface) pinCandidates(moving *shape.Shape) []geom.Point {
	var pts []geom.Point
	for _, sh := range s.others(moving) {
		pts = append(pts, sh.DocPin())
	}
	return pts
}

func (s *Surface) guideAnchors(moving *shape.Shape) []glue.Anchor {
	var out []glue.Anchor
	if s.sheet != nil && s.sheet.Size.W > 0 && s.sheet.Size.H > 0 {
		out = append(out, glue.Anchor{Rect: geom.R(0, 0, s.sheet.Size.W, s.sheet.Size.H), Weight: 0.5})
	}
	for _, sh := range s.others(moving) {
		out = append(out, glue.Anchor{Rect: sh.Bounds(), Weight: 1})
	}
	return out
}

// ID identifies the surface as a drag source.
func (s *Surface) ID() uuid.UUID { return s.id }

func (s *Surface) View() *xform.View          { return s.view }
func (s *Surface) Sheet() *shape.Sheet        { return s.sheet }
func (s *Surface) Stack() *behavior.Stack     { return s.stack }
func (s *Surface) Knobs() *knob.Controller    { return s.knobs }
func (s *Surface) Preview() *preview.Renderer { return s.preview }
func (s *Surface) Config() config.AppConfig   { return s.cfg }

// Captured reports whether a drag currently holds pointer capture.
func (s *Surface) Captured() bool { return s.captured }

// Autoscrolling reports whether the autoscroll timer is running.
func (s *Surface) Autoscrolling() bool { return s.autoscroll != nil }

// Dirty reports whether anything changed since the last Render.
func (s *Surface) Dirty() bool { return s.dirty }

// SetSheet switches the edited sheet. Any gesture in progress is cancelled
// and the selection cleared.
func (s *Surface) SetSheet(sh *shape.Sheet) {
	if s.closed {
		return
	}
	if err := s.stack.Cancel(); err != nil {
		s.log.Warn("cancel on sheet switch", slog.Any("err", err))
	}
	s.sheet = sh
	s.sel.Clear()
	s.guides.Reset()
	if sh != nil {
		s.view.SetSheet(sh.Scale, sh.Offset)
		s.log.Info("sheet", slog.String("name", sh.Name), slog.Int("layers", len(sh.Layers())))
	}
	s.Invalidate()
}

// OnGlueQuery subscribes fn to every glue query raised during shape drags,
// after the built-in responders.
func (s *Surface) OnGlueQuery(fn glue.Responder) glue.Handle {
	return s.resolver.Subscribe(fn)
}

// Close stops every timer and cancels any gesture. Further events are
// ignored.
func (s *Surface) Close() {
	if s.closed {
		return
	}
	s.stopAutoscroll()
	if err := s.stack.Cancel(); err != nil {
		s.log.Warn("cancel on close", slog.Any("err", err))
	}
	s.preview.End()
	s.incoming, s.outgoing = nil, nil
	s.closed = true
	s.log.Debug("surface closed")
}

// Snapshot encodes every shape of the active layer as a drag payload
// anchored at the document origin.
func (s *Surface) Snapshot() ([]byte, error) {
	if s.closed {
		return nil, ErrNoSurface
	}
	l := s.ActiveLayer()
	if l == nil {
		return nil, ErrNoLayer
	}
	return encodeShapes(s.id, geom.Point{}, l.Shapes())
}
