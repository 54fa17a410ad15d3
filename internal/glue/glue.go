/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package glue resolves snapping while shapes are dragged.
//
// Each drag tick raises one Query per dragged shape. Responders subscribed
// to the Resolver may accept a query with a snapped pointer target and a
// distance; the accepted query with the smallest distance decides the delta
// applied to every dragged shape.
package glue

import (
	"drawsurface/internal/geom"
	"drawsurface/internal/shape"
)

// Query is the per-tick, per-shape snap request. Responders read the
// first four fields and call Accept or AcceptPin.
type Query struct {
	Shape    *shape.Shape
	StartPin geom.Point // document-space pin when the drag began
	Anchor   geom.Point // document-space pointer when the drag began
	Target   geom.Point // document-space pointer now

	Accepted bool
	Snapped  geom.Point // snapped pointer target
	Distance float64
	By       string // name of the responder that won the query
}

// RawDelta is the unsnapped pointer displacement.
func (q *Query) RawDelta() geom.Point { return q.Target.Sub(q.Anchor) }

// ProposedPin is where the shape's pin lands without snapping.
func (q *Query) ProposedPin() geom.Point { return q.StartPin.Add(q.RawDelta()) }

// Accept proposes snapped as the pointer target at distance dist. Negative
// distances are ignored; a proposal farther than an earlier one is dropped.
// It reports whether the proposal was taken.
func (q *Query) Accept(snapped geom.Point, dist float64, by string) bool {
	if dist < 0 || (q.Accepted && dist >= q.Distance) {
		return false
	}
	q.Accepted, q.Snapped, q.Distance, q.By = true, snapped, dist, by
	return true
}

// AcceptPin proposes a snapped pin position instead of a pointer target.
func (q *Query) AcceptPin(pin geom.Point, dist float64, by string) bool {
	return q.Accept(q.Anchor.Add(pin.Sub(q.StartPin)), dist, by)
}

// Responder answers glue queries.
type Responder func(*Query)

type subscriber struct {
	id uint32
	fn Responder
}

// Resolver broadcasts queries to its subscribers in registration order.
type Resolver struct {
	subs   []subscriber
	nextID uint32
}

// Handle removes a subscription.
type Handle struct {
	id uint32
	r  *Resolver
}

// Remove unsubscribes; removing twice is harmless.
func (h Handle) Remove() {
	if h.r == nil {
		return
	}
	for i, s := range h.r.subs {
		if s.id == h.id {
			h.r.subs = append(h.r.subs[:i], h.r.subs[i+1:]...)
			return
		}
	}
}

func (r *Resolver) Subscribe(fn Responder) Handle {
	r.nextID++
	r.subs = append(r.subs, subscriber{id: r.nextID, fn: fn})
	return Handle{id: r.nextID, r: r}
}

func (r *Resolver) Len() int { return len(r.subs) }

// Raise runs every subscriber on q.
func (r *Resolver) Raise(q *Query) {
	for _, s := range append([]subscriber(nil), r.subs...) {
		s.fn(q)
	}
}

// Resolve returns the accepted query with the smallest distance. Exact
// ties keep the earliest query, so results only depend on query order.
func Resolve(qs []*Query) (*Query, bool) {
	var best *Query
	for _, q := range qs {
		if q == nil || !q.Accepted {
			continue
		}
		if best == nil || q.Distance < best.Distance {
			best = q
		}
	}
	return best, best != nil
}

// Delta returns the displacement to apply this tick: the winning snapped
// target minus the drag anchor, or the raw pointer delta when nothing was
// accepted.
func Delta(qs []*Query, anchor, target geom.Point) geom.Point {
	if best, ok := Resolve(qs); ok {
		return best.Snapped.Sub(anchor)
	}
	return target.Sub(anchor)
}
