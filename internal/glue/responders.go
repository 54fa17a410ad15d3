/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package glue

import (
	"math"

	"drawsurface/internal/geom"
	"drawsurface/internal/shape"
)

// Grid snaps pins to a square grid.
func Grid(spacing, threshold float64) Responder {
	return func(q *Query) {
		if spacing <= 0 {
			return
		}
		p := q.ProposedPin()
		s := geom.Pt(math.Round(p.X/spacing)*spacing, math.Round(p.Y/spacing)*spacing)
		if d := s.Dist(p); d <= threshold {
			q.AcceptPin(s, d, "grid")
		}
	}
}

// Pins snaps a dragged pin onto the nearest candidate point. candidates is
// asked per query so it can exclude the shapes being dragged.
func Pins(candidates func(*shape.Shape) []geom.Point, threshold float64) Responder {
	return func(q *Query) {
		p := q.ProposedPin()
		best, bestD := geom.Point{}, math.Inf(1)
		for _, c := range candidates(q.Shape) {
			if d := c.Dist(p); d < bestD {
				best, bestD = c, d
			}
		}
		if bestD <= threshold {
			q.AcceptPin(best, bestD, "pin")
		}
	}
}
