/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shape

import (
	"drawsurface/internal/geom"
	"drawsurface/internal/render"
)

// Draw paints sh and its descendants. toDisplay maps document space to the
// backend's space.
func Draw(b render.Backend, toDisplay geom.Matrix, sh *Shape) {
	sh.Walk(func(n *Shape) {
		if len(n.paths) == 0 {
			return
		}
		render.WithTransform(b, toDisplay.Mul(n.World()), func() {
			for _, dp := range n.paths {
				b.DrawPath(dp.Path, dp.Fill, dp.Stroke)
			}
		})
	})
}

// Draw paints every visible layer bottom to top.
func (s *Sheet) Draw(b render.Backend, toDisplay geom.Matrix) {
	for _, l := range s.layers {
		if !l.Visible {
			continue
		}
		for _, sh := range l.shapes {
			Draw(b, toDisplay, sh)
		}
	}
}
