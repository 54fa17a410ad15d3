/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"encoding/json"

	"github.com/gogpu/gg"

	"drawsurface/internal/geom"
)

// Command is one recorded drawing operation, in painter's order.
type Command struct {
	Op          string     `json:"op"` // "path", "ellipse" or "rect"
	Transform   [6]float64 `json:"transform"`
	Bounds      geom.Rect  `json:"bounds"`
	Fill        string     `json:"fill,omitempty"`
	Stroke      string     `json:"stroke,omitempty"`
	StrokeWidth float64    `json:"strokeWidth,omitempty"`
	Dashed      bool       `json:"dashed,omitempty"`
}

// Recorder is a Backend that keeps a command list instead of pixels.
type Recorder struct {
	Commands []Command
	stack    []geom.Matrix
	cur      geom.Matrix
}

func NewRecorder() *Recorder { return &Recorder{cur: geom.Identity()} }

// Depth reports the number of transforms currently pushed.
func (r *Recorder) Depth() int { return len(r.stack) }

// Current returns the composed transform.
func (r *Recorder) Current() geom.Matrix { return r.cur }

func (r *Recorder) Reset() {
	r.Commands = r.Commands[:0]
	r.stack = r.stack[:0]
	r.cur = geom.Identity()
}

// Count returns how many commands of op were recorded.
func (r *Recorder) Count(op string) int {
	n := 0
	for _, c := range r.Commands {
		if c.Op == op {
			n++
		}
	}
	return n
}

func (r *Recorder) JSON() ([]byte, error) { return json.Marshal(r.Commands) }

func (r *Recorder) add(op string, local geom.Rect, fill *Brush, stroke *Pen) {
	m := r.cur
	c := Command{
		Op:        op,
		Transform: [6]float64{m.A, m.B, m.C, m.D, m.E, m.F},
		Bounds:    m.TransformRect(local),
	}
	if fill != nil {
		c.Fill = Hex(fill.Color)
	}
	if stroke != nil {
		c.Stroke = Hex(stroke.Color)
		c.StrokeWidth = stroke.Width
		c.Dashed = len(stroke.Dash) > 0
	}
	r.Commands = append(r.Commands, c)
}

func (r *Recorder) DrawPath(p *gg.Path, fill *Brush, stroke *Pen) {
	if p == nil {
		return
	}
	b, _ := PathBounds(p, geom.Identity())
	r.add("path", b, fill, stroke)
}

func (r *Recorder) DrawEllipse(c geom.Point, rx, ry float64, fill *Brush, stroke *Pen) {
	r.add("ellipse", geom.R(c.X-rx, c.Y-ry, 2*rx, 2*ry), fill, stroke)
}

func (r *Recorder) DrawRect(rc geom.Rect, fill *Brush, stroke *Pen) {
	r.add("rect", rc, fill, stroke)
}

func (r *Recorder) PushTransform(m geom.Matrix) {
	r.stack = append(r.stack, r.cur)
	r.cur = r.cur.Mul(m)
}

func (r *Recorder) PopTransform() {
	if len(r.stack) == 0 {
		return
	}
	r.cur = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
}
