/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import "math"

// Matrix is a 2D affine transform laid out as
//
//	| A C E |
//	| B D F |
//	| 0 0 1 |
//
// so that x' = A*x + C*y + E and y' = B*x + D*y + F.
type Matrix struct{ A, B, C, D, E, F float64 }

func Identity() Matrix { return Matrix{A: 1, D: 1} }

func Translate(tx, ty float64) Matrix { return Matrix{A: 1, D: 1, E: tx, F: ty} }
func Scale(sx, sy float64) Matrix     { return Matrix{A: sx, D: sy} }

// Rotate returns a rotation about the origin.
func Rotate(a Angle) Matrix {
	s, c := a.Sincos()
	return Matrix{A: c, B: s, C: -s, D: c}
}

// RotateAbout returns a rotation about p.
func RotateAbout(a Angle, p Point) Matrix {
	return Translate(p.X, p.Y).Mul(Rotate(a)).Mul(Translate(-p.X, -p.Y))
}

// Mul returns m·n; the result applies n first, then m.
func (m Matrix) Mul(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

func (m Matrix) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// ApplyVector transforms a displacement, ignoring translation.
func (m Matrix) ApplyVector(v Point) Point {
	return Point{X: m.A*v.X + m.C*v.Y, Y: m.B*v.X + m.D*v.Y}
}

func (m Matrix) Det() float64 { return m.A*m.D - m.B*m.C }

// Invert returns the inverse of m. ok is false when m is singular or not
// finite, in which case the identity is returned.
func (m Matrix) Invert() (inv Matrix, ok bool) {
	det := m.Det()
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Identity(), false
	}
	id := 1 / det
	return Matrix{
		A: m.D * id,
		B: -m.B * id,
		C: -m.C * id,
		D: m.A * id,
		E: (m.C*m.F - m.D*m.E) * id,
		F: (m.B*m.E - m.A*m.F) * id,
	}, true
}

// TransformRect returns the axis-aligned bounds of r after applying m.
func (m Matrix) TransformRect(r Rect) Rect {
	c := r.Corners()
	for i := range c {
		c[i] = m.Apply(c[i])
	}
	out, _ := BoundsOf(c[:]...)
	return out
}

// ScaleFactor is the geometric mean of the axis scales.
func (m Matrix) ScaleFactor() float64 { return math.Sqrt(math.Abs(m.Det())) }

func (m Matrix) IsIdentity() bool { return m == Identity() }
