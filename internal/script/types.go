/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import "fmt"

// Script is a scripted interaction session: a sheet with shapes and a list
// of pointer steps to replay against a surface.
type Script struct {
	Sheet  SheetSpec   `yaml:"sheet"`
	View   ViewSpec    `yaml:"view"`
	Shapes []ShapeSpec `yaml:"shapes"`
	Steps  []Step      `yaml:"-"`
}

type SheetSpec struct {
	Name   string  `yaml:"name"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type ViewSpec struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Zoom     float64 `yaml:"zoom"`
	Rotation float64 `yaml:"rotation"` // degrees
}

// ShapeSpec describes one top-level shape. Kind is rect, ellipse or
// polyline; rect and ellipse use X/Y/W/H, polyline uses Points.
type ShapeSpec struct {
	Kind   string       `yaml:"kind"`
	Name   string       `yaml:"name"`
	X      float64      `yaml:"x"`
	Y      float64      `yaml:"y"`
	W      float64      `yaml:"w"`
	H      float64      `yaml:"h"`
	Points [][2]float64 `yaml:"points"`
	Closed bool         `yaml:"closed"`
	Angle  float64      `yaml:"angle"` // degrees
	Fill   string       `yaml:"fill"`
	Stroke string       `yaml:"stroke"`
	Width  float64      `yaml:"width"`
}

// Step is one replayed action. Op is one of down, move, up, hover, enter,
// leave, cancel, tick, zoom, scroll, undo, redo or expect.
type Step struct {
	Op     string       `yaml:"op"`
	At     [2]float64   `yaml:"at"`
	Mods   string       `yaml:"mods"`
	Button *bool        `yaml:"button"` // primary held; defaults per op
	Count  int          `yaml:"count"`
	Factor float64      `yaml:"factor"`
	By     [2]float64   `yaml:"by"`
	Expect *Expectation `yaml:"expect"`

	Line int `yaml:"-"` // 1-based line in the source
}

// Expectation is checked by an expect step. Nil fields are not checked.
type Expectation struct {
	Selected *int                  `yaml:"selected"`
	Stack    []string              `yaml:"stack"`
	Captured *bool                 `yaml:"captured"`
	Pins     map[string][2]float64 `yaml:"pins"`
	Shapes   *int                  `yaml:"shapes"`
}

// Error carries the source position of a parse or replay failure.
type Error struct {
	Line    int
	Column  int
	Message string
}

func (e Error) Error() string {
	if e.Line == 0 {
		return e.Message
	}
	return fmt.Sprintf("line %d:%d: %s", e.Line, e.Column, e.Message)
}
