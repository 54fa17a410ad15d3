/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"strings"
	"testing"

	"drawsurface/internal/config"
	applog "drawsurface/internal/log"
)

const dragScript = `sheet: {name: s1, width: 1000, height: 1000}
view: {width: 400, height: 300}
shapes:
  - {kind: rect, name: box, x: 0, y: 0, w: 20, h: 20, fill: "#ff0000"}
  - {kind: polyline, name: line, points: [[100, 100], [150, 120]]}
steps:
  - {op: down, at: [5, 5]}
  - {op: move, at: [18, 7]}
  - op: expect
    expect: {stack: [basic, dragging], captured: true, selected: 1}
  - {op: up, at: [18, 7]}
  - op: expect
    expect: {stack: [basic], captured: false, shapes: 2, pins: {box: [20, 10]}}
  - {op: undo}
  - op: expect
    expect: {pins: {box: [10, 10]}}
  - {op: redo}
  - op: expect
    expect: {pins: {box: [20, 10]}}
`

func gridOnly() *config.AppConfig {
	c := config.Defaults()
	c.Glue.SnapToEdges = false
	c.Glue.SnapToCenters = false
	c.Glue.SnapToPins = false
	return &c
}

func TestParseKeepsStepLines(t *testing.T) {
	s, errs := Parse(dragScript)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if s.Sheet.Name != "s1" || len(s.Shapes) != 2 {
		t.Fatalf("unexpected header: %+v", s)
	}
	if len(s.Steps) != 10 {
		t.Fatalf("expected 10 steps, got %d", len(s.Steps))
	}
	if s.Steps[0].Op != "down" || s.Steps[0].Line != 7 {
		t.Fatalf("first step = %+v, want down on line 7", s.Steps[0])
	}
	if s.Steps[2].Expect == nil || s.Steps[2].Line != 9 {
		t.Fatalf("expect step = %+v, want expect block on line 9", s.Steps[2])
	}
	if got := s.Steps[2].Expect.Stack; len(got) != 2 || got[1] != "dragging" {
		t.Fatalf("unexpected stack expectation: %v", got)
	}
}

func TestParseReportsEveryProblem(t *testing.T) {
	input := `shapes:
  - {kind: star, name: a}
  - {kind: rect, name: a}
steps:
  - {op: jump}
  - {op: expect}
  - {op: zoom, factor: 0}
  - op: expect
    expect: {pins: {ghost: [0, 0]}}
  - {op: down, wobble: 1}
`
	_, errs := Parse(input)
	want := []string{
		`unknown kind "star"`,
		`duplicate shape name "a"`,
		`unknown op "jump"`,
		"expect step without expect block",
		"zoom needs a positive factor",
		`unknown shape "ghost"`,
		"wobble",
	}
	if len(errs) != len(want) {
		t.Fatalf("expected %d errors, got %d: %+v", len(want), len(errs), errs)
	}
	for i, w := range want {
		if !strings.Contains(errs[i].Message, w) {
			t.Fatalf("error %d = %q, want it to mention %q", i, errs[i].Message, w)
		}
	}
	if errs[2].Line != 5 {
		t.Fatalf("unknown op reported on line %d, want 5", errs[2].Line)
	}
	if !strings.HasPrefix(errs[2].Error(), "line 5:") {
		t.Fatalf("unexpected error text %q", errs[2].Error())
	}
}

func TestParseRejectsUnknownTopLevelKey(t *testing.T) {
	_, errs := Parse("sheet: {name: a}\npanels: 3\n")
	if len(errs) != 1 || !strings.Contains(errs[0].Message, "panels") {
		t.Fatalf("expected unknown field error, got %+v", errs)
	}
}

func TestParseEmpty(t *testing.T) {
	s, errs := Parse("")
	if len(errs) != 0 || len(s.Steps) != 0 {
		t.Fatalf("empty input: %+v %+v", s, errs)
	}
}

func TestRunDragSnapsAndUndoes(t *testing.T) {
	s, errs := Parse(dragScript)
	if len(errs) != 0 {
		t.Fatalf("parse: %+v", errs)
	}
	res, err := Run(s, Options{Config: gridOnly(), Logger: applog.Discard()})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !res.OK() {
		t.Fatalf("unexpected failures: %+v", res.Failures)
	}
	if res.Steps != 10 {
		t.Fatalf("ran %d steps, want 10", res.Steps)
	}
	if res.Shapes["line"] == nil || res.Surface.Sheet().Name != "s1" {
		t.Fatalf("script shapes not built")
	}
}

func TestRunCollectsFailedExpectations(t *testing.T) {
	input := `shapes:
  - {kind: rect, name: box, x: 0, y: 0, w: 20, h: 20}
steps:
  - {op: undo}
  - op: expect
    expect: {pins: {box: [99, 99]}, selected: 3}
`
	s, errs := Parse(input)
	if len(errs) != 0 {
		t.Fatalf("parse: %+v", errs)
	}
	res, err := Run(s, Options{Logger: applog.Discard()})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Failures) != 3 {
		t.Fatalf("expected 3 failures, got %+v", res.Failures)
	}
	if res.Failures[0].Line != 4 || res.Failures[0].Message != "nothing to undo" {
		t.Fatalf("unexpected first failure %+v", res.Failures[0])
	}
	if !strings.Contains(res.Failures[1].Message, "selected = 0") || !strings.Contains(res.Failures[2].Message, "box pin") {
		t.Fatalf("unexpected expectation failures %+v", res.Failures[1:])
	}
}

func TestBuildRejectsBadColor(t *testing.T) {
	_, _, err := Build(Script{Shapes: []ShapeSpec{{Kind: "rect", W: 1, H: 1, Fill: "#zz"}}})
	if err == nil {
		t.Fatalf("expected error for bad fill color")
	}
}
