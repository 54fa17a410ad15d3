//go:build fyne

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"fmt"
	"image/color"
	"os"

	"drawsurface/internal/geom"
	"drawsurface/internal/render"
	"drawsurface/internal/script"
	"drawsurface/internal/shape"
)

func loadSheet(path string) (*shape.Sheet, error) {
	if path == "" {
		return demoSheet(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	sc, errs := script.Parse(string(data))
	if len(errs) > 0 {
		return nil, errs[0]
	}
	sheet, _, err := script.Build(sc)
	return sheet, err
}

func demoSheet() *shape.Sheet {
	sheet := shape.NewSheet("demo", geom.Size{W: 1200, H: 900})
	pen := &render.Pen{Color: color.NRGBA{A: 0xff}, Width: 2}
	l := sheet.ActiveLayer()
	l.Add(
		shape.NewRect("red", geom.R(100, 100, 160, 120), &render.Brush{Color: color.NRGBA{R: 220, G: 120, B: 120, A: 0xff}}, pen),
		shape.NewEllipse("blue", geom.R(360, 220, 180, 100), &render.Brush{Color: color.NRGBA{R: 120, G: 180, B: 220, A: 0xff}}, pen),
	)
	tri := shape.NewPolyline("triangle", []geom.Point{{X: 600, Y: 400}, {X: 700, Y: 560}, {X: 520, Y: 560}}, true,
		&render.Brush{Color: color.NRGBA{R: 140, G: 200, B: 120, A: 0xff}}, pen)
	tri.SetAngle(geom.Degrees(12))
	l.Add(tri)
	return sheet
}
