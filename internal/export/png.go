/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/gogpu/gg"

	"drawsurface/internal/geom"
	"drawsurface/internal/render"
	"drawsurface/internal/shape"
	"drawsurface/internal/surface"
)

// ErrNothingToExport is returned for a surface without a sheet.
var ErrNothingToExport = errors.New("nothing to export")

// PNGOptions controls PNG export.
//   - Background: canvas colour; white when nil.
//   - Scale: output pixels per document unit for sheet exports; 1 when zero.
type PNGOptions struct {
	Background color.Color
	Scale      float64
}

func (o PNGOptions) background() gg.RGBA {
	if o.Background == nil {
		return gg.White
	}
	return gg.FromColor(o.Background)
}

// WriteFramePNG rasterizes exactly what the surface shows, overlays
// included, at the view's pixel size.
func WriteFramePNG(w io.Writer, s *surface.Surface, opt PNGOptions) error {
	if s == nil || s.Sheet() == nil {
		return ErrNothingToExport
	}
	size := s.View().Size()
	return rasterize(w, int(math.Ceil(size.W)), int(math.Ceil(size.H)), opt, s.Render)
}

// WriteSheetPNG rasterizes the sheet's visible layers in document space,
// without selection or interaction overlays.
func WriteSheetPNG(w io.Writer, sheet *shape.Sheet, opt PNGOptions) error {
	if sheet == nil {
		return ErrNothingToExport
	}
	scale := opt.Scale
	if scale <= 0 {
		scale = 1
	}
	pw := int(math.Ceil(sheet.Size.W * scale))
	ph := int(math.Ceil(sheet.Size.H * scale))
	return rasterize(w, pw, ph, opt, func(b render.Backend) {
		sheet.Draw(b, geom.Scale(scale, scale))
	})
}

func rasterize(w io.Writer, pw, ph int, opt PNGOptions, paint func(render.Backend)) error {
	if pw <= 0 || ph <= 0 {
		return fmt.Errorf("export png: empty canvas %dx%d", pw, ph)
	}
	ctx := gg.NewContext(pw, ph)
	defer func() { _ = ctx.Close() }()
	ctx.ClearWithColor(opt.background())

	back := render.NewGG(ctx)
	paint(back)
	if err := back.Err(); err != nil {
		return fmt.Errorf("export png: %w", err)
	}
	if err := ctx.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SaveFramePNG writes WriteFramePNG's output to path, creating parent
// directories.
func SaveFramePNG(path string, s *surface.Surface, opt PNGOptions) error {
	return saveFile(path, func(w io.Writer) error { return WriteFramePNG(w, s, opt) })
}

// SaveSheetPNG writes WriteSheetPNG's output to path.
func SaveSheetPNG(path string, sheet *shape.Sheet, opt PNGOptions) error {
	return saveFile(path, func(w io.Writer) error { return WriteSheetPNG(w, sheet, opt) })
}

func saveFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return nil
}
