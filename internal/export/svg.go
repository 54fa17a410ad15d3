/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gogpu/gg"

	"drawsurface/internal/geom"
	"drawsurface/internal/render"
	"drawsurface/internal/shape"
)

// SVGOptions controls SVG export. Background is a #rrggbb colour; empty
// means transparent.
type SVGOptions struct {
	Background string
	Title      string
}

// svgWriter is a render.Backend emitting SVG elements. Transforms become
// nested groups.
type svgWriter struct {
	buf    bytes.Buffer
	err    error
	indent int
}

func (w *svgWriter) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(&w.buf, strings.Repeat("  ", w.indent)+format+"\n", args...)
}

func (w *svgWriter) DrawPath(p *gg.Path, fill *render.Brush, stroke *render.Pen) {
	if p == nil {
		return
	}
	d := pathData(p)
	if d == "" {
		return
	}
	w.printf(`<path d="%s"%s/>`, d, paint(fill, stroke))
}

func (w *svgWriter) DrawEllipse(c geom.Point, rx, ry float64, fill *render.Brush, stroke *render.Pen) {
	w.printf(`<ellipse cx="%g" cy="%g" rx="%g" ry="%g"%s/>`, c.X, c.Y, rx, ry, paint(fill, stroke))
}

func (w *svgWriter) DrawRect(r geom.Rect, fill *render.Brush, stroke *render.Pen) {
	w.printf(`<rect x="%g" y="%g" width="%g" height="%g"%s/>`, r.X, r.Y, r.W, r.H, paint(fill, stroke))
}

func (w *svgWriter) PushTransform(m geom.Matrix) {
	w.printf(`<g transform="matrix(%g %g %g %g %g %g)">`, m.A, m.B, m.C, m.D, m.E, m.F)
	w.indent++
}

func (w *svgWriter) PopTransform() {
	if w.indent == 0 {
		return
	}
	w.indent--
	w.printf("</g>")
}

func pathData(p *gg.Path) string {
	var sb strings.Builder
	for _, el := range p.Elements() {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		switch e := el.(type) {
		case gg.MoveTo:
			fmt.Fprintf(&sb, "M%g %g", e.Point.X, e.Point.Y)
		case gg.LineTo:
			fmt.Fprintf(&sb, "L%g %g", e.Point.X, e.Point.Y)
		case gg.QuadTo:
			fmt.Fprintf(&sb, "Q%g %g %g %g", e.Control.X, e.Control.Y, e.Point.X, e.Point.Y)
		case gg.CubicTo:
			fmt.Fprintf(&sb, "C%g %g %g %g %g %g", e.Control1.X, e.Control1.Y, e.Control2.X, e.Control2.Y, e.Point.X, e.Point.Y)
		case gg.Close:
			sb.WriteByte('Z')
		}
	}
	return sb.String()
}

func paint(fill *render.Brush, stroke *render.Pen) string {
	var sb strings.Builder
	if fill == nil {
		sb.WriteString(` fill="none"`)
	} else {
		fmt.Fprintf(&sb, ` fill="#%02x%02x%02x"`, fill.Color.R, fill.Color.G, fill.Color.B)
		if fill.Color.A != 0xff {
			fmt.Fprintf(&sb, ` fill-opacity="%.3g"`, float64(fill.Color.A)/0xff)
		}
	}
	if stroke != nil && stroke.Width > 0 {
		c := stroke.Color
		fmt.Fprintf(&sb, ` stroke="#%02x%02x%02x" stroke-width="%g"`, c.R, c.G, c.B, stroke.Width)
		if c.A != 0xff {
			fmt.Fprintf(&sb, ` stroke-opacity="%.3g"`, float64(c.A)/0xff)
		}
		if len(stroke.Dash) > 0 {
			parts := make([]string, len(stroke.Dash))
			for i, d := range stroke.Dash {
				parts[i] = fmt.Sprintf("%g", d)
			}
			fmt.Fprintf(&sb, ` stroke-dasharray="%s"`, strings.Join(parts, " "))
		}
	}
	return sb.String()
}

// WriteSheetSVG writes the sheet's visible layers as an SVG document in
// document units.
func WriteSheetSVG(out io.Writer, sheet *shape.Sheet, opt SVGOptions) error {
	if sheet == nil {
		return ErrNothingToExport
	}
	w := &svgWriter{}
	sz := sheet.Size
	w.printf(`<?xml version="1.0" encoding="UTF-8"?>`)
	w.printf(`<svg xmlns="http://www.w3.org/2000/svg" version="1.1" width="%g" height="%g" viewBox="0 0 %g %g">`, sz.W, sz.H, sz.W, sz.H)
	w.indent++
	title := opt.Title
	if title == "" {
		title = sheet.Name
	}
	if title != "" {
		w.printf("<title>%s</title>", escText(title))
	}
	if opt.Background != "" {
		w.printf(`<rect x="0" y="0" width="%g" height="%g" fill="%s"/>`, sz.W, sz.H, escAttr(opt.Background))
	}
	sheet.Draw(w, geom.Identity())
	w.indent--
	w.printf("</svg>")
	if w.err != nil {
		return fmt.Errorf("build svg: %w", w.err)
	}
	if _, err := out.Write(w.buf.Bytes()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// SaveSheetSVG writes WriteSheetSVG's output to path.
func SaveSheetSVG(path string, sheet *shape.Sheet, opt SVGOptions) error {
	return saveFile(path, func(w io.Writer) error { return WriteSheetSVG(w, sheet, opt) })
}

func escAttr(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; ch {
		case '"':
			out = append(out, "&quot;"...)
		case '<':
			out = append(out, "&lt;"...)
		case '&':
			out = append(out, "&amp;"...)
		case '\n':
			out = append(out, ' ')
		case '\r':
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}

func escText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
