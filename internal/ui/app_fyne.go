//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"drawsurface/internal/config"
	"drawsurface/internal/crash"
	"drawsurface/internal/geom"
	applog "drawsurface/internal/log"
	"drawsurface/internal/surface"
	"drawsurface/internal/version"
)

// Run opens a window editing the sheet described by scriptPath, or a demo
// sheet when the path is empty. Script steps are not replayed.
func Run(scriptPath string) error {
	l := applog.WithComponent("ui")
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	sheet, err := loadSheet(scriptPath)
	if err != nil {
		return err
	}

	fyneApp := app.NewWithID("drawsurface")
	w := fyneApp.NewWindow("Draw Surface")
	prefs := fyneApp.Preferences()
	winW := max(prefs.IntWithFallback("window.width", 1024), 640)
	winH := max(prefs.IntWithFallback("window.height", 768), 480)
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")
	var sc *SurfaceCanvas
	s, err := surface.New(surface.Options{
		Size:   geom.Size{W: float64(winW), H: float64(winH)},
		Sheet:  sheet,
		Config: &cfg,
		Logger: l,
		Timers: surface.Tickers{Post: fyne.Do},
		OnInvalidate: func() {
			if sc != nil {
				sc.raster.Refresh()
			}
		},
	})
	if err != nil {
		return err
	}
	defer s.Close()
	defer crash.Recover(crash.Options{Dir: crashDir(), Snapshot: s.Snapshot})

	sc = NewSurfaceCanvas(s)
	sc.OnStatus = status.SetText

	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { sc.Undo() })
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { sc.Redo() })
	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			sc.Cancel()
		}
	})

	w.SetContent(container.NewBorder(nil, status, nil, nil, sc))
	w.SetOnClosed(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
	})
	l.Info("starting UI", "version", version.Version, "sheet", sheet.Name)
	w.ShowAndRun()
	return nil
}

func crashDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return os.TempDir()
	}
	return filepath.Join(dir, "drawsurface", "crash")
}
