/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"drawsurface/internal/config"
	"drawsurface/internal/crash"
	"drawsurface/internal/export"
	applog "drawsurface/internal/log"
	"drawsurface/internal/script"
	"drawsurface/internal/ui"
	"drawsurface/internal/version"
)

func usage() {
	fmt.Println("drawsurface: interactive 2D vector drawing surface")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  drawsurface version|-v|--version                      Show version")
	fmt.Println("  drawsurface check <script.yaml>                       Parse a replay script and report problems")
	fmt.Println("  drawsurface replay <script.yaml> [--png f] [--svg f]  Replay a script, optionally exporting the result")
	fmt.Println("  drawsurface config                                    Print the effective configuration and its path")
	fmt.Println("  drawsurface ui [<script.yaml>]                        Launch desktop UI (build with -tags fyne for full UI)")
}

func fail(l *slog.Logger, msg string, err error) {
	l.Error(msg, slog.Any("err", err))
	fmt.Println("Error:", err)
	_ = applog.Close()
	os.Exit(1)
}

func main() {
	cfg, cfgErr := config.Load()
	opts := applog.FromEnv()
	if cfgErr == nil {
		opts.Level = cfg.Logging.Level
		opts.Format = cfg.Logging.Format
		opts.AddSource = cfg.Logging.Source
		opts.File = cfg.Logging.File
	}
	applog.Init(opts)
	defer func() { _ = applog.Close() }()
	l := applog.WithComponent("cli")
	defer crash.Recover(crash.Options{})
	if cfgErr != nil {
		fail(l, "load config", cfgErr)
	}

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) < 2 {
		usage()
		return
	}
	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println(version.String())
	case "check":
		if len(args) < 3 {
			fmt.Println("check requires <script.yaml>")
			usage()
			os.Exit(2)
		}
		sc := load(l, args[2])
		fmt.Printf("%s: %d shapes, %d steps\n", args[2], len(sc.Shapes), len(sc.Steps))
	case "replay":
		if len(args) < 3 {
			fmt.Println("replay requires <script.yaml>")
			usage()
			os.Exit(2)
		}
		pngOut, svgOut, err := outputs(args[3:])
		if err != nil {
			fmt.Println(err)
			usage()
			os.Exit(2)
		}
		replay(l, &cfg, args[2], pngOut, svgOut)
	case "config":
		path, err := config.ConfigPath()
		if err != nil {
			fail(l, "config path", err)
		}
		fmt.Println("Config file:", path)
		printConfig(cfg)
	case "ui":
		var path string
		if len(args) >= 3 {
			path = args[2]
		}
		if err := ui.Run(path); err != nil {
			fail(l, "ui", err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func outputs(args []string) (pngOut, svgOut string, err error) {
	for i := 0; i < len(args); i++ {
		if i+1 >= len(args) {
			return "", "", fmt.Errorf("%s requires a file name", args[i])
		}
		switch args[i] {
		case "--png":
			pngOut = args[i+1]
		case "--svg":
			svgOut = args[i+1]
		default:
			return "", "", fmt.Errorf("unknown option %q", args[i])
		}
		i++
	}
	return pngOut, svgOut, nil
}

func load(l *slog.Logger, path string) script.Script {
	data, err := os.ReadFile(path)
	if err != nil {
		fail(l, "read script", err)
	}
	sc, errs := script.Parse(string(data))
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Printf("%s: %v\n", path, e)
		}
		l.Error("script has errors", slog.String("path", path), slog.Int("errors", len(errs)))
		_ = applog.Close()
		os.Exit(1)
	}
	return sc
}

func replay(l *slog.Logger, cfg *config.AppConfig, path, pngOut, svgOut string) {
	sc := load(l, path)
	res, err := script.Run(sc, script.Options{Config: cfg, Logger: applog.WithOperation(l, "replay")})
	if err != nil {
		fail(l, "replay", err)
	}
	defer res.Surface.Close()
	if pngOut != "" {
		if err := export.SaveFramePNG(pngOut, res.Surface, export.PNGOptions{}); err != nil {
			fail(l, "export png", err)
		}
		fmt.Println("Wrote", pngOut)
	}
	if svgOut != "" {
		if err := export.SaveSheetSVG(svgOut, res.Surface.Sheet(), export.SVGOptions{Background: "#ffffff"}); err != nil {
			fail(l, "export svg", err)
		}
		fmt.Println("Wrote", svgOut)
	}
	for _, f := range res.Failures {
		fmt.Printf("%s: %v\n", path, f)
	}
	fmt.Printf("%d steps, %d failures\n", res.Steps, len(res.Failures))
	if !res.OK() {
		_ = applog.Close()
		os.Exit(1)
	}
}

func printConfig(cfg config.AppConfig) {
	rows := []struct {
		key string
		val any
	}{
		{"interaction.drag_dead_zone_px", cfg.Interaction.DragDeadZonePx},
		{"interaction.hit_tolerance_px", cfg.Interaction.HitTolerancePx},
		{"interaction.range_policy", cfg.Interaction.RangePolicy},
		{"interaction.knob_size_px", cfg.Interaction.KnobSizePx},
		{"glue.enabled", cfg.Glue.Enabled},
		{"glue.grid", cfg.Glue.Grid},
		{"glue.threshold_px", cfg.Glue.ThresholdPx},
		{"undo.max_per_sheet", cfg.Undo.MaxPerSheet},
		{"logging.level", cfg.Logging.Level},
	}
	for _, r := range rows {
		line := fmt.Sprintf("  %-32s %v", r.key, r.val)
		if env, ok := config.EnvOverrideFor(r.key); ok {
			line += "  (from " + env + ")"
		}
		fmt.Println(strings.TrimRight(line, " "))
	}
}
