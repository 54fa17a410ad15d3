/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package log sets up the process-wide slog logger: a readable console
// handler or JSON on stderr, plus an optional rotating JSON file.
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	lj "gopkg.in/natefinch/lumberjack.v2"

	"drawsurface/internal/version"
)

// Options controls logger initialization. FromEnv fills it from
// DSF_LOG_LEVEL, DSF_LOG_FORMAT, DSF_LOG_SOURCE and DSF_LOG_FILE.
type Options struct {
	Level     string `envconfig:"DSF_LOG_LEVEL" default:"info"`
	Format    string `envconfig:"DSF_LOG_FORMAT" default:"console"` // "console" or "json"
	AddSource bool   `envconfig:"DSF_LOG_SOURCE"`
	File      string `envconfig:"DSF_LOG_FILE"`

	// Rotation of File, in megabytes and days.
	MaxSizeMB  int `envconfig:"DSF_LOG_MAX_SIZE_MB" default:"10"`
	MaxBackups int `envconfig:"DSF_LOG_MAX_BACKUPS" default:"3"`
	MaxAgeDays int `envconfig:"DSF_LOG_MAX_AGE_DAYS" default:"28"`

	// Output replaces stderr for the console handler. Tests use it.
	Output io.Writer `ignored:"true"`
}

var (
	mu      sync.RWMutex
	current *slog.Logger
	closer  io.Closer
)

// L returns the process logger, initializing it from the environment on
// first use.
func L() *slog.Logger {
	mu.RLock()
	l := current
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Init replaces the process logger and slog.Default.
func Init(opts Options) {
	lvl := ParseLevel(opts.Level)
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	var console slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		console = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource})
	} else {
		console = newConsoleHandler(out, lvl, opts.AddSource)
	}

	handler := console
	var rot *lj.Logger
	if f := strings.TrimSpace(opts.File); f != "" {
		rot = &lj.Logger{
			Filename:   f,
			MaxSize:    positive(opts.MaxSizeMB, 10),
			MaxBackups: positive(opts.MaxBackups, 3),
			MaxAge:     positive(opts.MaxAgeDays, 28),
			Compress:   true,
		}
		handler = fanout{console, slog.NewJSONHandler(rot, &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource})}
	}

	logger := slog.New(handler).With(
		slog.String("app", "drawsurface"),
		slog.String("ver", version.Version),
		slog.Time("ts_init", time.Now()),
	)

	mu.Lock()
	if closer != nil {
		_ = closer.Close()
		closer = nil
	}
	if rot != nil {
		closer = rot
	}
	current = logger
	mu.Unlock()
	slog.SetDefault(logger)
}

// Close flushes and releases the rotating file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	return err
}

// FromEnv reads DSF_LOG_* into Options. Malformed values fall back to
// the defaults.
func FromEnv() Options {
	var o Options
	if err := envconfig.Process("", &o); err != nil {
		return Options{Level: "info", Format: "console", MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 28}
	}
	return o
}

func positive(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// WithComponent returns the process logger tagged with component=name.
func WithComponent(name string) *slog.Logger { return L().With(slog.String("component", name)) }

// WithOperation annotates l with op.
func WithOperation(l *slog.Logger, op string) *slog.Logger { return l.With(slog.String("op", op)) }

// Discard returns a logger that drops everything.
func Discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// ParseLevel maps debug/info/warn/error to a slog level; anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
