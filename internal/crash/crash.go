/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic on the main goroutine into a report file and,
// when a snapshot source is supplied, a dump of the drawing being edited.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	applog "drawsurface/internal/log"
	"drawsurface/internal/version"
)

// exitFn is swapped in tests.
var exitFn = os.Exit

// Options says where reports go and how to dump the current drawing.
type Options struct {
	// Dir defaults to os.TempDir().
	Dir string
	// Snapshot returns the document to save next to the report.
	Snapshot func() ([]byte, error)
}

// Recover must be deferred directly:
//
//	defer crash.Recover(crash.Options{Snapshot: s.Snapshot})
func Recover(opts Options) {
	r := recover()
	if r == nil {
		return
	}
	l := applog.WithComponent("crash")
	stack := debug.Stack()
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	reportPath, err := writeReport(opts.Dir, r, stack)
	if err != nil {
		l.Error("crash report failed", slog.Any("err", err), slog.String("path", reportPath))
	}
	if opts.Snapshot != nil {
		if path, err := writeSnapshot(opts.Dir, opts.Snapshot); err != nil {
			l.Error("crash snapshot failed", slog.Any("err", err))
		} else {
			l.Info("crash snapshot written", slog.String("path", path))
		}
	}

	_, _ = fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath)
	_, _ = fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH)
	exitFn(2)
}

func reportDir(dir string) string {
	if dir == "" {
		return os.TempDir()
	}
	_ = os.MkdirAll(dir, 0o755)
	return dir
}

func writeReport(dir string, panicVal any, stack []byte) (string, error) {
	path := filepath.Join(reportDir(dir), "crash-"+time.Now().Format("20060102-150405")+".log")

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "drawsurface crash report\n")
	fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&buf, "Version: %s\n", version.String())
	fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	fmt.Fprintf(&buf, "Stack:\n%s\n", stack)

	return path, os.WriteFile(path, buf.Bytes(), 0o644)
}

// writeSnapshot calls snap under its own recover so a broken document
// cannot mask the original panic.
func writeSnapshot(dir string, snap func() ([]byte, error)) (path string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("snapshot panicked: %v", r)
		}
	}()
	data, err := snap()
	if err != nil {
		return "", err
	}
	path = filepath.Join(reportDir(dir), "crash-"+time.Now().Format("20060102-150405")+".json")
	return path, os.WriteFile(path, data, 0o644)
}
