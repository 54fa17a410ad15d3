/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package undo

import (
	"time"

	"github.com/google/uuid"

	"drawsurface/internal/shape"
)

// Change is the before/after geometry of one shape.
type Change struct {
	ShapeID uuid.UUID
	Before  shape.State
	After   shape.State
}

// Entry is one committed edit on a sheet.
type Entry struct {
	Sheet   string
	Label   string
	Changes []Change
	TS      time.Time
}

// Config controls depth caps and coalescing.
type Config struct {
	// MaxEntries is a global cap; the oldest entries across all sheets are
	// pruned when exceeded.
	MaxEntries int
	// MaxPerSheet limits the undo depth of a single sheet (0 means unlimited).
	MaxPerSheet int
	// MinInterval merges an edit into the previous one when both carry the
	// same label and shapes and arrive within the interval. Negative
	// disables coalescing.
	MinInterval time.Duration
}

// Manager keeps an undo and a redo stack per sheet. Like the rest of the
// surface it is driven from a single goroutine.
type Manager struct {
	cfg   Config
	undo  map[string][]Entry
	redo  map[string][]Entry
	total int
}

func NewManager(cfg Config) *Manager {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 1000
	}
	if cfg.MinInterval == 0 {
		cfg.MinInterval = 250 * time.Millisecond
	}
	return &Manager{cfg: cfg, undo: make(map[string][]Entry), redo: make(map[string][]Entry)}
}

// Push records e. Any new edit clears the sheet's redo stack.
func (m *Manager) Push(e Entry) {
	if len(e.Changes) == 0 {
		return
	}
	stack := m.undo[e.Sheet]
	m.redo[e.Sheet] = nil
	if n := len(stack); n > 0 && m.cfg.MinInterval > 0 {
		last := stack[n-1]
		if last.Label == e.Label && e.TS.Sub(last.TS) < m.cfg.MinInterval && sameShapes(last, e) {
			stack[n-1] = merge(last, e)
			return
		}
	}
	m.undo[e.Sheet] = append(stack, e)
	m.total++
	m.enforceCaps(e.Sheet)
}

func sameShapes(a, b Entry) bool {
	if len(a.Changes) != len(b.Changes) {
		return false
	}
	ids := make(map[uuid.UUID]struct{}, len(a.Changes))
	for _, c := range a.Changes {
		ids[c.ShapeID] = struct{}{}
	}
	for _, c := range b.Changes {
		if _, ok := ids[c.ShapeID]; !ok {
			return false
		}
	}
	return true
}

// merge keeps the older Before and the newer After of every shape.
func merge(older, newer Entry) Entry {
	after := make(map[uuid.UUID]shape.State, len(newer.Changes))
	for _, c := range newer.Changes {
		after[c.ShapeID] = c.After
	}
	out := older
	out.TS = newer.TS
	out.Changes = make([]Change, len(older.Changes))
	for i, c := range older.Changes {
		c.After = after[c.ShapeID]
		out.Changes[i] = c
	}
	return out
}

// Undo moves the newest entry of sheet to its redo stack and returns it.
func (m *Manager) Undo(sheet string) (Entry, bool) {
	stack := m.undo[sheet]
	if len(stack) == 0 {
		return Entry{}, false
	}
	e := stack[len(stack)-1]
	m.undo[sheet] = stack[:len(stack)-1]
	m.total--
	m.redo[sheet] = append(m.redo[sheet], e)
	return e, true
}

// Redo moves the newest redo entry back onto the undo stack.
func (m *Manager) Redo(sheet string) (Entry, bool) {
	r := m.redo[sheet]
	if len(r) == 0 {
		return Entry{}, false
	}
	e := r[len(r)-1]
	m.redo[sheet] = r[:len(r)-1]
	m.undo[sheet] = append(m.undo[sheet], e)
	m.total++
	m.enforceCaps(sheet)
	return e, true
}

func (m *Manager) CanUndo(sheet string) bool { return len(m.undo[sheet]) > 0 }
func (m *Manager) CanRedo(sheet string) bool { return len(m.redo[sheet]) > 0 }

// ClearSheet drops both stacks of a sheet.
func (m *Manager) ClearSheet(sheet string) {
	m.total -= len(m.undo[sheet])
	delete(m.undo, sheet)
	delete(m.redo, sheet)
	if m.total < 0 {
		m.total = 0
	}
}

// Stats returns current sizes for diagnostics.
func (m *Manager) Stats() (entries int, sheets int) {
	return m.total, len(m.undo)
}

func (m *Manager) enforceCaps(sheet string) {
	if m.cfg.MaxPerSheet > 0 {
		stack := m.undo[sheet]
		if extra := len(stack) - m.cfg.MaxPerSheet; extra > 0 {
			m.total -= extra
			m.undo[sheet] = append([]Entry(nil), stack[extra:]...)
		}
	}
	for m.total > m.cfg.MaxEntries {
		oldest := ""
		var ts time.Time
		found := false
		for name, stack := range m.undo {
			if len(stack) == 0 {
				continue
			}
			if !found || stack[0].TS.Before(ts) {
				oldest, ts, found = name, stack[0].TS, true
			}
		}
		if !found {
			break
		}
		m.undo[oldest] = m.undo[oldest][1:]
		m.total--
		if len(m.undo[oldest]) == 0 {
			delete(m.undo, oldest)
		}
	}
}
