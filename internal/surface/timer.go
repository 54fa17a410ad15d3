/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package surface

import (
	"sync"
	"time"
)

// Timer is a repeating callback started by a TimerService.
type Timer interface {
	Stop()
}

// TimerService schedules repeating callbacks. Callbacks must run on the
// goroutine that owns the surface.
type TimerService interface {
	Every(interval time.Duration, fn func()) Timer
}

// Tickers is a TimerService built on time.Ticker. Post hands each tick to
// the owning goroutine; hosts pass their UI queue (fyne.Do for the fyne
// host).
type Tickers struct {
	Post func(func())
}

func (t Tickers) Every(interval time.Duration, fn func()) Timer {
	tk := &ticker{t: time.NewTicker(interval), done: make(chan struct{})}
	post := t.Post
	if post == nil {
		post = func(f func()) { f() }
	}
	go func() {
		for {
			select {
			case <-tk.done:
				return
			case <-tk.t.C:
				post(func() {
					if !tk.stopped() {
						fn()
					}
				})
			}
		}
	}()
	return tk
}

type ticker struct {
	t    *time.Ticker
	once sync.Once
	done chan struct{}
}

func (tk *ticker) Stop() {
	tk.once.Do(func() {
		tk.t.Stop()
		close(tk.done)
	})
}

func (tk *ticker) stopped() bool {
	select {
	case <-tk.done:
		return true
	default:
		return false
	}
}

// ManualTimers fires timers only when Tick is called. Replay scripts and
// tests use it for deterministic autoscroll.
type ManualTimers struct {
	timers []*manualTimer
}

type manualTimer struct {
	fn      func()
	stopped bool
}

func (m *manualTimer) Stop() { m.stopped = true }

func (m *ManualTimers) Every(_ time.Duration, fn func()) Timer {
	t := &manualTimer{fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// Tick fires every live timer once and returns how many fired.
func (m *ManualTimers) Tick() int {
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	m.timers = live
	n := 0
	for _, t := range append([]*manualTimer(nil), live...) {
		if !t.stopped {
			t.fn()
			n++
		}
	}
	return n
}

// Live reports the number of timers not yet stopped.
func (m *ManualTimers) Live() int {
	n := 0
	for _, t := range m.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}
