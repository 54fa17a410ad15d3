/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package dnd is the contract between a surface and the OS drag-and-drop
// transport: the JSON payload carried by a drag, the effects a drop may
// have, and the query-continue decision. The transport itself lives in the
// host.
package dnd

import (
	"strings"

	"drawsurface/internal/behavior"
)

// MIMEType identifies the payload on the clipboard or drag source.
const MIMEType = "application/x-drawsurface+json"

// Effect is a set of drop effects.
type Effect uint8

const (
	EffectNone Effect = 0
	EffectCopy Effect = 1
	EffectMove Effect = 2
)

func (e Effect) Has(f Effect) bool { return f != 0 && e&f == f }

func (e Effect) String() string {
	if e == EffectNone {
		return "none"
	}
	var parts []string
	if e.Has(EffectCopy) {
		parts = append(parts, "copy")
	}
	if e.Has(EffectMove) {
		parts = append(parts, "move")
	}
	return strings.Join(parts, "|")
}

// Negotiate picks the effect of a drop: copy when the copy modifier is held
// and allowed, otherwise move, otherwise copy.
func Negotiate(allowed Effect, mods, copyMod behavior.Modifiers) Effect {
	switch {
	case copyMod != 0 && mods&copyMod == copyMod && allowed.Has(EffectCopy):
		return EffectCopy
	case allowed.Has(EffectMove):
		return EffectMove
	case allowed.Has(EffectCopy):
		return EffectCopy
	}
	return EffectNone
}

// Action is the answer to a query-continue poll from the transport.
type Action int

const (
	ActionContinue Action = iota
	ActionDrop
	ActionCancel
)

func (a Action) String() string {
	switch a {
	case ActionDrop:
		return "drop"
	case ActionCancel:
		return "cancel"
	default:
		return "continue"
	}
}

// Decide cancels on escape, drops once the primary button is up and
// continues otherwise.
func Decide(escape bool, buttons behavior.Buttons) Action {
	switch {
	case escape:
		return ActionCancel
	case buttons&behavior.ButtonPrimary == 0:
		return ActionDrop
	}
	return ActionContinue
}
