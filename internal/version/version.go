/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package version carries build metadata injected through -ldflags.
package version

import "fmt"

// Version, Commit and Date are overridden at link time, e.g.
// -ldflags "-X drawsurface/internal/version.Version=v0.3.0".
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// String formats the build metadata for CLI output and crash reports.
func String() string {
	s := "drawsurface " + Version
	if Commit != "" {
		s += fmt.Sprintf(" (%s)", Commit)
	}
	if Date != "" {
		s += " built " + Date
	}
	return s
}
