/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// raw mirrors Script but keeps steps as nodes so each step knows its line.
type raw struct {
	Sheet  SheetSpec   `yaml:"sheet"`
	View   ViewSpec    `yaml:"view"`
	Shapes []ShapeSpec `yaml:"shapes"`
	Steps  []yaml.Node `yaml:"steps"`
}

var ops = map[string]bool{
	"down": true, "move": true, "up": true, "hover": true, "enter": true, "leave": true,
	"cancel": true, "tick": true, "zoom": true, "scroll": true, "undo": true, "redo": true,
	"expect": true,
}

var kinds = map[string]bool{"rect": true, "ellipse": true, "polyline": true}

// Parse reads a YAML replay script. Unknown keys are errors. Every problem
// found is reported, not just the first.
func Parse(input string) (Script, []Error) {
	var r raw
	dec := yaml.NewDecoder(strings.NewReader(input))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil && !errors.Is(err, io.EOF) {
		return Script{}, []Error{yamlError(err)}
	}
	s := Script{Sheet: r.Sheet, View: r.View, Shapes: r.Shapes}
	var errs []Error

	names := map[string]bool{}
	for i, sh := range s.Shapes {
		if !kinds[sh.Kind] {
			errs = append(errs, Error{Message: fmt.Sprintf("shape %d: unknown kind %q", i, sh.Kind)})
		}
		if sh.Name != "" {
			if names[sh.Name] {
				errs = append(errs, Error{Message: fmt.Sprintf("duplicate shape name %q", sh.Name)})
			}
			names[sh.Name] = true
		}
		if sh.Kind == "polyline" && len(sh.Points) < 2 {
			errs = append(errs, Error{Message: fmt.Sprintf("shape %q: polyline needs two points", sh.Name)})
		}
	}

	for i := range r.Steps {
		n := &r.Steps[i]
		var st Step
		if err := decodeStrict(n, &st); err != nil {
			errs = append(errs, Error{Line: n.Line, Column: n.Column, Message: err.Error()})
			continue
		}
		st.Line = n.Line
		st.Op = strings.ToLower(strings.TrimSpace(st.Op))
		switch {
		case !ops[st.Op]:
			errs = append(errs, Error{Line: n.Line, Column: n.Column, Message: fmt.Sprintf("unknown op %q", st.Op)})
		case st.Op == "expect" && st.Expect == nil:
			errs = append(errs, Error{Line: n.Line, Column: n.Column, Message: "expect step without expect block"})
		case st.Op == "zoom" && st.Factor <= 0:
			errs = append(errs, Error{Line: n.Line, Column: n.Column, Message: "zoom needs a positive factor"})
		}
		if st.Expect != nil {
			for name := range st.Expect.Pins {
				if !names[name] {
					errs = append(errs, Error{Line: n.Line, Column: n.Column, Message: fmt.Sprintf("expect refers to unknown shape %q", name)})
				}
			}
		}
		s.Steps = append(s.Steps, st)
	}
	return s, errs
}

// decodeStrict decodes a single node rejecting unknown keys, which
// Node.Decode alone does not.
func decodeStrict(n *yaml.Node, v any) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if err := enc.Encode(n); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	dec := yaml.NewDecoder(&buf)
	dec.KnownFields(true)
	return dec.Decode(v)
}

func yamlError(err error) Error {
	var te *yaml.TypeError
	if errors.As(err, &te) && len(te.Errors) > 0 {
		return Error{Message: strings.Join(te.Errors, "; ")}
	}
	return Error{Message: err.Error()}
}
