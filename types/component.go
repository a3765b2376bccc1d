/*
 * Copyright 2026 The Sequencer Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package types

import (
	"fmt"
	"strings"

	"github.com/fatih/structs"
)

// Wildcard matches any type or category half of a FullType (spec §3).
const Wildcard = "ALL"

// FullType is the pair `type@category`, either half possibly Wildcard
// (spec glossary).
type FullType struct {
	Type     string `structs:"type"`
	Category string `structs:"category"`
}

func (ft FullType) String() string {
	return ft.Type + "@" + ft.Category
}

// Matches reports whether ft matches other, honoring ALL wildcards on
// either side of either FullType (spec §4.B Match).
func (ft FullType) Matches(other FullType) bool {
	typeOK := ft.Type == Wildcard || other.Type == Wildcard || ft.Type == other.Type
	catOK := ft.Category == Wildcard || other.Category == Wildcard || ft.Category == other.Category
	return typeOK && catOK
}

// ParseFullType parses a `type@category` string, splitting at the rightmost
// '@'. The '@' is required and the type must be non-empty; an empty
// category is accepted here and is not rejected by Rule.Validate either.
func ParseFullType(s string) (FullType, error) {
	idx := strings.LastIndex(s, "@")
	if idx < 0 {
		return FullType{}, fmt.Errorf("full type %q missing '@category'", s)
	}
	t, c := s[:idx], s[idx+1:]
	if t == "" {
		return FullType{}, fmt.Errorf("full type %q has empty type", s)
	}
	return FullType{Type: t, Category: c}, nil
}

// Component is the identified resource DGM operates on: `name#type@category`
// (spec §3, §6). It also acts as a substitution environment, exposing
// %id, %name, %type, %category, %ruleset, %rulename, %help.
type Component struct {
	Name     string `structs:"name"`
	Type     string `structs:"type"`
	Category string `structs:"category"`

	// Ruleset, RuleName and Help are populated from the rule DGM is
	// applying to this component; they participate in substitution as
	// %ruleset/%rulename/%help for that rule's depsfinder and action.
	Ruleset  string `structs:"ruleset"`
	RuleName string `structs:"rulename"`
	Help     string `structs:"help"`
}

// FullType returns the component's type@category pair.
func (c Component) FullType() FullType {
	return FullType{Type: c.Type, Category: c.Category}
}

// ID returns the canonical `name#type@category` identifier (spec §6).
func (c Component) ID() string {
	return fmt.Sprintf("%s#%s@%s", c.Name, c.Type, c.Category)
}

// ParseComponentID parses `name#type@category`. Per spec §6: the rightmost
// '@' separates category; the rightmost '#' before that separates name from
// type. Both name and type must be non-empty.
func ParseComponentID(id string) (Component, error) {
	atIdx := strings.LastIndex(id, "@")
	if atIdx < 0 {
		return Component{}, fmt.Errorf("component id %q missing '@category'", id)
	}
	category := id[atIdx+1:]
	head := id[:atIdx]

	hashIdx := strings.LastIndex(head, "#")
	if hashIdx < 0 {
		return Component{}, fmt.Errorf("component id %q missing '#type'", id)
	}
	name := head[:hashIdx]
	typ := head[hashIdx+1:]

	if name == "" {
		return Component{}, fmt.Errorf("component id %q has empty name", id)
	}
	if typ == "" {
		return Component{}, fmt.Errorf("component id %q has empty type", id)
	}
	return Component{Name: name, Type: typ, Category: category}, nil
}

// Vars builds the %var substitution environment for this component,
// as used by filter/action/depsfinder templates (spec §4.B, §9
// "Substitution environment"). Field-to-key mapping is driven by the
// `structs` tags on Component so adding a field here automatically grows
// the exposed %vars without hand-written boilerplate.
func (c Component) Vars() map[string]string {
	raw := structs.Map(c)
	out := make(map[string]string, len(raw)+1)
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	out["id"] = c.ID()
	return out
}
