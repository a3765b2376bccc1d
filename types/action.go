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

import "strings"

// AttributeKey is the DGM-assigned label on an ActionDAG node:
// `ruleset.rulename[?force=mode]`, optionally prefixed with '@' to mark the
// command for remote execution (spec §3 Action, §4.C).
type AttributeKey struct {
	Ruleset  string
	RuleName string
	Force    ForceMode
	Remote   bool
}

// String renders the canonical attribute key text.
func (k AttributeKey) String() string {
	var b strings.Builder
	if k.Remote {
		b.WriteByte('@')
	}
	b.WriteString(k.Ruleset)
	b.WriteByte('.')
	b.WriteString(k.RuleName)
	b.WriteString(ForceSuffix(k.Force))
	return b.String()
}

// ParseAttributeKey parses a string produced by AttributeKey.String.
func ParseAttributeKey(s string) (AttributeKey, error) {
	k := AttributeKey{Force: ForceAllowed}
	if strings.HasPrefix(s, "@") {
		k.Remote = true
		s = s[1:]
	}
	if idx := strings.Index(s, "?force="); idx >= 0 {
		mode := s[idx+len("?force="):]
		switch ForceMode(mode) {
		case ForceAlways:
			k.Force = ForceAlways
		case ForceNever:
			k.Force = ForceNever
		default:
			k.Force = ForceMode(mode)
		}
		s = s[:idx]
	}
	dot := strings.Index(s, ".")
	if dot < 0 {
		return AttributeKey{}, NewInternalError(nil)
	}
	k.Ruleset = s[:dot]
	k.RuleName = s[dot+1:]
	return k, nil
}

// Action is a single attribute attached to an ActionDAG node: the resolved
// command template for one (component, matching rule) pair, after
// substitution (spec §3, §4.C).
type Action struct {
	Key     AttributeKey
	Command string
}
