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

// Ruleset is an ordered-irrelevant set of rules sharing a Ruleset field
// (spec §3). The rules graph and root-rule map are derived from it by the
// ruleset package's Matcher, not stored here — Ruleset itself is just the
// name-indexed collection RuleStore hands back.
type Ruleset map[string]Rule

// Validate checks that every rule's DependsOn resolves within rs (spec §3
// invariant: "each name in dependson exists in the ruleset").
func (rs Ruleset) Validate() error {
	for _, r := range rs {
		if err := r.Validate(); err != nil {
			return err
		}
		for _, dep := range r.DependsOn {
			if _, ok := rs[dep]; !ok {
				return NewUnknownDepError(r.Ruleset, r.Name, dep)
			}
		}
	}
	return nil
}

// Names returns the rule names in rs, order unspecified.
func (rs Ruleset) Names() []string {
	out := make([]string, 0, len(rs))
	for n := range rs {
		out = append(out, n)
	}
	return out
}
