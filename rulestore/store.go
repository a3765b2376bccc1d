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

package rulestore

import "github.com/clusterseq/sequencer/types"

// Store is the RuleStore contract (spec §4.A): a read-mostly catalog of
// rulesets, each a named collection of rules, plus the admin operations
// needed to build and maintain one.
type Store interface {
	// Ruleset returns every rule in the named ruleset. Returns
	// types.NewUnknownRulesetError if name is not present.
	Ruleset(name string) (types.Ruleset, error)

	// Rule returns a single rule by (ruleset, name). Returns
	// types.NewNoSuchRuleError if absent.
	Rule(ruleset, name string) (types.Rule, error)

	// Rulesets lists every known ruleset name.
	Rulesets() []string

	// Checksum computes the ruleset-level and per-rule SHA-512 digests
	// (spec §4.A: over ruleset, name, each type in stable order, action,
	// depsfinder, help, each dependency — filter and comments excluded).
	Checksum(ruleset string) (rulesetHash string, ruleHashes map[string]string, err error)

	// AddRule inserts r. Returns types.NewDuplicateRuleError if
	// (r.Ruleset, r.Name) already exists.
	AddRule(r types.Rule) error

	// UpdateRule replaces the rule at (ruleset, name) with r, which may
	// carry a different name. No ordering of rules is preserved: FileStore
	// writes sections in the ruleset map's iteration order.
	UpdateRule(ruleset, name string, r types.Rule) error

	// RemoveRules deletes the named rules from ruleset.
	RemoveRules(ruleset string, names ...string) error

	// CopyRuleset duplicates every rule of src into a new ruleset dst,
	// rewriting each rule's Ruleset field; dst must not already exist.
	CopyRuleset(src, dst string) error
}
