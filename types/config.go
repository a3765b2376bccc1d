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

import "time"

// Algorithm selects one of the four ISM reduction strategies (spec §4.D).
type Algorithm string

const (
	AlgoSeq     Algorithm = "seq"
	AlgoPar     Algorithm = "par"
	AlgoMixed   Algorithm = "mixed"
	AlgoOptimal Algorithm = "optimal"
)

// ForceMode governs whether a WARNING from a dependency blocks its
// successors (spec §4.E should_stop policy, glossary "Force mode").
type ForceMode string

const (
	ForceAllowed ForceMode = "allowed"
	ForceAlways  ForceMode = "always"
	ForceNever   ForceMode = "never"
)

// Config is the shared, functional-options configuration threaded through
// RuleStore, Matcher, DGM, ISM and ISE. Each stage only reads the fields it
// needs; nothing here is stage-specific, so one Config travels the whole
// pipeline.
type Config struct {
	// Logger receives diagnostic output from every stage. Defaults to
	// DefaultLogger().
	Logger Logger

	// Algorithm picks the ISM reduction strategy. Defaults to AlgoOptimal.
	Algorithm Algorithm

	// Fanout bounds ISE's concurrent worker count. Defaults to 1 (strictly
	// sequential) if unset/zero; callers doing real work should set this
	// explicitly.
	Fanout int

	// ForceGlobal is the --Force flag of spec §6: when true, a WARNING rc
	// from an action with ForceAllowed does not block its successors.
	ForceGlobal bool

	// Force lists per-rule overrides: "name" forces ForceAlways, "^name"
	// forces ForceNever, absence means ForceAllowed (spec §4.C inputs).
	Force []string

	// DoCache toggles the Matcher filter cache (spec §4.B). Defaults to
	// true.
	DoCache bool

	// ProgressInterval, when non-zero, is the period between ISE progress
	// ticks (spec §4.E Progress reporting). Zero disables ticking.
	ProgressInterval time.Duration

	// Properties are free-form key/value pairs carried on the Config. They
	// are not part of the substitution environment: templates cannot
	// reference them.
	Properties map[string]string
}

// NewConfig builds a Config with spec-faithful defaults and applies opts in
// order.
func NewConfig(opts ...Option) Config {
	c := Config{
		Logger:    DefaultLogger(),
		Algorithm: AlgoOptimal,
		Fanout:    1,
		DoCache:   true,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// ForceModeFor resolves the configured force mode for a rule name,
// honoring the "^name" = never / "name" = always / unlisted = allowed
// convention of spec §4.C.
func (c Config) ForceModeFor(ruleName string) ForceMode {
	for _, f := range c.Force {
		if f == "^"+ruleName {
			return ForceNever
		}
		if f == ruleName {
			return ForceAlways
		}
	}
	return ForceAllowed
}
