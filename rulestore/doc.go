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

// Package rulestore implements the RuleStore catalog (spec §4.A): a
// read-mostly lookup of rulesets and their rules, with an admin surface for
// loading/editing and a checksum facility used to detect out-of-band rule
// drift between a DGM run and the ruleset it was seeded against.
//
// Two backends are provided, both satisfying the same Store interface:
// FileStore (one ini-formatted file per ruleset) and SQLStore (a single
// sqlite3 table, per the spec's SQL table alternative).
package rulestore
