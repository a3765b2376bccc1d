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

// Package ruleset implements the Matcher (spec §4.B): type matching
// against a Ruleset's rules, filter evaluation (regex, embedded
// expr-lang/goja scripts, or shell commands), and root-rule computation —
// the set of rules a component matches when fed directly as DGM input,
// as opposed to when discovered as someone else's dependency.
package ruleset
