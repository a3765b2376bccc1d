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

// Package types defines the core data model shared by the sequencer's three
// pipeline stages:
//
//   - DGM (dgm package): expands a component set into an ActionDAG using a
//     Ruleset.
//   - ISM (ism package): reduces an ActionDAG into an InstructionTree.
//   - ISE (ise package): executes an InstructionTree concurrently.
//
// Rules and Rulesets are read once at startup through the rulestore
// package and are immutable for the lifetime of a pipeline run. Components
// and Actions are born during DGM and referenced by id through ISM and ISE.
//
// # Related ecosystem
//
// Rule authoring tooling that targets this sequencer's ruleset file format
// can draw on the same filter/action DSL conventions as rulego/rulego's
// component chains, even though no code from that ecosystem is imported
// here.
package types
