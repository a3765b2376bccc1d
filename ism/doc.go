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

// Package ism implements the Instruction Sequence Maker (spec §4.D): it
// reduces an ActionDAG into an InstructionTree under one of four
// selectable algorithms (seq, par, mixed, optimal), sharing a preparation
// phase (cycle detection, transitive-edge removal, attribute-less node
// re-parenting) and a finalization phase (tree validation).
package ism
