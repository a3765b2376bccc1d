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

// Package ise implements the Instruction Sequence Executor (spec §4.E): a
// parallel-cooperative scheduler that walks an InstructionTree's
// dependency structure, dispatches each ready action through a
// transport.Dispatcher bounded by a configured fan-out, and aggregates
// the run's final return code.
package ise
