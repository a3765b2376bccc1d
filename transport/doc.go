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

// Package transport carries one ActionInstr's command to wherever it
// actually runs (spec §4.E, §5): a local subprocess, an SSH-multiplexed
// remote session, or an MQTT-agent round trip. ISE's scheduler is
// transport-agnostic — it only calls Dispatcher.Dispatch and never
// branches on which implementation it holds.
package transport
