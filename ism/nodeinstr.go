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

package ism

import (
	"sort"

	"github.com/clusterseq/sequencer/types"
)

// actionID names the ActionInstr for one of a component's attached
// actions, unique tree-wide by construction (component id + attribute
// key).
func actionID(componentID string, key types.AttributeKey) string {
	return componentID + "::" + key.String()
}

// nodeActionInstrs builds one ActionInstr per action attached to
// componentID, in deterministic (attribute-key) order. A component with
// several actions becomes several ActionInstrs, stitched into a SEQ by
// nodeInstruction.
func nodeActionInstrs(componentID string, actions []types.Action) []*types.ActionInstr {
	sorted := append([]types.Action(nil), actions...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Key.String() < sorted[j].Key.String()
	})

	out := make([]*types.ActionInstr, len(sorted))
	for i, a := range sorted {
		out[i] = &types.ActionInstr{
			ID:         actionID(componentID, a.Key),
			Command:    a.Command,
			Components: []string{componentID},
			Remote:     a.Key.Remote,
			Force:      a.Key.Force,
		}
	}
	return out
}

// nodeInstruction packages componentID's actions as a single Instruction:
// the lone ActionInstr if there is one, otherwise a SEQ running them in
// attribute-key order (spec §4.D "build the action list for the node").
func nodeInstruction(componentID string, actions []types.Action) types.Instruction {
	instrs := nodeActionInstrs(componentID, actions)
	if len(instrs) == 1 {
		return instrs[0]
	}
	children := make([]types.Instruction, len(instrs))
	for i, a := range instrs {
		children[i] = a
	}
	return &types.SeqInstr{Children: children}
}
