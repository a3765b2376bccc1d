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

package ise

import "github.com/clusterseq/sequencer/types"

// index is ISE's construction-phase output (spec §4.E "Construction
// phase"): for each action id, allDeps (structural parents within the
// enclosing SEQ, plus explicit deps) and next (the reverse relation).
type index struct {
	allDeps map[string][]string
	next    map[string][]string
}

// build walks tree and computes the index, re-running cycle and
// unknown-dependency detection (spec §4.E: "repeated here; both are
// fatal").
func build(tree *types.InstructionTree) (*index, error) {
	allDeps := make(map[string]map[string]bool, len(tree.Leaves))
	for id := range tree.Leaves {
		allDeps[id] = make(map[string]bool)
	}

	addSeqDeps(tree.Root, allDeps)

	for id, a := range tree.Leaves {
		for _, dep := range a.ExplicitDepends {
			if _, ok := tree.Leaves[dep]; !ok {
				return nil, types.NewUnknownDepsError(id, dep)
			}
			allDeps[id][dep] = true
		}
	}

	g := types.NewGraph[struct{}]()
	for id, deps := range allDeps {
		g.AddNode(id, nil)
		for dep := range deps {
			g.AddEdge(id, dep, struct{}{})
		}
	}
	if cycle := g.DetectCycle(); cycle != nil {
		return nil, types.NewCyclesDetectedError(cycle)
	}

	flatDeps := make(map[string][]string, len(allDeps))
	next := make(map[string][]string, len(allDeps))
	for id := range allDeps {
		next[id] = nil
	}
	for id, deps := range allDeps {
		for dep := range deps {
			flatDeps[id] = append(flatDeps[id], dep)
			next[dep] = append(next[dep], id)
		}
	}

	return &index{allDeps: flatDeps, next: next}, nil
}

// addSeqDeps records, for every SEQ's non-first child, an allDeps edge
// from each id in its Starting() set to each id in the previous child's
// Ending() set — the implicit "must-follow" relation SEQ nesting encodes.
func addSeqDeps(instr types.Instruction, allDeps map[string]map[string]bool) {
	switch n := instr.(type) {
	case *types.SeqInstr:
		for i := 1; i < len(n.Children); i++ {
			for _, from := range n.Children[i].Starting() {
				for _, to := range n.Children[i-1].Ending() {
					if allDeps[from] == nil {
						allDeps[from] = make(map[string]bool)
					}
					allDeps[from][to] = true
				}
			}
		}
		for _, c := range n.Children {
			addSeqDeps(c, allDeps)
		}
	case *types.ParInstr:
		for _, c := range n.Children {
			addSeqDeps(c, allDeps)
		}
	}
}
