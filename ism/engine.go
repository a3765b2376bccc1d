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

import "github.com/clusterseq/sequencer/types"

// Reduce runs the full ISM pipeline (spec §4.D): preparation, the
// algorithm chosen by cfg.Algorithm, and finalization/validation of the
// resulting InstructionTree.
func Reduce(dag *types.ActionDAG, cfg types.Config) (*types.InstructionTree, error) {
	p, err := prepare(dag)
	if err != nil {
		return nil, err
	}

	var root types.Instruction
	switch cfg.Algorithm {
	case types.AlgoSeq:
		root = reduceSeq(p)
	case types.AlgoPar:
		root = reducePar(p)
	case types.AlgoMixed:
		root = reduceMixed(p)
	case types.AlgoOptimal, "":
		root = reduceOptimal(p)
	default:
		return nil, types.NewInternalError(nil)
	}

	tree := types.NewInstructionTree(root)
	if err := validate(tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// validate checks the finalized tree against spec §4.D's closing
// invariants: action ids are unique tree-wide, every explicit dependency
// resolves to a known action id, explicit deps that merely restate an
// already-implicit structural dependency are rejected, and the
// action-level graph synthesized from structural + explicit edges is
// acyclic.
func validate(tree *types.InstructionTree) error {
	if tree.Root == nil {
		return nil
	}
	if err := validateWireIDs(tree); err != nil {
		return err
	}

	g := types.NewGraph[struct{}]()
	for id := range tree.Leaves {
		g.AddNode(id, nil)
	}

	addStructuralEdges(tree.Root, g)

	for id, a := range tree.Leaves {
		for _, dep := range a.ExplicitDepends {
			if _, ok := tree.Leaves[dep]; !ok {
				return types.NewUnknownDepsError(id, dep)
			}
			if g.HasEdge(id, dep) {
				return types.NewBadDepError(id, dep)
			}
			g.AddEdge(id, dep, struct{}{})
		}
	}

	if cycle := g.DetectCycle(); cycle != nil {
		return types.NewCyclesDetectedError(cycle)
	}
	return nil
}

// addStructuralEdges walks instr, adding an edge from every id in a SEQ
// step's Starting() set to every id in the previous step's Ending() set —
// the implicit "must-follow" relationships SEQ/PAR nesting encodes.
func addStructuralEdges(instr types.Instruction, g *types.Graph[struct{}]) {
	switch n := instr.(type) {
	case *types.SeqInstr:
		for i := 1; i < len(n.Children); i++ {
			for _, from := range n.Children[i].Starting() {
				for _, to := range n.Children[i-1].Ending() {
					g.AddEdge(from, to, struct{}{})
				}
			}
		}
		for _, c := range n.Children {
			addStructuralEdges(c, g)
		}
	case *types.ParInstr:
		for _, c := range n.Children {
			addStructuralEdges(c, g)
		}
	}
}
