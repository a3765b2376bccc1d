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

// reduceSeq implements spec §4.D "seq": topologically sort the reversed
// DAG, emit each node's actions in order inside a single SEQ.
func reduceSeq(p *prepared) types.Instruction {
	var children []types.Instruction
	for _, id := range p.graph.DependencyOrder() {
		children = append(children, nodeInstruction(id, p.actions[id]))
	}
	return finalize(children, false)
}

// reducePar implements spec §4.D "par": emit every node's actions, each
// carrying the ending action ids of its dependencies as explicitDeps
// (waiting for a component's node means waiting for the last action(s) in
// that node's own instruction), all wrapped in one PAR.
func reducePar(p *prepared) types.Instruction {
	instrs := make(map[string]types.Instruction, len(p.graph.Nodes()))
	for _, id := range p.graph.Nodes() {
		instrs[id] = nodeInstruction(id, p.actions[id])
	}

	var children []types.Instruction
	for _, id := range p.graph.Nodes() {
		instr := instrs[id]
		var deps []string
		for _, dep := range p.graph.Out(id) {
			deps = append(deps, instrs[dep].Ending()...)
		}
		sort.Strings(deps)

		starting := make(map[string]bool, len(instr.Starting()))
		for _, sid := range instr.Starting() {
			starting[sid] = true
		}
		instr.Walk(func(a *types.ActionInstr) {
			if starting[a.ID] {
				a.ExplicitDepends = append(a.ExplicitDepends, deps...)
			}
		})
		children = append(children, instr)
	}
	return finalize(children, true)
}

// reduceMixed implements spec §4.D "mixed" (layered): repeatedly collect
// current leaves (out-degree zero, i.e. no remaining dependencies), emit
// a PAR of their actions, remove them, repeat; concatenate the PAR
// layers in a top-level SEQ.
func reduceMixed(p *prepared) types.Instruction {
	remaining := make(map[string]bool, len(p.graph.Nodes()))
	for _, id := range p.graph.Nodes() {
		remaining[id] = true
	}

	var layers []types.Instruction
	for len(remaining) > 0 {
		var leaves []string
		for id := range remaining {
			leaf := true
			for _, dep := range p.graph.Out(id) {
				if remaining[dep] {
					leaf = false
					break
				}
			}
			if leaf {
				leaves = append(leaves, id)
			}
		}
		sort.Strings(leaves)

		var layerChildren []types.Instruction
		for _, id := range leaves {
			layerChildren = append(layerChildren, nodeInstruction(id, p.actions[id]))
			delete(remaining, id)
		}
		layers = append(layers, wrapPar(layerChildren))
	}

	return finalize(layers, false)
}

// reduceOptimal implements spec §4.D "optimal": root-first recursion with
// memoization, converting already-computed children into explicit
// dependencies and consuming fresh children as implicit SEQ/PAR nesting.
func reduceOptimal(p *prepared) types.Instruction {
	memo := make(map[string]types.Instruction)

	var build func(id string) types.Instruction
	build = func(id string) types.Instruction {
		if existing, ok := memo[id]; ok {
			return existing
		}

		current := nodeInstruction(id, p.actions[id])
		children := p.graph.Out(id)

		var implicit []types.Instruction
		for _, child := range children {
			if memoed, ok := memo[child]; ok {
				// Already computed elsewhere: reference its ending
				// actions as an explicit dependency instead of
				// re-embedding the whole subtree.
				ids := memoed.Ending()
				starting := make(map[string]bool, len(current.Starting()))
				for _, sid := range current.Starting() {
					starting[sid] = true
				}
				current.Walk(func(a *types.ActionInstr) {
					if starting[a.ID] {
						a.ExplicitDepends = append(a.ExplicitDepends, ids...)
					}
				})
				continue
			}
			implicit = append(implicit, build(child))
		}

		var result types.Instruction
		switch len(implicit) {
		case 0:
			result = current
		case 1:
			result = chainSeq(implicit[0], current)
		default:
			result = chainSeq(&types.ParInstr{Children: implicit}, current)
		}

		memo[id] = result
		return result
	}

	var roots []types.Instruction
	for _, id := range rootsOf(p.graph) {
		roots = append(roots, build(id))
	}
	// Any node untouched by root recursion (only reachable as someone's
	// dependency but never built because it was memoized first) is
	// already folded in via explicitDepends; nothing further to add.
	return finalize(roots, true)
}

// rootsOf returns the nodes with no dependents — the entry points for the
// optimal algorithm's root-first recursion.
func rootsOf(g *types.Graph[struct{}]) []string {
	var out []string
	for _, id := range g.Nodes() {
		if g.InDegree(id) == 0 {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// chainSeq extends child with current: if child is already a SeqInstr,
// current is appended to its children; otherwise the two are wrapped in a
// new SEQ (spec §4.D optimal, "if the child yielded a SEQ, extend it ...
// otherwise wrap SEQ(childSubtree, currentAction)").
func chainSeq(child, current types.Instruction) types.Instruction {
	if seq, ok := child.(*types.SeqInstr); ok {
		seq.Children = append(seq.Children, current)
		return seq
	}
	return &types.SeqInstr{Children: []types.Instruction{child, current}}
}

func wrapPar(children []types.Instruction) types.Instruction {
	if len(children) == 1 {
		return children[0]
	}
	return &types.ParInstr{Children: children}
}

// finalize implements spec §4.D's finalization packaging: empty -> nil,
// single -> that instruction, several -> wrapped in the algorithm's outer
// container (PAR when asPar, else SEQ).
func finalize(children []types.Instruction, asPar bool) types.Instruction {
	switch len(children) {
	case 0:
		return nil
	case 1:
		return children[0]
	default:
		if asPar {
			return &types.ParInstr{Children: children}
		}
		return &types.SeqInstr{Children: children}
	}
}
