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

// prepared is the output of prepare: a graph over component ids that
// carry at least one action, plus those actions in discovery order.
type prepared struct {
	graph   *types.Graph[struct{}]
	actions map[string][]types.Action // component id -> its actions
}

// prepare runs spec §4.D's shared preparation phase: cycle detection,
// transitive-edge removal, and attribute-less node re-parenting.
func prepare(dag *types.ActionDAG) (*prepared, error) {
	if cycle := dag.DetectCycle(); cycle != nil {
		return nil, types.NewCyclesDetectedError(cycle)
	}

	g := types.NewGraph[struct{}]()
	actions := make(map[string][]types.Action)
	for _, id := range dag.Components() {
		g.AddNode(id, nil)
		if node := dag.Node(id); node != nil && len(node.Actions) > 0 {
			actions[id] = node.Actions
		}
	}
	for _, id := range dag.Components() {
		for _, dep := range dag.Dependencies(id) {
			g.AddEdge(id, dep, struct{}{})
		}
	}

	for _, redundant := range g.TransitiveEdges() {
		g.RemoveEdge(redundant[0], redundant[1])
	}

	for _, id := range g.Nodes() {
		if len(actions[id]) > 0 {
			continue
		}
		reparent(g, id)
	}

	return &prepared{graph: g, actions: actions}, nil
}

// reparent removes an attribute-less node id, rewiring every incoming
// edge to every outgoing neighbor (spec §4.D preparation step 3).
func reparent(g *types.Graph[struct{}], id string) {
	dependents := g.In(id)   // nodes that depend on id
	dependencies := g.Out(id) // nodes id depends on
	for _, dependent := range dependents {
		for _, dependency := range dependencies {
			if dependent != dependency {
				g.AddEdge(dependent, dependency, struct{}{})
			}
		}
	}
	g.RemoveNode(id)
}
