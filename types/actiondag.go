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

package types

// ActionDAGNode is one vertex of an ActionDAG: a discovered Component and
// the Actions DGM has attached to it so far. A node may carry zero actions
// (a purely structural dependency) or several, one per matching rule (spec
// §3 "a node may carry a list of (attribute-key, command) pairs").
type ActionDAGNode struct {
	Component Component
	Actions   []Action

	// applied tracks which "ruleset.name" pairs have already run apply()
	// against this node, independent of whether they produced a visible
	// Action (spec §4.C invariant: "a rule is applied at most once per
	// component").
	applied map[string]bool
}

// Applied reports whether ruleset.ruleName has already been applied to
// this node.
func (n *ActionDAGNode) Applied(ruleset, ruleName string) bool {
	return n.applied[ruleset+"."+ruleName]
}

// MarkApplied records ruleset.ruleName as applied to this node.
func (n *ActionDAGNode) MarkApplied(ruleset, ruleName string) {
	if n.applied == nil {
		n.applied = make(map[string]bool)
	}
	n.applied[ruleset+"."+ruleName] = true
}

// ActionDAG is the graph DGM builds: nodes are components keyed by
// Component.ID, edges point from a component to each dependency its rules'
// depsfinder discovered for it (spec §3, §4.C). Edge data is unused (struct{}) — the
// dependency relation is structural only at this stage.
type ActionDAG struct {
	g *Graph[struct{}]
}

// NewActionDAG returns an empty ActionDAG.
func NewActionDAG() *ActionDAG {
	return &ActionDAG{g: NewGraph[struct{}]()}
}

// AddComponent inserts c if not already present and returns its node; if
// c.ID() already exists, the existing node is returned unchanged
// (idempotent re-discovery, spec §4.C "apply is idempotent on an
// already-visited component").
func (d *ActionDAG) AddComponent(c Component) *ActionDAGNode {
	id := c.ID()
	if !d.g.HasNode(id) {
		d.g.AddNode(id, &ActionDAGNode{Component: c})
	}
	return d.g.NodeData(id).(*ActionDAGNode)
}

// Node returns the node for a component id, or nil if absent.
func (d *ActionDAG) Node(id string) *ActionDAGNode {
	data := d.g.NodeData(id)
	if data == nil {
		return nil
	}
	n, _ := data.(*ActionDAGNode)
	return n
}

// AddAction appends action to the node for componentID. If no component
// with that id has been added, it does nothing.
func (d *ActionDAG) AddAction(componentID string, action Action) {
	n := d.Node(componentID)
	if n == nil {
		return
	}
	n.Actions = append(n.Actions, action)
}

// AddDependency records that from depends on to (to must be computed or
// available before from).
func (d *ActionDAG) AddDependency(from, to string) {
	d.g.AddEdge(from, to, struct{}{})
}

// Dependencies returns the component ids that id directly depends on.
func (d *ActionDAG) Dependencies(id string) []string {
	return d.g.Out(id)
}

// Dependents returns the component ids that directly depend on id.
func (d *ActionDAG) Dependents(id string) []string {
	return d.g.In(id)
}

// Components returns every component id in the DAG, sorted.
func (d *ActionDAG) Components() []string {
	return d.g.Nodes()
}

// DetectCycle returns a witness cycle of component ids, or nil if acyclic.
func (d *ActionDAG) DetectCycle() []string {
	return d.g.DetectCycle()
}

// Graph exposes the underlying graph for algorithms (ISM preparation) that
// need generic traversal beyond the accessors above.
func (d *ActionDAG) Graph() *Graph[struct{}] {
	return d.g
}
