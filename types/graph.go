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

import "sort"

// Graph is a directed graph keyed by string node id, generic over the edge
// payload type E (spec §9: "{nodes: map<id, NodeData>; edges: map<(from,to),
// EdgeData>} with adjacency indices"). It backs the rules graph, the
// ActionDAG and the action-level graph ISE rebuilds from the instruction
// tree. Not safe for concurrent mutation — DGM/ISM are single-threaded by
// design (spec §5) and ISE treats its action graph as read-only once built.
type Graph[E any] struct {
	nodeData map[string]any
	out      map[string]map[string]E
	in       map[string]map[string]E
}

// NewGraph returns an empty Graph.
func NewGraph[E any]() *Graph[E] {
	return &Graph[E]{
		nodeData: make(map[string]any),
		out:      make(map[string]map[string]E),
		in:       make(map[string]map[string]E),
	}
}

// AddNode inserts id with associated data if it is not already present.
// Calling AddNode on an existing id overwrites its data.
func (g *Graph[E]) AddNode(id string, data any) {
	if _, ok := g.out[id]; !ok {
		g.out[id] = make(map[string]E)
		g.in[id] = make(map[string]E)
	}
	g.nodeData[id] = data
}

// HasNode reports whether id has been added.
func (g *Graph[E]) HasNode(id string) bool {
	_, ok := g.out[id]
	return ok
}

// NodeData returns the data associated with id, or nil if absent.
func (g *Graph[E]) NodeData(id string) any {
	return g.nodeData[id]
}

// AddEdge adds a directed edge from -> to carrying data, implicitly adding
// both endpoints as bare nodes if not already present.
func (g *Graph[E]) AddEdge(from, to string, data E) {
	if !g.HasNode(from) {
		g.AddNode(from, nil)
	}
	if !g.HasNode(to) {
		g.AddNode(to, nil)
	}
	g.out[from][to] = data
	g.in[to][from] = data
}

// RemoveEdge deletes the from -> to edge, if present.
func (g *Graph[E]) RemoveEdge(from, to string) {
	delete(g.out[from], to)
	delete(g.in[to], from)
}

// RemoveNode deletes id and every edge touching it.
func (g *Graph[E]) RemoveNode(id string) {
	for to := range g.out[id] {
		delete(g.in[to], id)
	}
	for from := range g.in[id] {
		delete(g.out[from], id)
	}
	delete(g.out, id)
	delete(g.in, id)
	delete(g.nodeData, id)
}

// HasEdge reports whether a from -> to edge exists.
func (g *Graph[E]) HasEdge(from, to string) bool {
	_, ok := g.out[from][to]
	return ok
}

// Nodes returns all node ids in deterministic (sorted) order, so callers
// that iterate for output or tests get reproducible results.
func (g *Graph[E]) Nodes() []string {
	out := make([]string, 0, len(g.out))
	for id := range g.out {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Out returns the ids that id has an outgoing edge to, sorted.
func (g *Graph[E]) Out(id string) []string {
	out := make([]string, 0, len(g.out[id]))
	for to := range g.out[id] {
		out = append(out, to)
	}
	sort.Strings(out)
	return out
}

// In returns the ids that have an incoming edge into id, sorted.
func (g *Graph[E]) In(id string) []string {
	out := make([]string, 0, len(g.in[id]))
	for from := range g.in[id] {
		out = append(out, from)
	}
	sort.Strings(out)
	return out
}

// EdgeData returns the data on the from -> to edge and whether it exists.
func (g *Graph[E]) EdgeData(from, to string) (E, bool) {
	d, ok := g.out[from][to]
	return d, ok
}

// OutDegree and InDegree are used by ISM's leaf-collection algorithms.
func (g *Graph[E]) OutDegree(id string) int { return len(g.out[id]) }
func (g *Graph[E]) InDegree(id string) int  { return len(g.in[id]) }

// DetectCycle runs an iterative DFS over g and returns the first cycle
// found as a witness path (node ids in cycle order, first == last), or nil
// if g is acyclic (spec §9: "cycle detection by iterative DFS returning the
// witness stack").
func (g *Graph[E]) DetectCycle() []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(g.out))
	parent := make(map[string]string, len(g.out))

	var dfs func(start string) []string
	dfs = func(start string) []string {
		type frame struct {
			id      string
			outIdx  int
			outList []string
		}
		stack := []frame{{id: start, outList: g.Out(start)}}
		color[start] = gray
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.outIdx < len(top.outList) {
				next := top.outList[top.outIdx]
				top.outIdx++
				switch color[next] {
				case white:
					color[next] = gray
					parent[next] = top.id
					stack = append(stack, frame{id: next, outList: g.Out(next)})
				case gray:
					// Found the back edge top.id -> next; reconstruct the
					// cycle by walking parents from top.id back to next.
					cycle := []string{next}
					for cur := top.id; cur != next; cur = parent[cur] {
						cycle = append(cycle, cur)
					}
					cycle = append(cycle, next)
					reverse(cycle)
					return cycle
				}
			} else {
				color[top.id] = black
				stack = stack[:len(stack)-1]
			}
		}
		return nil
	}

	for _, id := range g.Nodes() {
		if color[id] == white {
			if cycle := dfs(id); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// DependencyOrder returns node ids ordered so that, for every edge
// from->to (read "from depends on to"), to appears before from — i.e. the
// order ISM's `seq` algorithm emits actions in. Only meaningful on an
// acyclic graph; callers must run DetectCycle first.
func (g *Graph[E]) DependencyOrder() []string {
	remaining := make(map[string]int, len(g.out))
	for _, id := range g.Nodes() {
		remaining[id] = g.OutDegree(id)
	}

	var queue []string
	for _, id := range g.Nodes() {
		if remaining[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]string, 0, len(g.out))
	for len(queue) > 0 {
		sort.Strings(queue)
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, dependent := range g.In(n) {
			remaining[dependent]--
			if remaining[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}
	return order
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// TransitiveEdges returns every (a,c) edge for which a longer a->...->c
// path (length >= 2) also exists, i.e. the edges ISM preparation removes
// (spec §4.D step 2, property 4).
func (g *Graph[E]) TransitiveEdges() [][2]string {
	var redundant [][2]string
	for _, a := range g.Nodes() {
		for _, c := range g.Out(a) {
			if g.hasLongerPath(a, c) {
				redundant = append(redundant, [2]string{a, c})
			}
		}
	}
	return redundant
}

// hasLongerPath reports whether a path of length >= 2 from a to c exists,
// not counting the direct a->c edge.
func (g *Graph[E]) hasLongerPath(a, c string) bool {
	visited := map[string]bool{a: true}
	var stack []string
	for _, mid := range g.Out(a) {
		if mid != c {
			stack = append(stack, mid)
			visited[mid] = true
		}
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == c {
			return true
		}
		for _, next := range g.Out(n) {
			if !visited[next] {
				visited[next] = true
				stack = append(stack, next)
			}
		}
	}
	return false
}
