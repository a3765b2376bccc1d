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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGraph_AcyclicHasNoCycle(t *testing.T) {
	g := NewGraph[struct{}]()
	g.AddEdge("a", "b", struct{}{})
	g.AddEdge("b", "c", struct{}{})
	g.AddEdge("a", "c", struct{}{})

	assert.Nil(t, g.DetectCycle())
}

func TestGraph_DetectsCycle(t *testing.T) {
	g := NewGraph[struct{}]()
	g.AddEdge("a", "b", struct{}{})
	g.AddEdge("b", "c", struct{}{})
	g.AddEdge("c", "a", struct{}{})

	cycle := g.DetectCycle()
	if assert.NotNil(t, cycle) {
		assert.Equal(t, cycle[0], cycle[len(cycle)-1], "witness path must close the loop")
		assert.GreaterOrEqual(t, len(cycle), 3)
	}
}

func TestGraph_TransitiveEdges(t *testing.T) {
	g := NewGraph[struct{}]()
	g.AddEdge("a", "b", struct{}{})
	g.AddEdge("b", "c", struct{}{})
	g.AddEdge("a", "c", struct{}{}) // redundant: a->b->c already reaches c

	redundant := g.TransitiveEdges()
	assert.Contains(t, redundant, [2]string{"a", "c"})
	assert.NotContains(t, redundant, [2]string{"a", "b"})
	assert.NotContains(t, redundant, [2]string{"b", "c"})
}

func TestGraph_RemoveNode(t *testing.T) {
	g := NewGraph[struct{}]()
	g.AddEdge("a", "b", struct{}{})
	g.RemoveNode("a")

	assert.False(t, g.HasNode("a"))
	assert.Empty(t, g.In("b"))
}
