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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clusterseq/sequencer/types"
)

func comp(name string) types.Component {
	return types.Component{Name: name, Type: "host", Category: "compute"}
}

func action(name, command string) types.Action {
	return types.Action{Key: types.AttributeKey{Ruleset: "net", RuleName: name}, Command: command}
}

// chainDAG builds a -> b -> c (a depends on b, b depends on c), one action
// each.
func chainDAG() *types.ActionDAG {
	dag := types.NewActionDAG()
	a := dag.AddComponent(comp("a"))
	b := dag.AddComponent(comp("b"))
	c := dag.AddComponent(comp("c"))
	a.Actions = append(a.Actions, action("ruleA", "run a"))
	b.Actions = append(b.Actions, action("ruleB", "run b"))
	c.Actions = append(c.Actions, action("ruleC", "run c"))
	dag.AddDependency(a.Component.ID(), b.Component.ID())
	dag.AddDependency(b.Component.ID(), c.Component.ID())
	return dag
}

func TestReduce_Seq_OrdersDependenciesFirst(t *testing.T) {
	tree, err := Reduce(chainDAG(), types.NewConfig(types.WithAlgorithm(types.AlgoSeq)))
	require.NoError(t, err)

	var order []string
	tree.Root.Walk(func(a *types.ActionInstr) { order = append(order, a.Command) })
	assert.Equal(t, []string{"run c", "run b", "run a"}, order)
}

func TestReduce_Par_EveryNodeCarriesExplicitDeps(t *testing.T) {
	tree, err := Reduce(chainDAG(), types.NewConfig(types.WithAlgorithm(types.AlgoPar)))
	require.NoError(t, err)

	require.Len(t, tree.Leaves, 3)
	idOf := func(comp string) string {
		for id, a := range tree.Leaves {
			if a.Command == "run "+comp {
				return id
			}
		}
		t.Fatalf("no action for %s", comp)
		return ""
	}
	aID, bID := idOf("a"), idOf("b")
	assert.Contains(t, tree.Leaves[aID].ExplicitDepends, bID)
}

func TestReduce_Mixed_LayersLeavesFirst(t *testing.T) {
	tree, err := Reduce(chainDAG(), types.NewConfig(types.WithAlgorithm(types.AlgoMixed)))
	require.NoError(t, err)

	seq, ok := tree.Root.(*types.SeqInstr)
	require.True(t, ok)
	require.Len(t, seq.Children, 3)

	var commands []string
	for _, layer := range seq.Children {
		layer.Walk(func(a *types.ActionInstr) { commands = append(commands, a.Command) })
	}
	assert.Equal(t, []string{"run c", "run b", "run a"}, commands)
}

func TestReduce_Optimal_Default(t *testing.T) {
	tree, err := Reduce(chainDAG(), types.NewConfig())
	require.NoError(t, err)
	require.NotNil(t, tree.Root)
	assert.Len(t, tree.Leaves, 3)
}

// S3: a cycle in the ActionDAG surfaces as CyclesDetectedError with the
// witness attached.
func TestReduce_CycleDetected(t *testing.T) {
	dag := types.NewActionDAG()
	a := dag.AddComponent(comp("a"))
	b := dag.AddComponent(comp("b"))
	a.Actions = append(a.Actions, action("ruleA", "run a"))
	b.Actions = append(b.Actions, action("ruleB", "run b"))
	dag.AddDependency(a.Component.ID(), b.Component.ID())
	dag.AddDependency(b.Component.ID(), a.Component.ID())

	_, err := Reduce(dag, types.NewConfig())
	require.Error(t, err)
	assert.True(t, types.Is(err, types.KindCyclesDetected))
}

// S4: an action's ForceMode survives reduction so ISE can apply the
// should_stop policy.
func TestReduce_PreservesForceMode(t *testing.T) {
	dag := types.NewActionDAG()
	a := dag.AddComponent(comp("a"))
	a.Actions = append(a.Actions, types.Action{
		Key:     types.AttributeKey{Ruleset: "net", RuleName: "ruleA", Force: types.ForceAlways},
		Command: "run a",
	})

	tree, err := Reduce(dag, types.NewConfig())
	require.NoError(t, err)

	var forces []types.ForceMode
	tree.Root.Walk(func(a *types.ActionInstr) { forces = append(forces, a.Force) })
	assert.Equal(t, []types.ForceMode{types.ForceAlways}, forces)
}

func TestReduce_EmptyDAG(t *testing.T) {
	tree, err := Reduce(types.NewActionDAG(), types.NewConfig())
	require.NoError(t, err)
	assert.Nil(t, tree.Root)
}

// A node with no attached action is re-parented away during preparation,
// its dependents wired directly to its dependencies.
func TestReduce_ReparentsAttributelessNode(t *testing.T) {
	dag := types.NewActionDAG()
	a := dag.AddComponent(comp("a"))
	mid := dag.AddComponent(comp("mid"))
	c := dag.AddComponent(comp("c"))
	a.Actions = append(a.Actions, action("ruleA", "run a"))
	c.Actions = append(c.Actions, action("ruleC", "run c"))
	dag.AddDependency(a.Component.ID(), mid.Component.ID())
	dag.AddDependency(mid.Component.ID(), c.Component.ID())

	tree, err := Reduce(dag, types.NewConfig(types.WithAlgorithm(types.AlgoSeq)))
	require.NoError(t, err)

	assert.Len(t, tree.Leaves, 2)
	var order []string
	tree.Root.Walk(func(a *types.ActionInstr) { order = append(order, a.Command) })
	assert.Equal(t, []string{"run c", "run a"}, order)
}
