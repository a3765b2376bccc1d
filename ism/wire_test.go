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

func TestMarshalXML_RoundTrip(t *testing.T) {
	tree, err := Reduce(chainDAG(), types.NewConfig(types.WithAlgorithm(types.AlgoSeq)))
	require.NoError(t, err)

	data, err := MarshalXML(tree)
	require.NoError(t, err)

	back, err := UnmarshalXML(data)
	require.NoError(t, err)
	assert.Len(t, back.Leaves, 3)

	var commands []string
	back.Root.Walk(func(a *types.ActionInstr) { commands = append(commands, a.Command) })
	assert.Equal(t, []string{"run c", "run b", "run a"}, commands)
}

func TestMarshalXML_SingleActionWrappedInSeq(t *testing.T) {
	dag := types.NewActionDAG()
	a := dag.AddComponent(comp("a"))
	a.Actions = append(a.Actions, action("ruleA", "run a"))

	tree, err := Reduce(dag, types.NewConfig())
	require.NoError(t, err)

	data, err := MarshalXML(tree)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<seq>")
	assert.Contains(t, string(data), `command="run a"`)
}

func TestUnmarshalXML_RejectsEmptyContainer(t *testing.T) {
	_, err := UnmarshalXML([]byte(`<seq></seq>`))
	assert.Error(t, err)
}

func TestUnmarshalXML_RejectsUnknownForce(t *testing.T) {
	_, err := UnmarshalXML([]byte(`<seq><action id="a" command="run" force="bogus"/></seq>`))
	assert.Error(t, err)
}

func TestDebugYAML_RendersKinds(t *testing.T) {
	tree, err := Reduce(chainDAG(), types.NewConfig(types.WithAlgorithm(types.AlgoSeq)))
	require.NoError(t, err)

	out, err := DebugYAML(tree)
	require.NoError(t, err)
	assert.Contains(t, string(out), "kind: seq")
	assert.Contains(t, string(out), "kind: action")
}
