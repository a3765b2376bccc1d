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

package dgm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clusterseq/sequencer/ruleset"
	"github.com/clusterseq/sequencer/types"
)

func hostType() types.FullType { return types.FullType{Type: "host", Category: "compute"} }

// S1: a single rule, single component, produces one action node.
func TestBuild_Trivial(t *testing.T) {
	rs := types.Ruleset{
		"ping": {Ruleset: "net", Name: "ping", Types: []types.FullType{hostType()}, Filter: "ALL", Action: "echo %name"},
	}
	m, err := ruleset.New(rs, types.NewConfig())
	require.NoError(t, err)
	eng, err := New(m, types.NewConfig())
	require.NoError(t, err)

	dag, err := eng.Build([]types.Component{{Name: "web01", Type: "host", Category: "compute"}})
	require.NoError(t, err)

	node := dag.Node("web01#host@compute")
	require.NotNil(t, node)
	require.Len(t, node.Actions, 1)
	assert.Equal(t, "echo web01", node.Actions[0].Command)
}

// S2: a depsfinder discovers a second component and a dependent rule
// applies to it, wiring an edge between the two.
func TestBuild_ChainWithDepsFinder(t *testing.T) {
	rs := types.Ruleset{
		"provision": {
			Ruleset: "net", Name: "provision", Types: []types.FullType{hostType()}, Filter: "ALL",
			Action:     "provision %name",
			DepsFinder: `echo "disk0#disk@storage"`,
			DependsOn:  []string{"format"},
		},
		"format": {
			Ruleset: "net", Name: "format", Types: []types.FullType{{Type: "disk", Category: "storage"}}, Filter: "ALL",
			Action: "format %name",
		},
	}
	m, err := ruleset.New(rs, types.NewConfig())
	require.NoError(t, err)
	eng, err := New(m, types.NewConfig())
	require.NoError(t, err)

	dag, err := eng.Build([]types.Component{{Name: "web01", Type: "host", Category: "compute"}})
	require.NoError(t, err)

	assert.Contains(t, dag.Components(), "web01#host@compute")
	assert.Contains(t, dag.Components(), "disk0#disk@storage")
	assert.Contains(t, dag.Dependencies("web01#host@compute"), "disk0#disk@storage")

	diskNode := dag.Node("disk0#disk@storage")
	require.NotNil(t, diskNode)
	require.Len(t, diskNode.Actions, 1)
	assert.Equal(t, "format disk0", diskNode.Actions[0].Command)
}

// S5: a regex filter excludes a component from matching a rule.
func TestBuild_RegexFilterExcludes(t *testing.T) {
	rs := types.Ruleset{
		"webonly": {Ruleset: "net", Name: "webonly", Types: []types.FullType{hostType()}, Filter: `%name =~ ^web`, Action: "deploy %name"},
	}
	m, err := ruleset.New(rs, types.NewConfig())
	require.NoError(t, err)
	eng, err := New(m, types.NewConfig())
	require.NoError(t, err)

	dag, err := eng.Build([]types.Component{{Name: "db01", Type: "host", Category: "compute"}})
	require.NoError(t, err)

	node := dag.Node("db01#host@compute")
	require.NotNil(t, node)
	assert.Empty(t, node.Actions)
}

func TestNew_UnknownForceRuleIsFatal(t *testing.T) {
	rs := types.Ruleset{
		"ping": {Ruleset: "net", Name: "ping", Types: []types.FullType{hostType()}, Filter: "ALL"},
	}
	m, err := ruleset.New(rs, types.NewConfig())
	require.NoError(t, err)

	_, err = New(m, types.NewConfig(types.WithForce("does-not-exist")))
	assert.Error(t, err)
}
