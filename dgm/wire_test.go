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

	"github.com/stretchr/testify/require"

	"github.com/clusterseq/sequencer/types"
)

func TestEncodeDecodeDAG_RoundTrip(t *testing.T) {
	dag := types.NewActionDAG()
	web := types.Component{Name: "web1", Type: "host", Category: "prod"}
	db := types.Component{Name: "db1", Type: "host", Category: "prod"}
	dag.AddComponent(web)
	dag.AddComponent(db)
	dag.AddDependency(web.ID(), db.ID())
	dag.AddAction(web.ID(), types.Action{
		Key:     types.AttributeKey{Ruleset: "deploy", RuleName: "restart", Force: types.ForceAllowed},
		Command: "systemctl restart web",
	})

	data, err := EncodeDAG(dag)
	require.NoError(t, err)

	got, err := DecodeDAG(data)
	require.NoError(t, err)

	require.ElementsMatch(t, dag.Components(), got.Components())
	require.Equal(t, []string{db.ID()}, got.Dependencies(web.ID()))
	require.Len(t, got.Node(web.ID()).Actions, 1)
	require.Equal(t, "systemctl restart web", got.Node(web.ID()).Actions[0].Command)
}

func TestEncodeDAG_DeterministicAcrossCallOrder(t *testing.T) {
	build := func(first, second types.Component) *types.ActionDAG {
		dag := types.NewActionDAG()
		dag.AddComponent(first)
		dag.AddComponent(second)
		dag.AddDependency(second.ID(), first.ID())
		return dag
	}

	a := types.Component{Name: "a", Type: "host", Category: "x"}
	b := types.Component{Name: "b", Type: "host", Category: "x"}

	d1, err := EncodeDAG(build(a, b))
	require.NoError(t, err)
	d2, err := EncodeDAG(build(b, a))
	require.NoError(t, err)
	require.Equal(t, d1, d2)
}
