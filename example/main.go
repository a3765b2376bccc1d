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

// Command example wires DGM, ISM and ISE together for one hardcoded
// scenario: a web tier that depends on its database tier, deployed
// against a ruleset with a restart action on each. It does not parse
// flags or read a ruleset file — that surface is out of scope (spec §1,
// §6); this just proves the pipeline end to end.
package main

import (
	"context"
	"fmt"

	"github.com/clusterseq/sequencer/dgm"
	"github.com/clusterseq/sequencer/ise"
	"github.com/clusterseq/sequencer/ism"
	"github.com/clusterseq/sequencer/ruleset"
	"github.com/clusterseq/sequencer/transport"
	"github.com/clusterseq/sequencer/types"
)

func main() {
	rs := types.Ruleset{
		"discover-db": types.Rule{
			Ruleset:    "deploy",
			Name:       "discover-db",
			Types:      []types.FullType{{Type: "web", Category: types.Wildcard}},
			DepsFinder: "echo db1#db@prod",
			DependsOn:  []string{"restart-db"},
		},
		"restart-web": types.Rule{
			Ruleset: "deploy",
			Name:    "restart-web",
			Types:   []types.FullType{{Type: "web", Category: types.Wildcard}},
			Action:  "systemctl restart web",
		},
		"restart-db": types.Rule{
			Ruleset: "deploy",
			Name:    "restart-db",
			Types:   []types.FullType{{Type: "db", Category: types.Wildcard}},
			Action:  "systemctl restart postgresql",
		},
	}

	cfg := types.NewConfig(
		types.WithFanout(4),
		types.WithAlgorithm(types.AlgoOptimal),
	)

	matcher, err := ruleset.New(rs, cfg)
	must(err)

	dgmEngine, err := dgm.New(matcher, cfg)
	must(err)

	web1 := types.Component{Name: "web1", Type: "web", Category: "prod"}
	actionDAG, err := dgmEngine.Build([]types.Component{web1})
	must(err)

	tree, err := ism.Reduce(actionDAG, cfg)
	must(err)

	local := transport.NewLocalDispatcher()
	engine, err := ise.New(tree, local, local, cfg)
	must(err)

	exec, err := engine.Run(context.Background())
	must(err)

	for id, rec := range exec.Records {
		fmt.Printf("%s: %s (rc=%s, exit=%d)\n", id, rec.State, rec.RC, rec.ExitCode)
	}
	fmt.Println("final rc:", exec.FinalRC())
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
