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
	"encoding/xml"
	"sort"

	"github.com/clusterseq/sequencer/types"
)

// wireDAG is the on-disk form of an ActionDAG (spec §6 "ActionDAG wire
// format: byte-stable attribute round trip"). Nodes and their actions and
// dependency edges are emitted in sorted id order so two encodings of an
// equivalent graph produce identical bytes.
type wireDAG struct {
	XMLName xml.Name   `xml:"actiondag"`
	Nodes   []wireNode `xml:"node"`
}

type wireNode struct {
	ID       string       `xml:"id,attr"`
	DependsOn []string    `xml:"depends-on>id,omitempty"`
	Actions  []wireAction `xml:"action,omitempty"`
}

type wireAction struct {
	Key     string `xml:"key,attr"`
	Command string `xml:"command,attr"`
}

// EncodeDAG renders dag as byte-stable XML: the same graph always encodes
// to the same bytes regardless of map iteration order.
func EncodeDAG(dag *types.ActionDAG) ([]byte, error) {
	ids := dag.Components()
	sort.Strings(ids)

	w := wireDAG{Nodes: make([]wireNode, 0, len(ids))}
	for _, id := range ids {
		node := dag.Node(id)
		deps := append([]string(nil), dag.Dependencies(id)...)
		sort.Strings(deps)

		actions := make([]wireAction, 0, len(node.Actions))
		for _, a := range node.Actions {
			actions = append(actions, wireAction{Key: a.Key.String(), Command: a.Command})
		}
		sort.SliceStable(actions, func(i, j int) bool { return actions[i].Key < actions[j].Key })
		w.Nodes = append(w.Nodes, wireNode{ID: id, DependsOn: deps, Actions: actions})
	}

	out, err := xml.MarshalIndent(w, "", "  ")
	if err != nil {
		return nil, types.NewInternalError(err)
	}
	return out, nil
}

// DecodeDAG parses bytes produced by EncodeDAG back into an ActionDAG.
// Components are reconstructed from their id alone (ParseComponentID),
// since the wire format carries no vars — callers that need substitution
// re-resolve components from a live inventory before reusing the result.
func DecodeDAG(data []byte) (*types.ActionDAG, error) {
	var w wireDAG
	if err := xml.Unmarshal(data, &w); err != nil {
		return nil, types.NewInternalError(err)
	}

	dag := types.NewActionDAG()
	for _, n := range w.Nodes {
		c, err := types.ParseComponentID(n.ID)
		if err != nil {
			return nil, err
		}
		dag.AddComponent(c)
	}
	for _, n := range w.Nodes {
		for _, dep := range n.DependsOn {
			dag.AddDependency(n.ID, dep)
		}
		for _, a := range n.Actions {
			key, err := types.ParseAttributeKey(a.Key)
			if err != nil {
				return nil, err
			}
			dag.AddAction(n.ID, types.Action{Key: key, Command: a.Command})
		}
	}
	return dag, nil
}
