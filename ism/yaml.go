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
	"github.com/clusterseq/sequencer/types"
	"gopkg.in/yaml.v3"
)

// debugNode is a YAML-friendly rendering of one Instruction, used only for
// human inspection (--debug dumps, test failure output) — not a wire
// format, unlike MarshalXML.
type debugNode struct {
	Kind     string       `yaml:"kind"`
	ID       string       `yaml:"id,omitempty"`
	Command  string       `yaml:"command,omitempty"`
	Force    string       `yaml:"force,omitempty"`
	Remote   bool         `yaml:"remote,omitempty"`
	Deps     []string     `yaml:"deps,omitempty"`
	Children []*debugNode `yaml:"children,omitempty"`
}

// DebugYAML renders tree as a YAML tree for diagnostics.
func DebugYAML(tree *types.InstructionTree) ([]byte, error) {
	if tree == nil || tree.Root == nil {
		return yaml.Marshal(nil)
	}
	return yaml.Marshal(toDebugNode(tree.Root))
}

func toDebugNode(instr types.Instruction) *debugNode {
	switch n := instr.(type) {
	case *types.ActionInstr:
		return &debugNode{
			Kind:    "action",
			ID:      n.ID,
			Command: n.Command,
			Force:   string(n.Force),
			Remote:  n.Remote,
			Deps:    n.ExplicitDepends,
		}
	case *types.SeqInstr:
		d := &debugNode{Kind: "seq"}
		for _, c := range n.Children {
			d.Children = append(d.Children, toDebugNode(c))
		}
		return d
	case *types.ParInstr:
		d := &debugNode{Kind: "par"}
		for _, c := range n.Children {
			d.Children = append(d.Children, toDebugNode(c))
		}
		return d
	default:
		return &debugNode{Kind: "unknown"}
	}
}
