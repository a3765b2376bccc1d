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
	"encoding/xml"
	"strings"

	"github.com/clusterseq/sequencer/types"
)

// wireNode mirrors spec §4.D's XML wire format for an InstructionTree:
// seq/par/action elements carrying id, force, remote and deps attributes.
// The elements are written without an XML namespace, and the parser does
// not check one. XMLName carries the element's actual tag (seq, par or
// action); Children holds nested elements of any of those three tags,
// which is what lets one struct stand in for the format's three element
// kinds without a generated union type.
type wireNode struct {
	XMLName xml.Name
	ID      string     `xml:"id,attr,omitempty"`
	Command string     `xml:"command,attr,omitempty"`
	Force   string     `xml:"force,attr,omitempty"`
	Remote  bool       `xml:"remote,attr,omitempty"`
	Deps    string     `xml:"deps,attr,omitempty"`
	Children []wireNode `xml:",any"`
}

// MarshalXML renders tree as spec §4.D's wire format.
func MarshalXML(tree *types.InstructionTree) ([]byte, error) {
	if tree == nil || tree.Root == nil {
		return xml.MarshalIndent(wireNode{XMLName: xml.Name{Local: "seq"}}, "", "  ")
	}
	root := toWire(tree.Root)
	if root.XMLName.Local == "action" {
		// spec §4.D: the document root is always a seq or par container,
		// even for a single-action tree.
		root = wireNode{XMLName: xml.Name{Local: "seq"}, Children: []wireNode{root}}
	}
	return xml.MarshalIndent(root, "", "  ")
}

func toWire(instr types.Instruction) wireNode {
	switch n := instr.(type) {
	case *types.ActionInstr:
		return wireNode{
			XMLName: xml.Name{Local: "action"},
			ID:      n.ID,
			Command: n.Command,
			Force:   string(n.Force),
			Remote:  n.Remote,
			Deps:    strings.Join(n.ExplicitDepends, ","),
		}
	case *types.SeqInstr:
		w := wireNode{XMLName: xml.Name{Local: "seq"}}
		for _, c := range n.Children {
			w.Children = append(w.Children, toWire(c))
		}
		return w
	case *types.ParInstr:
		w := wireNode{XMLName: xml.Name{Local: "par"}}
		for _, c := range n.Children {
			w.Children = append(w.Children, toWire(c))
		}
		return w
	default:
		return wireNode{XMLName: xml.Name{Local: "action"}}
	}
}

// UnmarshalXML parses spec §4.D's wire format back into an InstructionTree,
// validating as it goes: seq/par elements must be non-empty, action ids
// must be unique tree-wide, force must be one of allowed/always/never (or
// absent), and deps must be a comma-separated list of ids that resolve
// once the whole document is read.
func UnmarshalXML(data []byte) (*types.InstructionTree, error) {
	var top wireNode
	if err := xml.Unmarshal(data, &top); err != nil {
		return nil, types.NewInternalError(err)
	}

	root, err := fromWire(top)
	if err != nil {
		return nil, err
	}

	tree := types.NewInstructionTree(root)
	if verr := validateWireIDs(tree); verr != nil {
		return nil, verr
	}
	if verr := validate(tree); verr != nil {
		return nil, verr
	}
	return tree, nil
}

func fromWire(n wireNode) (types.Instruction, error) {
	switch n.XMLName.Local {
	case "action":
		force := types.ForceMode(strings.ToLower(n.Force))
		switch force {
		case "", types.ForceAllowed, types.ForceAlways, types.ForceNever:
		default:
			return nil, types.NewInternalError(nil)
		}
		if force == "" {
			force = types.ForceAllowed
		}

		var deps []string
		if strings.TrimSpace(n.Deps) != "" {
			for _, d := range strings.Split(n.Deps, ",") {
				deps = append(deps, strings.TrimSpace(d))
			}
		}

		return &types.ActionInstr{
			ID:              n.ID,
			Command:         n.Command,
			Remote:          n.Remote,
			Force:           force,
			ExplicitDepends: deps,
		}, nil

	case "seq", "par":
		if len(n.Children) == 0 {
			return nil, types.NewInternalError(nil)
		}
		children := make([]types.Instruction, 0, len(n.Children))
		for _, c := range n.Children {
			child, err := fromWire(c)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		if n.XMLName.Local == "seq" {
			return &types.SeqInstr{Children: children}, nil
		}
		return &types.ParInstr{Children: children}, nil

	default:
		return nil, types.NewInternalError(nil)
	}
}

func validateWireIDs(tree *types.InstructionTree) error {
	seen := make(map[string]bool, len(tree.Leaves))
	var dupErr error
	tree.Root.Walk(func(a *types.ActionInstr) {
		if dupErr != nil {
			return
		}
		if seen[a.ID] {
			dupErr = types.NewInternalError(nil)
			return
		}
		seen[a.ID] = true
	})
	return dupErr
}
