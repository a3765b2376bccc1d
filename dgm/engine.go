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
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/clusterseq/sequencer/ruleset"
	"github.com/clusterseq/sequencer/types"
)

// Engine builds an ActionDAG from a requested component set against one
// Matcher (spec §4.C).
type Engine struct {
	matcher *ruleset.Matcher
	cfg     types.Config
}

// New builds an Engine, validating cfg.Force against m's ruleset (spec
// §4.C step 1: "install the force map; validate that every named rule
// exists").
func New(m *ruleset.Matcher, cfg types.Config) (*Engine, error) {
	for _, f := range cfg.Force {
		name := strings.TrimPrefix(f, "^")
		if _, ok := m.Rule(name); !ok {
			return nil, types.NewNoSuchRuleError("", name)
		}
	}
	return &Engine{matcher: m, cfg: cfg}, nil
}

// Build runs the full DGM algorithm of spec §4.C over comps.
func (e *Engine) Build(comps []types.Component) (*types.ActionDAG, error) {
	dag := types.NewActionDAG()

	remaining := make(map[string]types.Component, len(comps))
	for _, c := range comps {
		dag.AddComponent(c)
		remaining[c.ID()] = c
	}

	for {
		if len(remaining) == 0 {
			break
		}
		pending := make([]types.Component, 0, len(remaining))
		for _, c := range remaining {
			pending = append(pending, c)
		}

		rootMatches, err := e.matcher.Roots(pending)
		if err != nil {
			return nil, err
		}

		anyMatched := false
		for _, c := range pending {
			rules := rootMatches[c.ID()]
			if len(rules) == 0 {
				continue
			}
			anyMatched = true
			for _, r := range rules {
				if err := e.apply(dag, c, r); err != nil {
					return nil, err
				}
			}
			delete(remaining, c.ID())
		}
		if !anyMatched {
			break
		}
	}

	return dag, nil
}

// apply implements spec §4.C step 5: attach r's action to c (if any),
// discover dependencies via r.depsfinder, and recurse into whichever of
// r.dependson's rules also match each discovered dependency.
func (e *Engine) apply(dag *types.ActionDAG, c types.Component, r types.Rule) error {
	node := dag.AddComponent(c)
	if node.Applied(r.Ruleset, r.Name) {
		return nil
	}
	node.MarkApplied(r.Ruleset, r.Name)
	c.Ruleset, c.RuleName, c.Help = r.Ruleset, r.Name, r.Help

	if r.DepsFinder != "" {
		depIDs := e.runDepsFinder(r, c)
		for _, depID := range depIDs {
			depComp, err := types.ParseComponentID(depID)
			if err != nil {
				e.cfg.Logger.Printf("dgm: depsfinder for %s.%s on %s produced invalid id %q: %v", r.Ruleset, r.Name, c.ID(), depID, err)
				continue
			}
			dag.AddComponent(depComp)
			dag.AddDependency(c.ID(), depComp.ID())

			for _, depRuleName := range r.DependsOn {
				depRule, ok := e.matcher.Rule(depRuleName)
				if !ok {
					continue
				}
				matched, err := e.matcher.MatchesRule(depRule, depComp)
				if err != nil {
					return err
				}
				if !matched {
					continue
				}
				if err := e.apply(dag, depComp, depRule); err != nil {
					return err
				}
			}
		}
	}

	if r.Action == "" || r.Action == "None" {
		return nil
	}

	remote := strings.HasPrefix(r.Action, "@")
	template := strings.TrimPrefix(r.Action, "@")
	cmd := types.Substitute(template, c.Vars())

	key := types.AttributeKey{
		Ruleset:  r.Ruleset,
		RuleName: r.Name,
		Force:    e.cfg.ForceModeFor(r.Name),
		Remote:   remote,
	}
	dag.AddAction(c.ID(), types.Action{Key: key, Command: cmd})
	return nil
}

// runDepsFinder substitutes c's vars into r.DepsFinder, splits it with
// shell quoting rules and execs the result directly (no shell
// interpretation — spec §4.C "split the string with shell quoting rules,
// execute as a child process"), parsing stdout as one component id per
// non-blank line. A spawn failure, or a command line that doesn't even
// parse, is logged and yields no dependencies (spec §4.C "Failure
// semantics").
func (e *Engine) runDepsFinder(r types.Rule, c types.Component) []string {
	cmdline := types.Substitute(r.DepsFinder, c.Vars())
	argv, err := types.SplitWords(cmdline)
	if err != nil || len(argv) == 0 {
		e.cfg.Logger.Printf("dgm: depsfinder %q: invalid command line: %v", cmdline, err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	out, err := cmd.Output()
	if err != nil {
		e.cfg.Logger.Printf("dgm: depsfinder %q failed: %v", cmdline, err)
		return nil
	}

	var ids []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			ids = append(ids, line)
		}
	}
	return ids
}
