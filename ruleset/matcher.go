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

package ruleset

import (
	"sort"
	"sync"

	"github.com/clusterseq/sequencer/types"
)

// Matcher owns a Ruleset's derived structures — the rules graph and the
// root-rule map — and exposes the two public capabilities of spec §4.B:
// Match (inner matching during DAG expansion) and Roots (entry points for
// a directly-given input component).
type Matcher struct {
	ruleset types.Ruleset
	cfg     types.Config

	rulesGraph *types.Graph[struct{}]
	eval       *filterEvaluator

	rootRoundsOnce sync.Once
	rootRounds     [][]string
}

// New builds a Matcher over rs. It does not evaluate cfg.DoCache eagerly —
// the cache simply starts empty and is consulted lazily.
func New(rs types.Ruleset, cfg types.Config) (*Matcher, error) {
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	g := types.NewGraph[struct{}]()
	for _, name := range rs.Names() {
		g.AddNode(name, nil)
	}
	for _, r := range rs {
		for _, dep := range r.DependsOn {
			g.AddEdge(r.Name, dep, struct{}{})
		}
	}
	return &Matcher{
		ruleset:    rs,
		cfg:        cfg,
		rulesGraph: g,
		eval:       newFilterEvaluator(cfg),
	}, nil
}

// Rule looks up a rule by name within this Matcher's ruleset.
func (m *Matcher) Rule(name string) (types.Rule, bool) {
	r, ok := m.ruleset[name]
	return r, ok
}

// Match returns every rule whose types include ft (ALL-wildcards
// permitted on either side) and whose filter accepts c (spec §4.B,
// capability 1 — the inner match used during DAG expansion).
func (m *Matcher) Match(c types.Component) ([]types.Rule, error) {
	ft := c.FullType()
	var matched []types.Rule
	for _, name := range m.sortedRuleNames() {
		r := m.ruleset[name]
		if !r.MatchesType(ft) {
			continue
		}
		ok, err := m.eval.Evaluate(r, c)
		if err != nil {
			m.cfg.Logger.Printf("ruleset: filter error for rule %s.%s on %s: %v", r.Ruleset, r.Name, c.ID(), err)
			continue
		}
		if ok {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// MatchesRule reports whether r both type-matches and filter-accepts c,
// reusing the same cache evalExpr/evalScript/evalShell use for Match and
// Roots. DGM's dependson re-check (spec §4.C step 5) uses this directly
// against a single named rule instead of scanning the whole ruleset.
func (m *Matcher) MatchesRule(r types.Rule, c types.Component) (bool, error) {
	if !r.MatchesType(c.FullType()) {
		return false, nil
	}
	ok, err := m.eval.Evaluate(r, c)
	if err != nil {
		m.cfg.Logger.Printf("ruleset: filter error for rule %s.%s on %s: %v", r.Ruleset, r.Name, c.ID(), err)
		return false, nil
	}
	return ok, nil
}

// Roots returns, for every component in comps, the set of root rules it
// matches by FullType (spec §4.B capability 2, §3 "root-rule map"). Filter
// evaluation still applies — a component only gets credit for a root rule
// if it also passes that rule's filter.
func (m *Matcher) Roots(comps []types.Component) (map[string][]types.Rule, error) {
	out := make(map[string][]types.Rule, len(comps))
	for _, c := range comps {
		roots := m.rootRulesForType(c.FullType())
		var matched []types.Rule
		for _, r := range roots {
			ok, err := m.eval.Evaluate(r, c)
			if err != nil {
				m.cfg.Logger.Printf("ruleset: filter error for rule %s.%s on %s: %v", r.Ruleset, r.Name, c.ID(), err)
				continue
			}
			if ok {
				matched = append(matched, r)
			}
		}
		out[c.ID()] = matched
	}
	return out, nil
}

func (m *Matcher) sortedRuleNames() []string {
	names := m.ruleset.Names()
	sort.Strings(names)
	return names
}

// globalRootRounds peels m.rulesGraph's in-degree-zero rules layer by
// layer, globally across every rule regardless of type (matching the
// original's `_compute_root_rules_mapping`, which finds roots over the
// whole rule DAG and only associates them with types afterward). Each
// round is the set of rules that become indegree-zero once every earlier
// round has been removed. If peeling stalls before the graph is empty,
// the unresolved remainder forms one final round (a cycle: every rule
// still in it is a potential root, per the original's "any rule is a
// potential root" fallback). The result is cached — it does not depend on
// any queried type.
func (m *Matcher) globalRootRounds() [][]string {
	m.rootRoundsOnce.Do(func() {
		all := m.sortedRuleNames()

		indeg := make(map[string]int, len(all))
		for _, c := range all {
			indeg[c] = 0
		}
		for _, c := range all {
			for _, dep := range m.rulesGraph.Out(c) {
				indeg[dep]++
			}
		}

		remaining := make(map[string]bool, len(all))
		for _, c := range all {
			remaining[c] = true
		}

		var rounds [][]string
		work := indeg
		for len(remaining) > 0 {
			var round []string
			for c := range remaining {
				if work[c] == 0 {
					round = append(round, c)
				}
			}
			if len(round) == 0 {
				// Cycle: nothing left reaches indegree zero, so whatever
				// remains is the final round wholesale.
				for c := range remaining {
					round = append(round, c)
				}
			}
			sort.Strings(round)
			rounds = append(rounds, round)

			for _, c := range round {
				delete(remaining, c)
			}
			for _, c := range round {
				for _, dep := range m.rulesGraph.Out(c) {
					if remaining[dep] {
						work[dep]--
					}
				}
			}
		}
		m.rootRounds = rounds
	})
	return m.rootRounds
}

// rootRulesForType computes the root-rule set for ft (spec §3 "root-rule
// map"): the first round of globalRootRounds that contains any rule
// matching ft. A rule reached only via a dependson chain that passes
// through a differently-typed intermediate rule therefore never counts as
// a root for ft, even though it would look like one if root status were
// computed within a type-restricted subgraph. Subsumed rules — those
// whose matched FullType is no broader than another root's — are excluded
// so that only maximally general roots survive for overlapping scopes.
func (m *Matcher) rootRulesForType(ft types.FullType) []types.Rule {
	for _, round := range m.globalRootRounds() {
		var rules []types.Rule
		for _, name := range round {
			if r := m.ruleset[name]; r.MatchesType(ft) {
				rules = append(rules, r)
			}
		}
		if len(rules) > 0 {
			return excludeSubsumed(rules, ft)
		}
	}
	return nil
}

// excludeSubsumed drops any rule whose matched FullType against ft is
// strictly narrower than another candidate's, keeping only maximally
// general roots (spec §3 "subsumed rules ... excluded").
func excludeSubsumed(rules []types.Rule, ft types.FullType) []types.Rule {
	matchedType := func(r types.Rule) types.FullType {
		for _, rt := range r.Types {
			if rt.Matches(ft) {
				return rt
			}
		}
		return ft
	}

	var out []types.Rule
	for i, r := range rules {
		ri := matchedType(r)
		subsumed := false
		for j, other := range rules {
			if i == j {
				continue
			}
			oj := matchedType(other)
			if broaderOrEqual(oj, ri) && oj != ri {
				subsumed = true
				break
			}
		}
		if !subsumed {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// broaderOrEqual reports whether a's scope covers at least as much as b's
// on both the type and category axes (ALL counts as maximal scope).
func broaderOrEqual(a, b types.FullType) bool {
	typeOK := a.Type == types.Wildcard || a.Type == b.Type
	catOK := a.Category == types.Wildcard || a.Category == b.Category
	return typeOK && catOK
}
