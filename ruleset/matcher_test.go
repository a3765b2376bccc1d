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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clusterseq/sequencer/types"
)

func hostType() types.FullType { return types.FullType{Type: "host", Category: "compute"} }

func TestMatcher_Match_FilterAll(t *testing.T) {
	rs := types.Ruleset{
		"r1": {Ruleset: "net", Name: "r1", Types: []types.FullType{hostType()}, Filter: "ALL"},
	}
	m, err := New(rs, types.NewConfig())
	require.NoError(t, err)

	c := types.Component{Name: "web01", Type: "host", Category: "compute"}
	matched, err := m.Match(c)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "r1", matched[0].Name)
}

func TestMatcher_Match_FilterNoneExcludes(t *testing.T) {
	rs := types.Ruleset{
		"r1": {Ruleset: "net", Name: "r1", Types: []types.FullType{hostType()}, Filter: "NONE"},
	}
	m, err := New(rs, types.NewConfig())
	require.NoError(t, err)

	c := types.Component{Name: "web01", Type: "host", Category: "compute"}
	matched, err := m.Match(c)
	require.NoError(t, err)
	assert.Empty(t, matched)
}

func TestMatcher_Match_RegexFilter(t *testing.T) {
	rs := types.Ruleset{
		"r1": {Ruleset: "net", Name: "r1", Types: []types.FullType{hostType()}, Filter: `%name =~ ^web`},
	}
	m, err := New(rs, types.NewConfig())
	require.NoError(t, err)

	matchYes, err := m.Match(types.Component{Name: "web01", Type: "host", Category: "compute"})
	require.NoError(t, err)
	assert.Len(t, matchYes, 1)

	matchNo, err := m.Match(types.Component{Name: "db01", Type: "host", Category: "compute"})
	require.NoError(t, err)
	assert.Empty(t, matchNo)
}

func TestMatcher_Roots_InDegreeZero(t *testing.T) {
	// r2 depends on r1, so r1 is reached only via r2's dependson and is
	// not a root; r2, never referenced by anyone, is.
	rs := types.Ruleset{
		"r1": {Ruleset: "net", Name: "r1", Types: []types.FullType{hostType()}, Filter: "ALL"},
		"r2": {Ruleset: "net", Name: "r2", Types: []types.FullType{hostType()}, Filter: "ALL", DependsOn: []string{"r1"}},
	}
	m, err := New(rs, types.NewConfig())
	require.NoError(t, err)

	roots, err := m.Roots([]types.Component{{Name: "web01", Type: "host", Category: "compute"}})
	require.NoError(t, err)
	names := ruleNames(roots["web01#host@compute"])
	assert.ElementsMatch(t, []string{"r2"}, names)
}

func TestMatcher_Roots_CycleAllParticipate(t *testing.T) {
	rs := types.Ruleset{
		"a": {Ruleset: "net", Name: "a", Types: []types.FullType{hostType()}, Filter: "ALL", DependsOn: []string{"b"}},
		"b": {Ruleset: "net", Name: "b", Types: []types.FullType{hostType()}, Filter: "ALL", DependsOn: []string{"a"}},
	}
	m, err := New(rs, types.NewConfig())
	require.NoError(t, err)

	roots, err := m.Roots([]types.Component{{Name: "web01", Type: "host", Category: "compute"}})
	require.NoError(t, err)
	names := ruleNames(roots["web01#host@compute"])
	assert.ElementsMatch(t, []string{"a", "b"}, names)
}

func TestMatcher_Roots_SubsumptionExcludesNarrower(t *testing.T) {
	rs := types.Ruleset{
		"wild": {Ruleset: "net", Name: "wild", Types: []types.FullType{{Type: types.Wildcard, Category: "compute"}}, Filter: "ALL"},
		"narrow": {Ruleset: "net", Name: "narrow", Types: []types.FullType{hostType()}, Filter: "ALL"},
	}
	m, err := New(rs, types.NewConfig())
	require.NoError(t, err)

	roots, err := m.Roots([]types.Component{{Name: "web01", Type: "host", Category: "compute"}})
	require.NoError(t, err)
	names := ruleNames(roots["web01#host@compute"])
	assert.ElementsMatch(t, []string{"wild"}, names)
}

func TestMatcher_Roots_TransitiveThroughDifferentTypeIsNotARoot(t *testing.T) {
	// r1 (t2) depends on mid (t3) depends on r2 (t2): globally r1 has
	// indegree 0, mid's only incoming edge is from r1 and r2's is from mid. A type-restricted
	// view of just the t2 rules would lose the mid hop and wrongly see
	// both r1 and r2 as roots; root status must come from the full graph.
	t2 := types.FullType{Type: "host", Category: "t2"}
	t3 := types.FullType{Type: "host", Category: "t3"}
	rs := types.Ruleset{
		"r1":  {Ruleset: "net", Name: "r1", Types: []types.FullType{t2}, Filter: "ALL", DependsOn: []string{"mid"}},
		"mid": {Ruleset: "net", Name: "mid", Types: []types.FullType{t3}, Filter: "ALL", DependsOn: []string{"r2"}},
		"r2":  {Ruleset: "net", Name: "r2", Types: []types.FullType{t2}, Filter: "ALL"},
	}
	m, err := New(rs, types.NewConfig())
	require.NoError(t, err)

	roots, err := m.Roots([]types.Component{{Name: "web01", Type: "host", Category: "t2"}})
	require.NoError(t, err)
	names := ruleNames(roots["web01#host@t2"])
	assert.ElementsMatch(t, []string{"r1"}, names)
}

func ruleNames(rules []types.Rule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.Name
	}
	return out
}
