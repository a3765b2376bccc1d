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

package rulestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clusterseq/sequencer/types"
)

func baseRule() types.Rule {
	return types.Rule{
		Ruleset:    "net",
		Name:       "r1",
		Types:      []types.FullType{{Type: "host", Category: "compute"}},
		Filter:     "ALL",
		Action:     "echo hi",
		DepsFinder: "",
		DependsOn:  []string{"r0"},
		Comments:   "original comment",
		Help:       "help text",
	}
}

func TestRuleChecksum_StableAcrossFilterAndComments(t *testing.T) {
	a := baseRule()
	b := baseRule()
	b.Filter = "NONE"
	b.Comments = "a completely different comment"

	assert.Equal(t, ruleChecksum(a), ruleChecksum(b),
		"editing only filter/comments must not change the checksum")
}

func TestRuleChecksum_ChangesOnSemanticEdit(t *testing.T) {
	a := baseRule()
	b := baseRule()
	b.Action = "echo bye"

	assert.NotEqual(t, ruleChecksum(a), ruleChecksum(b))
}

func TestRuleChecksum_TypeOrderIndependent(t *testing.T) {
	a := baseRule()
	a.Types = []types.FullType{{Type: "host", Category: "compute"}, {Type: "disk", Category: "storage"}}
	b := baseRule()
	b.Types = []types.FullType{{Type: "disk", Category: "storage"}, {Type: "host", Category: "compute"}}

	assert.Equal(t, ruleChecksum(a), ruleChecksum(b))
}

func TestChecksumRuleset(t *testing.T) {
	rs := types.Ruleset{
		"r0": {Ruleset: "net", Name: "r0", Types: []types.FullType{{Type: "ALL", Category: "ALL"}}, Filter: "ALL"},
		"r1": baseRule(),
	}
	require.NoError(t, rs.Validate())

	rsHash, ruleHashes := checksumRuleset(rs)
	assert.NotEmpty(t, rsHash)
	assert.Len(t, ruleHashes, 2)
	assert.Equal(t, ruleHashes["r1"], ruleChecksum(rs["r1"]))
}
