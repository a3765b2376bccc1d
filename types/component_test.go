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

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseComponentID(t *testing.T) {
	for _, tc := range []struct {
		id      string
		want    Component
		wantErr bool
	}{
		{id: "web01#host@compute", want: Component{Name: "web01", Type: "host", Category: "compute"}},
		// rightmost '@' wins, rightmost '#' before it wins: a name may
		// itself contain '#', and a type may contain '@'.
		{id: "a#b#host@cat@egory", want: Component{Name: "a#b", Type: "host@cat", Category: "egory"}},
		{id: "missingcategory", wantErr: true},
		{id: "noname@cat", wantErr: true},
		{id: "#type@cat", wantErr: true},
	} {
		got, err := ParseComponentID(tc.id)
		if tc.wantErr {
			assert.Error(t, err, tc.id)
			continue
		}
		require.NoError(t, err, tc.id)
		assert.Equal(t, tc.want, got, tc.id)
		assert.Equal(t, tc.id, got.ID(), "round trip")
	}
}

func TestFullType_Matches(t *testing.T) {
	for _, tc := range []struct {
		name string
		a, b FullType
		want bool
	}{
		{name: "exact", a: FullType{"host", "compute"}, b: FullType{"host", "compute"}, want: true},
		{name: "type mismatch", a: FullType{"host", "compute"}, b: FullType{"disk", "compute"}, want: false},
		{name: "wildcard type", a: FullType{Wildcard, "compute"}, b: FullType{"disk", "compute"}, want: true},
		{name: "wildcard category one side", a: FullType{"host", Wildcard}, b: FullType{"host", "storage"}, want: true},
		{name: "full wildcard", a: FullType{Wildcard, Wildcard}, b: FullType{"anything", "whatever"}, want: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Matches(tc.b))
		})
	}
}

func TestComponent_Vars(t *testing.T) {
	c := Component{Name: "web01", Type: "host", Category: "compute", Ruleset: "net", RuleName: "r1", Help: "h"}
	vars := c.Vars()
	assert.Equal(t, "web01", vars["name"])
	assert.Equal(t, "host", vars["type"])
	assert.Equal(t, "compute", vars["category"])
	assert.Equal(t, "net", vars["ruleset"])
	assert.Equal(t, "r1", vars["rulename"])
	assert.Equal(t, "h", vars["help"])
	assert.Equal(t, "web01#host@compute", vars["id"])
}
