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
	"crypto/sha512"
	"encoding/hex"
	"sort"

	"github.com/clusterseq/sequencer/types"
)

// ruleChecksum hashes r's semantic fields in the order the spec requires:
// ruleset, name, each type (stable order), action, depsfinder, help, each
// dependency. filter and comments are deliberately excluded.
func ruleChecksum(r types.Rule) string {
	h := sha512.New()
	write := func(s string) {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}

	write(r.Ruleset)
	write(r.Name)

	typeStrs := make([]string, len(r.Types))
	for i, ft := range r.Types {
		typeStrs[i] = ft.String()
	}
	sort.Strings(typeStrs)
	for _, t := range typeStrs {
		write(t)
	}

	write(r.Action)
	write(r.DepsFinder)
	write(r.Help)

	deps := append([]string(nil), r.DependsOn...)
	sort.Strings(deps)
	for _, d := range deps {
		write(d)
	}

	return hex.EncodeToString(h.Sum(nil))
}

// rulesetChecksum hashes the ordered concatenation of every rule's
// checksum in rs, giving a single ruleset-level digest.
func rulesetChecksum(rs types.Ruleset, ruleHashes map[string]string) string {
	names := rs.Names()
	sort.Strings(names)

	h := sha512.New()
	for _, n := range names {
		h.Write([]byte(ruleHashes[n]))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// checksumRuleset computes both levels of digest for rs in one pass.
func checksumRuleset(rs types.Ruleset) (string, map[string]string) {
	ruleHashes := make(map[string]string, len(rs))
	for name, r := range rs {
		ruleHashes[name] = ruleChecksum(r)
	}
	return rulesetChecksum(rs, ruleHashes), ruleHashes
}
