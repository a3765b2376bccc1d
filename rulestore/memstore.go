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
	"sort"
	"sync"

	"github.com/clusterseq/sequencer/types"
)

// memStore holds the in-memory ruleset map shared by both FileStore and
// SQLStore; each backend differs only in how it loads/persists this state,
// not in how lookups and the admin surface behave.
type memStore struct {
	mu       sync.RWMutex
	rulesets map[string]types.Ruleset
}

func newMemStore() *memStore {
	return &memStore{rulesets: make(map[string]types.Ruleset)}
}

func (m *memStore) Ruleset(name string) (types.Ruleset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rs, ok := m.rulesets[name]
	if !ok {
		return nil, types.NewUnknownRulesetError(name)
	}
	out := make(types.Ruleset, len(rs))
	for k, v := range rs {
		out[k] = v
	}
	return out, nil
}

func (m *memStore) Rule(ruleset, name string) (types.Rule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rs, ok := m.rulesets[ruleset]
	if !ok {
		return types.Rule{}, types.NewUnknownRulesetError(ruleset)
	}
	r, ok := rs[name]
	if !ok {
		return types.Rule{}, types.NewNoSuchRuleError(ruleset, name)
	}
	return r, nil
}

func (m *memStore) Rulesets() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.rulesets))
	for k := range m.rulesets {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (m *memStore) Checksum(ruleset string) (string, map[string]string, error) {
	m.mu.RLock()
	rs, ok := m.rulesets[ruleset]
	m.mu.RUnlock()
	if !ok {
		return "", nil, types.NewUnknownRulesetError(ruleset)
	}
	rsHash, ruleHashes := checksumRuleset(rs)
	return rsHash, ruleHashes, nil
}

func (m *memStore) addRule(r types.Rule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rs, ok := m.rulesets[r.Ruleset]
	if !ok {
		rs = make(types.Ruleset)
		m.rulesets[r.Ruleset] = rs
	}
	if _, exists := rs[r.Name]; exists {
		return types.NewDuplicateRuleError(r.Ruleset, r.Name)
	}
	rs[r.Name] = r
	return nil
}

func (m *memStore) updateRule(ruleset, name string, r types.Rule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rs, ok := m.rulesets[ruleset]
	if !ok {
		return types.NewUnknownRulesetError(ruleset)
	}
	if _, ok := rs[name]; !ok {
		return types.NewNoSuchRuleError(ruleset, name)
	}
	delete(rs, name)
	rs[r.Name] = r
	return nil
}

func (m *memStore) removeRules(ruleset string, names ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rs, ok := m.rulesets[ruleset]
	if !ok {
		return types.NewUnknownRulesetError(ruleset)
	}
	for _, n := range names {
		if _, ok := rs[n]; !ok {
			return types.NewNoSuchRuleError(ruleset, n)
		}
	}
	for _, n := range names {
		delete(rs, n)
	}
	return nil
}

func (m *memStore) copyRuleset(src, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	srcRS, ok := m.rulesets[src]
	if !ok {
		return types.NewUnknownRulesetError(src)
	}
	if _, exists := m.rulesets[dst]; exists {
		return types.NewDuplicateRuleError(dst, "*")
	}
	dstRS := make(types.Ruleset, len(srcRS))
	for name, r := range srcRS {
		r.Ruleset = dst
		dstRS[name] = r
	}
	m.rulesets[dst] = dstRS
	return nil
}
