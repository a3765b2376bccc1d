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
	"fmt"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/clusterseq/sequencer/types"
)

// FileStore is the ini-formatted RuleStore backend (spec §6 "Ruleset file
// format"): one OS file per ruleset, one section per rule, keys types,
// filter, action, depsfinder, dependson, comments, help.
type FileStore struct {
	*memStore

	// path maps ruleset name to the file it was loaded from (or will be
	// saved to), so Save can round-trip without the caller repeating it.
	path map[string]string
}

// NewFileStore returns an empty FileStore.
func NewFileStore() *FileStore {
	return &FileStore{memStore: newMemStore(), path: make(map[string]string)}
}

// LoadFile parses path as one ruleset named rulesetName, replacing any
// rules previously loaded under that name.
func (f *FileStore) LoadFile(rulesetName, path string) error {
	cfg, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("rulestore: load %s: %w", path, err)
	}
	rs := make(types.Ruleset)
	for _, sec := range cfg.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		r, err := ruleFromSection(rulesetName, sec)
		if err != nil {
			return fmt.Errorf("rulestore: %s: %w", path, err)
		}
		rs[r.Name] = r
	}
	if err := rs.Validate(); err != nil {
		return err
	}

	f.mu.Lock()
	f.rulesets[rulesetName] = rs
	f.path[rulesetName] = path
	f.mu.Unlock()
	return nil
}

// SaveFile persists rulesetName back to the path it was loaded from (or an
// explicit path, if given), one ini section per rule.
func (f *FileStore) SaveFile(rulesetName string, path ...string) error {
	f.mu.RLock()
	rs, ok := f.rulesets[rulesetName]
	dest := f.path[rulesetName]
	f.mu.RUnlock()
	if !ok {
		return types.NewUnknownRulesetError(rulesetName)
	}
	if len(path) > 0 {
		dest = path[0]
	}
	if dest == "" {
		return fmt.Errorf("rulestore: no path known for ruleset %q", rulesetName)
	}

	cfg := ini.Empty()
	for _, name := range rs.Names() {
		r := rs[name]
		sec, err := cfg.NewSection(name)
		if err != nil {
			return err
		}
		sectionFromRule(sec, r)
	}
	return cfg.SaveTo(dest)
}

func ruleFromSection(ruleset string, sec *ini.Section) (types.Rule, error) {
	r := types.Rule{
		Ruleset:    ruleset,
		Name:       sec.Name(),
		Filter:     sec.Key("filter").String(),
		Action:     sec.Key("action").String(),
		DepsFinder: sec.Key("depsfinder").String(),
		Comments:   sec.Key("comments").String(),
		Help:       sec.Key("help").String(),
	}

	typesStr := sec.Key("types").String()
	if typesStr == "" {
		return types.Rule{}, fmt.Errorf("rule %q: types is required", r.Name)
	}
	if typesStr != types.Wildcard {
		for _, tok := range strings.Split(typesStr, ",") {
			ft, err := types.ParseFullType(strings.TrimSpace(tok))
			if err != nil {
				return types.Rule{}, fmt.Errorf("rule %q: %w", r.Name, err)
			}
			r.Types = append(r.Types, ft)
		}
	} else {
		r.Types = []types.FullType{{Type: types.Wildcard, Category: types.Wildcard}}
	}

	if dep := sec.Key("dependson").String(); dep != "" {
		for _, tok := range strings.Split(dep, ",") {
			r.DependsOn = append(r.DependsOn, strings.TrimSpace(tok))
		}
	}

	if err := r.Validate(); err != nil {
		return types.Rule{}, err
	}
	return r, nil
}

func sectionFromRule(sec *ini.Section, r types.Rule) {
	typeToks := make([]string, len(r.Types))
	for i, ft := range r.Types {
		typeToks[i] = ft.String()
	}
	sec.Key("types").SetValue(strings.Join(typeToks, ","))
	sec.Key("filter").SetValue(r.Filter)
	sec.Key("action").SetValue(r.Action)
	sec.Key("depsfinder").SetValue(r.DepsFinder)
	sec.Key("dependson").SetValue(strings.Join(r.DependsOn, ","))
	sec.Key("comments").SetValue(r.Comments)
	sec.Key("help").SetValue(r.Help)
}

func (f *FileStore) AddRule(r types.Rule) error { return f.addRule(r) }

func (f *FileStore) UpdateRule(ruleset, name string, r types.Rule) error {
	return f.updateRule(ruleset, name, r)
}

func (f *FileStore) RemoveRules(ruleset string, names ...string) error {
	return f.removeRules(ruleset, names...)
}

func (f *FileStore) CopyRuleset(src, dst string) error {
	if err := f.copyRuleset(src, dst); err != nil {
		return err
	}
	f.mu.Lock()
	f.path[dst] = f.path[src]
	f.mu.Unlock()
	return nil
}

var _ Store = (*FileStore)(nil)
