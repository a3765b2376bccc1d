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
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/clusterseq/sequencer/types"
)

// schemaDDL is the spec §6 SQL table alternative. The CHECK constraints are
// enforced by sqlite only: SQLStore's writes do not check them in Go first,
// so a rule that violates one fails at the upsert. An empty depsfinder is
// written as NULL.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS sequencer (
	ruleset    TEXT NOT NULL,
	name       TEXT NOT NULL,
	types      TEXT NOT NULL,
	filter     TEXT NOT NULL,
	action     TEXT,
	depsfinder TEXT,
	dependson  TEXT,
	comments   TEXT,
	help       TEXT,
	PRIMARY KEY (ruleset, name),
	CHECK (length(types) > 0 AND length(filter) > 0 AND
	       (depsfinder IS NULL OR length(depsfinder) > 0))
);`

// SQLStore is the sqlite3-backed RuleStore (spec §6 "SQL table
// alternative"). It loads the whole table into memory on Open and mirrors
// every admin mutation back to the database synchronously.
type SQLStore struct {
	*memStore
	db *sql.DB
}

// OpenSQLStore opens (creating if absent) a sqlite3 database at dsn,
// ensures the schema exists, and loads every row into memory.
func OpenSQLStore(dsn string) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("rulestore: open %s: %w", dsn, err)
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("rulestore: create schema: %w", err)
	}
	s := &SQLStore{memStore: newMemStore(), db: db}
	if err := s.reload(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database connection.
func (s *SQLStore) Close() error { return s.db.Close() }

func (s *SQLStore) reload() error {
	rows, err := s.db.Query(`SELECT ruleset, name, types, filter, action, depsfinder, dependson, comments, help FROM sequencer`)
	if err != nil {
		return fmt.Errorf("rulestore: query: %w", err)
	}
	defer rows.Close()

	rulesets := make(map[string]types.Ruleset)
	for rows.Next() {
		var ruleset, name, typesStr, filter string
		var action, depsfinder, dependson, comments, help sql.NullString
		if err := rows.Scan(&ruleset, &name, &typesStr, &filter, &action, &depsfinder, &dependson, &comments, &help); err != nil {
			return fmt.Errorf("rulestore: scan: %w", err)
		}
		r, err := ruleFromRow(ruleset, name, typesStr, filter, action, depsfinder, dependson, comments, help)
		if err != nil {
			return err
		}
		rs, ok := rulesets[ruleset]
		if !ok {
			rs = make(types.Ruleset)
			rulesets[ruleset] = rs
		}
		rs[name] = r
	}
	if err := rows.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.rulesets = rulesets
	s.mu.Unlock()
	return nil
}

func ruleFromRow(ruleset, name, typesStr, filter string, action, depsfinder, dependson, comments, help sql.NullString) (types.Rule, error) {
	r := types.Rule{
		Ruleset:    ruleset,
		Name:       name,
		Filter:     filter,
		Action:     action.String,
		DepsFinder: depsfinder.String,
		Comments:   comments.String,
		Help:       help.String,
	}
	if typesStr != types.Wildcard {
		for _, tok := range strings.Split(typesStr, ",") {
			ft, err := types.ParseFullType(strings.TrimSpace(tok))
			if err != nil {
				return types.Rule{}, fmt.Errorf("rule %q: %w", name, err)
			}
			r.Types = append(r.Types, ft)
		}
	} else {
		r.Types = []types.FullType{{Type: types.Wildcard, Category: types.Wildcard}}
	}
	if dependson.Valid && dependson.String != "" {
		for _, tok := range strings.Split(dependson.String, ",") {
			r.DependsOn = append(r.DependsOn, strings.TrimSpace(tok))
		}
	}
	return r, r.Validate()
}

func rowFromRule(r types.Rule) (ruleset, name, typesStr, filter, action, depsfinder, dependson, comments, help string) {
	typeToks := make([]string, len(r.Types))
	for i, ft := range r.Types {
		typeToks[i] = ft.String()
	}
	return r.Ruleset, r.Name, strings.Join(typeToks, ","), r.Filter, r.Action, r.DepsFinder,
		strings.Join(r.DependsOn, ","), r.Comments, r.Help
}

func (s *SQLStore) AddRule(r types.Rule) error {
	if err := s.addRule(r); err != nil {
		return err
	}
	return s.upsertRow(r)
}

func (s *SQLStore) UpdateRule(ruleset, name string, r types.Rule) error {
	if err := s.updateRule(ruleset, name, r); err != nil {
		return err
	}
	if name != r.Name || ruleset != r.Ruleset {
		if _, err := s.db.Exec(`DELETE FROM sequencer WHERE ruleset = ? AND name = ?`, ruleset, name); err != nil {
			return fmt.Errorf("rulestore: delete stale row: %w", err)
		}
	}
	return s.upsertRow(r)
}

func (s *SQLStore) upsertRow(r types.Rule) error {
	ruleset, name, typesStr, filter, action, depsfinder, dependson, comments, help := rowFromRule(r)
	var depsfinderArg any
	if depsfinder != "" {
		depsfinderArg = depsfinder
	}
	_, err := s.db.Exec(`
		INSERT INTO sequencer (ruleset, name, types, filter, action, depsfinder, dependson, comments, help)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (ruleset, name) DO UPDATE SET
			types = excluded.types, filter = excluded.filter, action = excluded.action,
			depsfinder = excluded.depsfinder, dependson = excluded.dependson,
			comments = excluded.comments, help = excluded.help
	`, ruleset, name, typesStr, filter, action, depsfinderArg, dependson, comments, help)
	if err != nil {
		return fmt.Errorf("rulestore: upsert: %w", err)
	}
	return nil
}

func (s *SQLStore) RemoveRules(ruleset string, names ...string) error {
	if err := s.removeRules(ruleset, names...); err != nil {
		return err
	}
	for _, n := range names {
		if _, err := s.db.Exec(`DELETE FROM sequencer WHERE ruleset = ? AND name = ?`, ruleset, n); err != nil {
			return fmt.Errorf("rulestore: delete: %w", err)
		}
	}
	return nil
}

func (s *SQLStore) CopyRuleset(src, dst string) error {
	if err := s.copyRuleset(src, dst); err != nil {
		return err
	}
	rs, err := s.Ruleset(dst)
	if err != nil {
		return err
	}
	for _, r := range rs {
		if err := s.upsertRow(r); err != nil {
			return err
		}
	}
	return nil
}

var _ Store = (*SQLStore)(nil)
