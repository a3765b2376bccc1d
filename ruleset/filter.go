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
	"context"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/clusterseq/sequencer/types"
)

// filterEvaluator dispatches a Rule's filter to the right evaluator and
// maintains the per-rule, per-component cache of spec §4.B ("Filter
// cache"). DGM is single-threaded per spec §5, but the Matcher is also
// usable standalone, so the cache is still guarded by a mutex.
type filterEvaluator struct {
	cfg types.Config

	mu    sync.Mutex
	cache map[string]map[string]bool // rule "ruleset.name" -> component id -> result

	exprCache map[string]*vm.Program
}

func newFilterEvaluator(cfg types.Config) *filterEvaluator {
	return &filterEvaluator{
		cfg:       cfg,
		cache:     make(map[string]map[string]bool),
		exprCache: make(map[string]*vm.Program),
	}
}

// Evaluate runs r.Filter against c, consulting and populating the cache
// unless cfg.DoCache is false.
func (e *filterEvaluator) Evaluate(r types.Rule, c types.Component) (bool, error) {
	key := r.Ruleset + "." + r.Name

	if e.cfg.DoCache {
		e.mu.Lock()
		if byComp, ok := e.cache[key]; ok {
			if v, ok := byComp[c.ID()]; ok {
				e.mu.Unlock()
				return v, nil
			}
		}
		e.mu.Unlock()
	}

	result, err := e.evaluate(r, c)
	if err != nil {
		return false, err
	}

	if e.cfg.DoCache {
		e.mu.Lock()
		byComp, ok := e.cache[key]
		if !ok {
			byComp = make(map[string]bool)
			e.cache[key] = byComp
		}
		byComp[c.ID()] = result
		e.mu.Unlock()
	}
	return result, nil
}

func (e *filterEvaluator) evaluate(r types.Rule, c types.Component) (bool, error) {
	switch r.FilterKind() {
	case types.FilterAll:
		return true, nil
	case types.FilterNone:
		return false, nil
	case types.FilterRegex:
		return e.evalRegex(r.Filter, c)
	case types.FilterExpr:
		return e.evalExpr(r.Ruleset+"."+r.Name, strings.TrimPrefix(r.Filter, "expr:"), c)
	case types.FilterScript:
		return e.evalScript(strings.TrimPrefix(r.Filter, "js:"), c)
	default:
		return e.evalShell(r.Filter, c)
	}
}

// evalRegex implements `%var OP pattern` (spec §4.B).
func (e *filterEvaluator) evalRegex(filter string, c types.Component) (bool, error) {
	invert := false
	op := "=~"
	idx := strings.Index(filter, "=~")
	if idx < 0 {
		idx = strings.Index(filter, "!~")
		op = "!~"
		invert = true
	}
	varName := strings.TrimSpace(filter[:idx])
	pattern := strings.TrimSpace(filter[idx+len(op):])
	pattern = strings.Trim(pattern, `"'`)

	value := types.Substitute(varName, c.Vars())
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, err
	}
	matched := re.MatchString(value)
	if invert {
		matched = !matched
	}
	return matched, nil
}

// evalExpr implements the additive expr-lang filter variant
// (SPEC_FULL §2/§3), compiling once per rule name and caching the
// program.
func (e *filterEvaluator) evalExpr(cacheKey, script string, c types.Component) (bool, error) {
	e.mu.Lock()
	program, ok := e.exprCache[cacheKey]
	e.mu.Unlock()
	if !ok {
		compiled, err := expr.Compile(script, expr.AllowUndefinedVariables(), expr.AsBool())
		if err != nil {
			return false, err
		}
		program = compiled
		e.mu.Lock()
		e.exprCache[cacheKey] = program
		e.mu.Unlock()
	}

	env := varsToAny(c.Vars())
	out, err := vm.Run(program, env)
	if err != nil {
		return false, err
	}
	b, _ := out.(bool)
	return b, nil
}

// evalScript implements the additive goja filter variant (SPEC_FULL
// §2/§3): %vars are bound as globals and the script's final expression
// value is coerced to bool.
func (e *filterEvaluator) evalScript(script string, c types.Component) (bool, error) {
	rt := newFilterVM()
	defer putFilterVM(rt)
	for k, v := range c.Vars() {
		if err := rt.Set(k, v); err != nil {
			return false, err
		}
	}
	v, err := rt.RunString(script)
	if err != nil {
		return false, err
	}
	return v.ToBoolean(), nil
}

// evalShell substitutes vars into filter, splits it with shell quoting
// rules and execs the result directly (no shell interpretation — spec
// §4.B "split the string with shell quoting rules, execute as a child
// process"): exit code 0 accepts, any other code rejects, stderr is
// logged but does not alter the decision, and a spawn failure (including
// an unparseable or empty command line) is a reject with a logged error.
func (e *filterEvaluator) evalShell(filter string, c types.Component) (bool, error) {
	cmdline := types.Substitute(filter, c.Vars())
	argv, err := types.SplitWords(cmdline)
	if err != nil || len(argv) == 0 {
		e.cfg.Logger.Printf("ruleset: filter %q: invalid command line: %v", cmdline, err)
		return false, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	err = cmd.Run()
	if stderr.Len() > 0 {
		e.cfg.Logger.Printf("ruleset: filter %q stderr: %s", cmdline, stderr.String())
	}
	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return false, nil
		}
		e.cfg.Logger.Printf("ruleset: filter %q failed to spawn: %v", cmdline, err)
		return false, nil
	}
	return true, nil
}

func varsToAny(vars map[string]string) map[string]any {
	out := make(map[string]any, len(vars))
	for k, v := range vars {
		out[k] = v
	}
	return out
}
