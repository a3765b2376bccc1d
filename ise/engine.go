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

package ise

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/clusterseq/sequencer/transport"
	"github.com/clusterseq/sequencer/types"
)

// Engine executes one InstructionTree under spec §4.E's scheduling rules.
type Engine struct {
	tree *types.InstructionTree
	idx  *index

	local  transport.Dispatcher
	remote transport.Dispatcher

	cfg     types.Config
	metrics *Metrics
}

// New runs ISE's construction phase over tree and returns an Engine ready
// to Run. local dispatches non-remote actions; remote dispatches actions
// whose Remote flag is set (an SSHDispatcher or MQTTDispatcher).
func New(tree *types.InstructionTree, local, remote transport.Dispatcher, cfg types.Config) (*Engine, error) {
	idx, err := build(tree)
	if err != nil {
		return nil, err
	}
	return &Engine{tree: tree, idx: idx, local: local, remote: remote, cfg: cfg, metrics: NewMetrics()}, nil
}

// Metrics exposes the engine's prometheus metric set.
func (e *Engine) Metrics() *Metrics { return e.metrics }

type closeEvent struct {
	id  string
	res transport.Result
	err error
}

// Run dispatches every action in dependency order, bounded by cfg.Fanout
// concurrent workers, and returns the completed Execution once every
// action has reached a terminal state (spec §4.E "Scheduling").
func (e *Engine) Run(ctx context.Context) (*types.Execution, error) {
	exec := types.NewExecution(e.tree, e.cfg)
	total := len(e.tree.Leaves)
	if total == 0 {
		return exec, nil
	}

	fanout := e.cfg.Fanout
	if fanout < 1 {
		fanout = 1
	}
	sem := semaphore.NewWeighted(int64(fanout))

	events := make(chan closeEvent, total)
	var g errgroup.Group

	var mu sync.Mutex
	submitted := make(map[string]bool, total)
	blocked := make(map[string]bool)
	pending := 0 // submitted actions not yet resolved
	start := time.Now()

	var stopProgress func()
	if e.cfg.ProgressInterval > 0 {
		stopProgress = e.startProgress(exec, &mu, start, total)
	}

	submit := func(id string) {
		mu.Lock()
		if submitted[id] {
			mu.Unlock()
			return
		}
		submitted[id] = true
		pending++
		rec := exec.Records[id]
		rec.State = types.StateSubmitted
		rec.SubmittedAt = time.Now()
		mu.Unlock()

		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				events <- closeEvent{id: id, err: err}
				return nil
			}
			defer sem.Release(1)

			mu.Lock()
			rec.State = types.StateRunning
			rec.StartedAt = time.Now()
			exec.Running++
			if exec.Running > exec.BestFanout {
				exec.BestFanout = exec.Running
			}
			mu.Unlock()

			dispatcher := e.local
			if rec.Action.Remote {
				dispatcher = e.remote
			}
			res, err := dispatcher.Dispatch(ctx, rec.Action)

			mu.Lock()
			exec.Running--
			mu.Unlock()

			events <- closeEvent{id: id, res: res, err: err}
			return nil
		})
	}

	mu.Lock()
	for id := range e.tree.Leaves {
		if len(e.idx.allDeps[id]) == 0 {
			mu.Unlock()
			submit(id)
			mu.Lock()
		}
	}
	mu.Unlock()

	for {
		mu.Lock()
		done := pending == 0
		mu.Unlock()
		if done {
			break
		}
		ev := <-events

		mu.Lock()
		pending--
		rec := exec.Records[ev.id]
		rec.EndedAt = time.Now()

		if ev.err != nil {
			// Spawn failure: the distinguished UNEXECUTED code, added to
			// the error set with a synthesized explanation (spec §4.E
			// "Return-code aggregation").
			rec.State = types.StateUnexecuted
			rec.RC = types.RCUnexecuted
			rec.Err = ev.err
			rec.Stderr = "spawn failure: " + ev.err.Error()
			exec.ErrorActions[ev.id] = true
			blocked[ev.id] = true
			mu.Unlock()
			e.metrics.observe(rec)
			continue
		}

		rec.State = types.StateExecuted
		rec.ExitCode = ev.res.ExitCode
		rec.Stdout = ev.res.Stdout
		rec.Stderr = ev.res.Stderr
		rec.RC = classifyExitCode(ev.res.ExitCode)
		exec.ExecutedActions[ev.id] = true
		if rec.RC == types.RCError {
			exec.ErrorActions[ev.id] = true
		}

		stop := shouldStop(rec.RC, rec.Action.Force, exec.ForceGlobal)
		if stop {
			blocked[ev.id] = true
		}

		var ready []string
		if !stop {
			for _, dep := range e.idx.next[ev.id] {
				if eligible(dep, e.idx, exec, blocked) {
					ready = append(ready, dep)
				}
			}
		}
		mu.Unlock()

		e.metrics.observe(rec)
		for _, id := range ready {
			submit(id)
		}
	}

	_ = g.Wait()
	if stopProgress != nil {
		stopProgress()
	}

	mu.Lock()
	for _, rec := range exec.Records {
		if rec.State == types.StateNew {
			rec.State = types.StateUnexecuted
			rec.RC = types.RCUnexecuted
		}
	}
	mu.Unlock()

	return exec, nil
}

// eligible reports whether id's every dependency has executed and none of
// them is blocked (error, or a should_stop-triggering warning).
func eligible(id string, idx *index, exec *types.Execution, blocked map[string]bool) bool {
	for _, dep := range idx.allDeps[id] {
		if blocked[dep] || !exec.ExecutedActions[dep] {
			return false
		}
	}
	return true
}
