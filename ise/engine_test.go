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
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/clusterseq/sequencer/transport"
	"github.com/clusterseq/sequencer/types"
)

// scriptedDispatcher returns a fixed exit code per action id, recording the
// peak number of concurrently in-flight Dispatch calls it observed.
type scriptedDispatcher struct {
	mu      sync.Mutex
	codes   map[string]int
	delay   time.Duration
	running int32
	peak    int32
}

func (d *scriptedDispatcher) Dispatch(ctx context.Context, a *types.ActionInstr) (transport.Result, error) {
	n := atomic.AddInt32(&d.running, 1)
	for {
		p := atomic.LoadInt32(&d.peak)
		if n <= p || atomic.CompareAndSwapInt32(&d.peak, p, n) {
			break
		}
	}
	if d.delay > 0 {
		time.Sleep(d.delay)
	}
	atomic.AddInt32(&d.running, -1)

	d.mu.Lock()
	code := d.codes[a.ID]
	d.mu.Unlock()
	return transport.Result{ExitCode: code}, nil
}

func leafAction(id string, force types.ForceMode, deps ...string) *types.ActionInstr {
	return &types.ActionInstr{ID: id, Command: "true", Force: force, ExplicitDepends: deps}
}

func singleTree(actions ...*types.ActionInstr) *types.InstructionTree {
	children := make([]types.Instruction, len(actions))
	for i, a := range actions {
		children[i] = a
	}
	return types.NewInstructionTree(&types.ParInstr{Children: children})
}

// S4: a WARNING from an action with ForceAllowed blocks its dependent
// unless ForceGlobal is set, in which case the dependent runs and the
// final rc is still WARNING (spec §4.E should_stop policy).
func TestRun_WarningBlocksSuccessor_UnlessForceGlobal(t *testing.T) {
	t.Run("blocked without ForceGlobal", func(t *testing.T) {
		a := leafAction("a", types.ForceAllowed)
		b := leafAction("b", types.ForceAllowed, "a")
		tree := singleTree(a, b)

		cfg := types.NewConfig(types.WithFanout(2))
		disp := &scriptedDispatcher{codes: map[string]int{"a": 1, "b": 0}}
		eng, err := New(tree, disp, disp, cfg)
		require.NoError(t, err)

		exec, err := eng.Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, types.StateExecuted, exec.Records["a"].State)
		require.Equal(t, types.StateUnexecuted, exec.Records["b"].State)
		require.Equal(t, types.RCWarning, exec.FinalRC())
	})

	t.Run("runs through with ForceGlobal", func(t *testing.T) {
		a := leafAction("a", types.ForceAllowed)
		b := leafAction("b", types.ForceAllowed, "a")
		tree := singleTree(a, b)

		cfg := types.NewConfig(types.WithFanout(2), types.WithForceGlobal(true))
		disp := &scriptedDispatcher{codes: map[string]int{"a": 1, "b": 0}}
		eng, err := New(tree, disp, disp, cfg)
		require.NoError(t, err)

		exec, err := eng.Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, types.StateExecuted, exec.Records["a"].State)
		require.Equal(t, types.StateExecuted, exec.Records["b"].State)
		require.Equal(t, types.RCWarning, exec.FinalRC())
	})
}

// S6: fanout bounds observed concurrency, and wall time reflects the
// resulting number of sequential batches (spec §4.E "Scheduling").
func TestRun_RespectsFanoutBound(t *testing.T) {
	const (
		n      = 100
		fanout = 8
		delay  = 50 * time.Millisecond
	)
	actions := make([]*types.ActionInstr, n)
	for i := range actions {
		actions[i] = leafAction(ruleID(i), types.ForceAllowed)
	}
	tree := singleTree(actions...)

	codes := make(map[string]int, n)
	for _, a := range actions {
		codes[a.ID] = 0
	}
	disp := &scriptedDispatcher{codes: codes, delay: delay}

	cfg := types.NewConfig(types.WithFanout(fanout))
	eng, err := New(tree, disp, disp, cfg)
	require.NoError(t, err)

	start := time.Now()
	exec, err := eng.Run(context.Background())
	elapsed := time.Since(start)
	require.NoError(t, err)

	require.LessOrEqual(t, int(disp.peak), fanout)
	require.Equal(t, n, len(exec.ExecutedActions))

	minBatches := (n + fanout - 1) / fanout
	require.GreaterOrEqual(t, elapsed, time.Duration(minBatches)*delay/2)
}

func ruleID(i int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	return "host#svc@cat::ruleset." + string(letters[i%26]) + string(rune('0'+i/26))
}

func TestRun_EmptyTree(t *testing.T) {
	tree := types.NewInstructionTree(nil)
	cfg := types.NewConfig()
	disp := &scriptedDispatcher{codes: map[string]int{}}
	eng, err := New(tree, disp, disp, cfg)
	require.NoError(t, err)

	exec, err := eng.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, types.RCOK, exec.FinalRC())
}

// Transport neutrality (spec §5 property 8): the scheduler never branches
// on dispatcher kind, only on the Remote flag, so swapping dispatchers
// changes nothing about scheduling semantics.
func TestRun_DispatchesRemoteActionsThroughRemoteDispatcher(t *testing.T) {
	a := leafAction("a", types.ForceAllowed)
	a.Remote = true
	tree := singleTree(a)

	local := &scriptedDispatcher{codes: map[string]int{}}
	remote := &scriptedDispatcher{codes: map[string]int{"a": 0}}

	cfg := types.NewConfig()
	eng, err := New(tree, local, remote, cfg)
	require.NoError(t, err)

	exec, err := eng.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, types.StateExecuted, exec.Records["a"].State)
	require.Equal(t, int32(0), local.peak)
}
