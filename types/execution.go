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
	"time"

	"github.com/gofrs/uuid/v5"
)

// RC is an action's result code, aggregated bottom-up by ISE (spec §4.E
// "rc aggregation").
type RC int

const (
	// RCUnexecuted marks an action that never ran: a dependency blocked
	// it (should_stop fired upstream), or it could not be dispatched.
	RCUnexecuted RC = iota
	// RCOK is a clean exit (status 0).
	RCOK
	// RCWarning is exit status 1; whether it blocks successors depends on
	// the action's force mode and ForceGlobal.
	RCWarning
	// RCError is exit status 2 or higher; it always blocks successors.
	RCError
)

func (rc RC) String() string {
	switch rc {
	case RCOK:
		return "OK"
	case RCWarning:
		return "WARNING"
	case RCUnexecuted:
		return "UNEXECUTED"
	case RCError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ActionState is the scheduler state of one action (spec §4.E state
// machine: NEW -> SUBMITTED -> RUNNING -> EXECUTED, or UNEXECUTED when a
// dependency's should_stop short-circuits it).
type ActionState int

const (
	StateNew ActionState = iota
	StateSubmitted
	StateRunning
	StateExecuted
	StateUnexecuted
)

// ActionRecord is the ISE bookkeeping for one action across its lifetime:
// timestamps, exit status, captured output, and the scheduler state (spec
// §4.E "Execution record").
type ActionRecord struct {
	Action *ActionInstr

	State ActionState
	RC    RC

	SubmittedAt time.Time
	StartedAt   time.Time
	EndedAt     time.Time

	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

// Duration returns EndedAt - StartedAt, or zero if the action never
// finished running.
func (r *ActionRecord) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.EndedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// Execution is ISE's full run state: one ActionRecord per leaf of the
// InstructionTree, plus the indices and counters the scheduler and
// progress reporter read (spec §4.E).
type Execution struct {
	// RunID identifies this run for log/metric correlation — a real
	// operations tool tags every record it emits with one, even though
	// spec.md's Non-goals exclude durable execution state.
	RunID string

	Tree *InstructionTree

	Records map[string]*ActionRecord

	// Running is the number of actions currently in StateRunning, read by
	// the progress reporter. The fanout bound itself is enforced by ISE's
	// semaphore, not by this counter.
	Running int
	// BestFanout is the highest concurrent Running value observed during
	// the run.
	BestFanout int

	// ExecutedActions and ErrorActions index, by id, the actions that
	// reached StateExecuted and those whose RC was RCError or that could
	// not be dispatched, respectively (spec §4.E "indices").
	ExecutedActions map[string]bool
	ErrorActions    map[string]bool

	Fanout           int
	ForceGlobal      bool
	ProgressInterval time.Duration
}

// NewExecution initializes an Execution for tree under cfg.
func NewExecution(tree *InstructionTree, cfg Config) *Execution {
	records := make(map[string]*ActionRecord, len(tree.Leaves))
	for id, a := range tree.Leaves {
		records[id] = &ActionRecord{Action: a, State: StateNew}
	}
	runID, err := uuid.NewV4()
	if err != nil {
		// crypto/rand failure: fall back to the nil UUID rather than fail
		// the run over a non-essential correlation id.
		runID = uuid.UUID{}
	}
	return &Execution{
		RunID:            runID.String(),
		Tree:             tree,
		Records:          records,
		ExecutedActions:  make(map[string]bool),
		ErrorActions:     make(map[string]bool),
		Fanout:           cfg.Fanout,
		ForceGlobal:      cfg.ForceGlobal,
		ProgressInterval: cfg.ProgressInterval,
	}
}

// FinalRC aggregates the run's overall result: the first ERROR wins, else
// WARNING if any action warned, else OK (spec §4.E "rc aggregation").
func (e *Execution) FinalRC() RC {
	sawWarning := false
	for _, r := range e.Records {
		switch r.RC {
		case RCError:
			return RCError
		case RCWarning:
			sawWarning = true
		}
	}
	if sawWarning {
		return RCWarning
	}
	return RCOK
}
