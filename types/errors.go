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
	"errors"
	"fmt"
)

// Kind identifies one member of the sequencer's error taxonomy (spec §7).
// Every SequencerError carries exactly one Kind so callers can branch on it
// with errors.As without string matching.
type Kind int

const (
	KindUnknownRuleset Kind = iota
	KindNoSuchRule
	KindDuplicateRule
	KindUnknownDep
	KindCyclesDetected
	KindBadDep
	KindUnknownDeps
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindUnknownRuleset:
		return "UnknownRuleset"
	case KindNoSuchRule:
		return "NoSuchRule"
	case KindDuplicateRule:
		return "DuplicateRule"
	case KindUnknownDep:
		return "UnknownDep"
	case KindCyclesDetected:
		return "CyclesDetected"
	case KindBadDep:
		return "BadDep"
	case KindUnknownDeps:
		return "UnknownDeps"
	case KindInternal:
		return "InternalError"
	default:
		return "Unknown"
	}
}

// SequencerError is the single base error kind every taxonomy member derives
// from (spec §7). CyclesDetectedError embeds one of these with the witness
// cycle attached via Cycle.
type SequencerError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *SequencerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Cause.Error())
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *SequencerError) Unwrap() error {
	return e.Cause
}

func newErr(kind Kind, format string, args ...any) *SequencerError {
	return &SequencerError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewUnknownRulesetError reports a RuleStore lookup miss (spec §4.A).
func NewUnknownRulesetError(ruleset string) error {
	return newErr(KindUnknownRuleset, "unknown ruleset %q", ruleset)
}

// NewNoSuchRuleError reports a rule-name lookup miss within a ruleset.
func NewNoSuchRuleError(ruleset, name string) error {
	return newErr(KindNoSuchRule, "ruleset %q has no rule %q", ruleset, name)
}

// NewDuplicateRuleError reports an insert colliding with an existing
// (ruleset,name) pair.
func NewDuplicateRuleError(ruleset, name string) error {
	return newErr(KindDuplicateRule, "rule %q already exists in ruleset %q", name, ruleset)
}

// NewUnknownDepError reports a rule's dependson referencing an undefined
// rule name within the same ruleset.
func NewUnknownDepError(ruleset, rule, dep string) error {
	return newErr(KindUnknownDep, "rule %q in ruleset %q depends on undefined rule %q", rule, ruleset, dep)
}

// CyclesDetectedError carries the witness cycle discovered by DFS. It
// carries only the cycle: the graph in which the cycle was found is not
// attached to the error.
type CyclesDetectedError struct {
	SequencerError
	Cycle []string
}

func NewCyclesDetectedError(cycle []string) error {
	return &CyclesDetectedError{
		SequencerError: *newErr(KindCyclesDetected, "cycle detected: %v", cycle),
		Cycle:          cycle,
	}
}

// NewBadDepError reports an explicit dependency that duplicates an implicit
// structural one.
func NewBadDepError(actionID, depID string) error {
	return newErr(KindBadDep, "action %q declares explicit dep %q that is already implicit", actionID, depID)
}

// NewUnknownDepsError reports an instruction referencing an undefined
// action id.
func NewUnknownDepsError(actionID, depID string) error {
	return newErr(KindUnknownDeps, "action %q references unknown dependency %q", actionID, depID)
}

// NewInternalError wraps an invariant breach; these are crash-worthy per
// spec §7 and should not normally be recovered from.
func NewInternalError(cause error) error {
	return &SequencerError{Kind: KindInternal, Message: "internal invariant breach", Cause: cause}
}

// Is reports whether err carries the given Kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	var se *SequencerError
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	var ce *CyclesDetectedError
	if errors.As(err, &ce) {
		return ce.Kind == kind
	}
	return false
}
