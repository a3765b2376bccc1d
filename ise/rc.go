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

import "github.com/clusterseq/sequencer/types"

// classifyExitCode maps a dispatched action's raw exit status to one of
// spec §4.E's semantic codes, following the Nagios plugin convention
// (0 OK, 1 WARNING, >=2 error) since the cluster-operations domain already
// leans on that vocabulary and spec.md leaves the exact mapping
// implementation-defined ("Codes are semantic, not a numeric contract").
func classifyExitCode(exitCode int) types.RC {
	switch {
	case exitCode == 0:
		return types.RCOK
	case exitCode == 1:
		return types.RCWarning
	default:
		return types.RCError
	}
}

// shouldStop implements spec §4.E's should_stop policy: whether rc on an
// action with the given force mode blocks its successors.
func shouldStop(rc types.RC, force types.ForceMode, forceGlobal bool) bool {
	switch rc {
	case types.RCOK:
		return false
	case types.RCWarning:
		switch force {
		case types.ForceAlways:
			return false
		case types.ForceNever:
			return true
		default: // ForceAllowed
			return !forceGlobal
		}
	default:
		return true
	}
}
