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

package transport

import (
	"context"

	"github.com/clusterseq/sequencer/types"
)

// Result is one action's raw outcome, before ISE classifies it into an
// RC (spec §4.E "close event").
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Dispatcher runs one action's command to completion. Implementations
// must respect ctx cancellation: ISE cancels a dispatch's context only
// when the whole run is being torn down, never mid-action (spec §5
// "already-running actions are allowed to complete").
type Dispatcher interface {
	Dispatch(ctx context.Context, a *types.ActionInstr) (Result, error)
}

// Host extracts the target host from an action's first component id (the
// `name` half of `name#type@category`), the convention every Dispatcher
// that needs an address (SSH, MQTT) resolves against.
func Host(a *types.ActionInstr) (string, error) {
	if len(a.Components) == 0 {
		return "", types.NewInternalError(nil)
	}
	c, err := types.ParseComponentID(a.Components[0])
	if err != nil {
		return "", err
	}
	return c.Name, nil
}
