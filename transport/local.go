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
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/clusterseq/sequencer/types"
)

// LocalDispatcher runs non-remote actions as a child process on the
// machine ISE itself runs on (spec §5 "local actions spawn a child
// process").
type LocalDispatcher struct{}

func NewLocalDispatcher() *LocalDispatcher { return &LocalDispatcher{} }

func (d *LocalDispatcher) Dispatch(ctx context.Context, a *types.ActionInstr) (Result, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", a.Command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
		return res, nil
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	default:
		// Spawn failure (binary missing, permissions, context cancelled
		// before start): ISE records this as RCUnexecuted, not a
		// classified exit code (spec §4.E "spawn failure").
		return res, err
	}
}
