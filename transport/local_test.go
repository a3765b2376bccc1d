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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clusterseq/sequencer/types"
)

func TestLocalDispatcher_OK(t *testing.T) {
	d := NewLocalDispatcher()
	res, err := d.Dispatch(context.Background(), &types.ActionInstr{ID: "a", Command: "echo hello"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello\n", res.Stdout)
}

func TestLocalDispatcher_NonZeroExit(t *testing.T) {
	d := NewLocalDispatcher()
	res, err := d.Dispatch(context.Background(), &types.ActionInstr{ID: "a", Command: "exit 3"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
}

func TestHost_ParsesComponentName(t *testing.T) {
	host, err := Host(&types.ActionInstr{Components: []string{"web01#host@compute"}})
	require.NoError(t, err)
	assert.Equal(t, "web01", host)
}

func TestHost_ErrorsWithoutComponents(t *testing.T) {
	_, err := Host(&types.ActionInstr{})
	assert.Error(t, err)
}
