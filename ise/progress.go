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
	"sync"
	"time"

	"github.com/clusterseq/sequencer/types"
)

// startProgress ticks every cfg.ProgressInterval, logging total actions,
// done count and %, error count and %, running count and % of configured
// fanout, and wall time since start (spec §4.E "Progress reporting"). The
// returned func stops the ticker; callers must invoke it exactly once.
func (e *Engine) startProgress(exec *types.Execution, mu *sync.Mutex, start time.Time, total int) func() {
	ticker := time.NewTicker(e.cfg.ProgressInterval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				mu.Lock()
				doneCount := len(exec.ExecutedActions)
				errCount := len(exec.ErrorActions)
				running := exec.Running
				fanout := exec.Fanout
				mu.Unlock()

				donePct := percent(doneCount, total)
				errPct := percent(errCount, total)
				runPct := percent(running, max1(fanout))

				e.cfg.Logger.Printf(
					"ise: run=%s progress total=%d done=%d(%.0f%%) error=%d(%.0f%%) running=%d(%.0f%% of fanout) elapsed=%s",
					exec.RunID, total, doneCount, donePct, errCount, errPct, running, runPct, time.Since(start).Round(time.Second),
				)
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
