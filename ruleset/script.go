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
	"sync"

	"github.com/dop251/goja"
)

// vmPool recycles goja runtimes across filter evaluations — each script
// is short-lived and stateless, so a sync.Pool avoids paying VM setup
// cost per component (same goal as the teacher's GojaJsEngine pooling,
// generalized from its single-script-per-node usage to ad hoc filters).
var vmPool = sync.Pool{
	New: func() any { return goja.New() },
}

// newFilterVM borrows a goja.Runtime from the pool. Every caller must
// return it with putFilterVM once the script has run.
func newFilterVM() *goja.Runtime {
	return vmPool.Get().(*goja.Runtime)
}

func putFilterVM(vm *goja.Runtime) {
	vmPool.Put(vm)
}
