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

import "strings"

// Substitute performs the single-pass, literal, left-to-right %var
// replacement of spec §9: longer keys are tried before shorter prefixes of
// themselves so "%ruleset" isn't clipped to "%rule", and a stray
// unreplaced "%foo" is preserved verbatim.
func Substitute(template string, vars map[string]string) string {
	if template == "" || len(vars) == 0 {
		return template
	}
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	// Longest key first so "%rulename" is matched before "%rule" would be
	// (not a real key here, but keeps the scan order well-defined as the
	// var set grows).
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && len(keys[j]) > len(keys[j-1]); j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}

	var b strings.Builder
	i := 0
	for i < len(template) {
		if template[i] != '%' {
			b.WriteByte(template[i])
			i++
			continue
		}
		matched := false
		for _, k := range keys {
			token := "%" + k
			if strings.HasPrefix(template[i:], token) {
				b.WriteString(vars[k])
				i += len(token)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(template[i])
			i++
		}
	}
	return b.String()
}
