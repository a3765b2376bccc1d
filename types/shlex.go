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
	"fmt"
	"strings"
)

// SplitWords tokenizes s the way Python's posix shlex.split does: runs of
// unquoted whitespace separate words, single quotes take everything
// between them literally, double quotes allow backslash to escape `"`,
// `\`, `$` and backtick, and an unquoted backslash escapes the next
// character. No other shell behavior — globbing, variable expansion,
// command substitution, pipes, redirection — applies (spec §4.A/§4.B/§4.C:
// "split the string with shell quoting rules, execute as a child
// process", not interpreted by a shell).
func SplitWords(s string) ([]string, error) {
	var words []string
	var word strings.Builder
	haveWord := false

	const (
		stateBare = iota
		stateSingle
		stateDouble
	)
	state := stateBare

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch state {
		case stateBare:
			switch {
			case r == '\'':
				state = stateSingle
				haveWord = true
			case r == '"':
				state = stateDouble
				haveWord = true
			case r == '\\':
				if i+1 >= len(runes) {
					return nil, fmt.Errorf("shlex: trailing backslash")
				}
				i++
				word.WriteRune(runes[i])
				haveWord = true
			case isShellSpace(r):
				if haveWord {
					words = append(words, word.String())
					word.Reset()
					haveWord = false
				}
			default:
				word.WriteRune(r)
				haveWord = true
			}
		case stateSingle:
			if r == '\'' {
				state = stateBare
			} else {
				word.WriteRune(r)
			}
		case stateDouble:
			switch r {
			case '"':
				state = stateBare
			case '\\':
				if i+1 >= len(runes) {
					return nil, fmt.Errorf("shlex: no closing quotation")
				}
				next := runes[i+1]
				if next == '"' || next == '\\' || next == '$' || next == '`' {
					i++
					word.WriteRune(next)
				} else {
					word.WriteRune(r)
				}
			default:
				word.WriteRune(r)
			}
		}
	}

	if state != stateBare {
		return nil, fmt.Errorf("shlex: no closing quotation")
	}
	if haveWord {
		words = append(words, word.String())
	}
	return words, nil
}

func isShellSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\r', '\n':
		return true
	default:
		return false
	}
}
