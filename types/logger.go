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
	"log"
	"os"
)

// Logger is the logging interface every stage takes through Config, rather
// than calling a package-level logger. Printf follows the standard library's
// log.Logger signature so any existing adapter (logrus, zap, etc.) can be
// wrapped in a one-line shim.
type Logger interface {
	Printf(format string, v ...any)
}

type stdLogger struct {
	l *log.Logger
}

func (s *stdLogger) Printf(format string, v ...any) {
	s.l.Printf(format, v...)
}

// DefaultLogger returns a Logger backed by the standard library, writing to
// stderr with a "sequencer: " prefix.
func DefaultLogger() Logger {
	return &stdLogger{l: log.New(os.Stderr, "sequencer: ", log.LstdFlags)}
}

// NopLogger discards everything. Useful in tests that don't want log noise
// mixed into -v output.
type NopLogger struct{}

func (NopLogger) Printf(string, ...any) {}
