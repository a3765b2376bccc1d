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

import "time"

// Option configures a Config in NewConfig. The functional-options pattern
// lets callers set only what they need and keep the rest at their defaults.
type Option func(*Config)

func WithLogger(l Logger) Option {
	return func(c *Config) { c.Logger = l }
}

func WithAlgorithm(a Algorithm) Option {
	return func(c *Config) { c.Algorithm = a }
}

func WithFanout(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.Fanout = n
		}
	}
}

func WithForceGlobal(v bool) Option {
	return func(c *Config) { c.ForceGlobal = v }
}

func WithForce(names ...string) Option {
	return func(c *Config) { c.Force = append(c.Force, names...) }
}

func WithDoCache(v bool) Option {
	return func(c *Config) { c.DoCache = v }
}

func WithProgressInterval(d time.Duration) Option {
	return func(c *Config) { c.ProgressInterval = d }
}

func WithProperties(p map[string]string) Option {
	return func(c *Config) { c.Properties = p }
}
