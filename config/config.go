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

// Package config loads the ambient engine settings (fanout, algorithm,
// docache, progress interval, force list) from a TOML file into a
// types.Config, for deployments that configure the pipeline from disk
// rather than wiring options by hand.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"

	"github.com/clusterseq/sequencer/types"
)

// File is the TOML shape: one [engine] table mirroring types.Config's
// non-Logger fields, with Properties as an [engine.properties] sub-table.
type File struct {
	Engine EngineSection `toml:"engine"`
}

type EngineSection struct {
	Algorithm        string   `toml:"algorithm"`
	Fanout           int      `toml:"fanout"`
	ForceGlobal      bool     `toml:"force_global"`
	Force            []string `toml:"force"`
	DoCache          *bool    `toml:"docache"`
	ProgressInterval string   `toml:"progress_interval"`

	// Properties holds the free-form [engine.properties] table. TOML
	// gives each value its native type (string, int64, bool, ...); these
	// are coerced into types.Config.Properties's map[string]string via
	// mapstructure's weakly-typed decoding, since substitution templates
	// only ever consume properties as text.
	Properties map[string]any `toml:"properties"`
}

// Load reads path and returns the options needed to build a types.Config,
// on top of types.NewConfig's defaults. A missing ProgressInterval or
// Algorithm leaves the corresponding default untouched.
func Load(path string) ([]types.Option, error) {
	var f File
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return f.options()
}

// LoadString parses TOML text directly, for callers embedding config
// rather than reading it from a file (tests, inline deployment manifests).
func LoadString(text string) ([]types.Option, error) {
	var f File
	if _, err := toml.Decode(text, &f); err != nil {
		return nil, fmt.Errorf("config: decoding inline TOML: %w", err)
	}
	return f.options()
}

func (f File) options() ([]types.Option, error) {
	var opts []types.Option

	if f.Engine.Algorithm != "" {
		opts = append(opts, types.WithAlgorithm(types.Algorithm(f.Engine.Algorithm)))
	}
	if f.Engine.Fanout > 0 {
		opts = append(opts, types.WithFanout(f.Engine.Fanout))
	}
	if f.Engine.ForceGlobal {
		opts = append(opts, types.WithForceGlobal(true))
	}
	if len(f.Engine.Force) > 0 {
		opts = append(opts, types.WithForce(f.Engine.Force...))
	}
	if f.Engine.DoCache != nil {
		opts = append(opts, types.WithDoCache(*f.Engine.DoCache))
	}

	if f.Engine.ProgressInterval != "" {
		d, err := time.ParseDuration(f.Engine.ProgressInterval)
		if err != nil {
			return nil, fmt.Errorf("config: progress_interval %q: %w", f.Engine.ProgressInterval, err)
		}
		opts = append(opts, types.WithProgressInterval(d))
	}

	if len(f.Engine.Properties) > 0 {
		props, err := decodeProperties(f.Engine.Properties)
		if err != nil {
			return nil, fmt.Errorf("config: properties: %w", err)
		}
		opts = append(opts, types.WithProperties(props))
	}

	return opts, nil
}

// decodeProperties coerces a TOML table's native-typed values down to
// strings, tolerating ints/bools/floats the way a hand-written TOML file
// naturally produces for things like retry counts or feature toggles.
func decodeProperties(raw map[string]any) (map[string]string, error) {
	out := make(map[string]string, len(raw))
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, err
	}
	return out, nil
}

// exists reports whether path names a regular file, used by callers that
// want to treat a missing config file as "use defaults" rather than an
// error.
func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Exists reports whether path names a readable config file.
func Exists(path string) bool { return exists(path) }
