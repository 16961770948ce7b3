// Copyright 2026 The Tesseract Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"

	"github.com/suharev7/tesseract/schema"
)

// tomlConfig mirrors the on-disk shape of a logic-layer config file.
type tomlConfig struct {
	Aliases   map[string]string            `toml:"aliases"`
	NamedSets map[string]map[string][]string `toml:"named_sets"`
	Overrides []tomlOverride                `toml:"level_name_overrides"`
}

type tomlOverride struct {
	Cube      string `toml:"cube"`
	Dimension string `toml:"dimension"`
	Hierarchy string `toml:"hierarchy"`
	Level     string `toml:"level"`
	Property  string `toml:"property"`
	ShortName string `toml:"short_name"`
}

// LoadFile parses a TOML logic-layer config file.
func LoadFile(path string) (*Config, error) {
	var doc tomlConfig
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, err
	}
	return fromTOML(doc)
}

// LoadString parses TOML logic-layer config content, for tests and
// embedded defaults.
func LoadString(raw string) (*Config, error) {
	var doc tomlConfig
	if _, err := toml.Decode(raw, &doc); err != nil {
		return nil, err
	}
	return fromTOML(doc)
}

func fromTOML(doc tomlConfig) (*Config, error) {
	cfg := New()
	if doc.Aliases != nil {
		cfg.Aliases = doc.Aliases
	}
	if doc.NamedSets != nil {
		cfg.NamedSets = doc.NamedSets
	}

	var result *multierror.Error
	for _, o := range doc.Overrides {
		if o.Cube == "" && o.Dimension == "" {
			result = multierror.Append(result, fmt.Errorf("override for level %q has neither cube nor dimension scope", o.Level))
			continue
		}
		if o.Level != "" {
			cfg.LevelNameOverrides = append(cfg.LevelNameOverrides, LevelOverride{
				Key: LevelOverrideKey{
					CubeName:      o.Cube,
					DimensionName: o.Dimension,
					Level:         schema.LevelName{Dimension: o.Dimension, Hierarchy: o.Hierarchy, Level: o.Level},
				},
				ShortName: o.ShortName,
			})
		}
		if o.Property != "" {
			cfg.PropertyNameOverrides = append(cfg.PropertyNameOverrides, PropertyOverride{
				Key: PropertyOverrideKey{
					CubeName:      o.Cube,
					DimensionName: o.Dimension,
					Property: schema.Property{
						Level: schema.LevelName{Dimension: o.Dimension, Hierarchy: o.Hierarchy, Level: o.Level},
						Name:  o.Property,
					},
				},
				ShortName: o.ShortName,
			})
		}
	}

	if result != nil {
		return nil, result.ErrorOrNil()
	}
	return cfg, nil
}
