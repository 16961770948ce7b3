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

// Package config holds the logic-layer configuration: cube aliases, named
// sets, and unique-name overrides for levels and properties. It is loaded
// once alongside the schema and consulted by the cache (naming) and the
// logiclayer resolver (aliasing, named-set expansion).
package config

import "github.com/suharev7/tesseract/schema"

// LevelOverrideKey scopes a unique-name override to one cube, to a shared
// dimension across every cube that uses it, or to both. At least one of
// CubeName / DimensionName must be set (the loader rejects an entry with
// neither). Config.LevelShortName prefers an entry whose CubeName matches;
// otherwise an entry whose DimensionName matches the level's dimension
// applies, whatever its CubeName.
type LevelOverrideKey struct {
	CubeName      string
	DimensionName string
	Level         schema.LevelName
}

// PropertyOverrideKey is the property analogue of LevelOverrideKey.
type PropertyOverrideKey struct {
	CubeName      string
	DimensionName string
	Property      schema.Property
}

// Config is the parsed logic-layer configuration.
type Config struct {
	// Aliases maps a user-supplied cube alias to its canonical name.
	Aliases map[string]string

	// NamedSets maps a symbolic cut value to the literal member ids it
	// expands to, scoped per cube.
	NamedSets map[string]map[string][]string

	// LevelNameOverrides assigns a cube-unique short name to a level,
	// overriding the level's own plain name.
	LevelNameOverrides    []LevelOverride
	PropertyNameOverrides []PropertyOverride
}

// LevelOverride is one entry of LevelNameOverrides.
type LevelOverride struct {
	Key      LevelOverrideKey
	ShortName string
}

// PropertyOverride is one entry of PropertyNameOverrides.
type PropertyOverride struct {
	Key      PropertyOverrideKey
	ShortName string
}

// New returns an empty Config with initialized maps.
func New() *Config {
	return &Config{
		Aliases:   map[string]string{},
		NamedSets: map[string]map[string][]string{},
	}
}

// CanonicalCube resolves a user-supplied cube name or alias to its
// canonical name. Unknown input is returned unchanged (identity on miss),
// per the resolver's "Step A" rule.
func (c *Config) CanonicalCube(aliasOrName string) string {
	if c == nil {
		return aliasOrName
	}
	if canonical, ok := c.Aliases[aliasOrName]; ok {
		return canonical
	}
	return aliasOrName
}

// NamedSet expands a symbolic cut value for the given cube. The second
// return value is false if there is no matching named set, in which case
// the caller should keep the value verbatim.
func (c *Config) NamedSet(cube, value string) ([]string, bool) {
	if c == nil {
		return nil, false
	}
	byCube, ok := c.NamedSets[cube]
	if !ok {
		return nil, false
	}
	vals, ok := byCube[value]
	return vals, ok
}

// LevelShortName returns the configured short-name override for a level
// within a cube, if one is set. It checks the cube-specific override
// first, then falls back to any shared-dimension override.
func (c *Config) LevelShortName(cube string, ln schema.LevelName) (string, bool) {
	if c == nil {
		return "", false
	}
	for _, o := range c.LevelNameOverrides {
		if o.Key.CubeName == cube && o.Key.Level == ln {
			return o.ShortName, true
		}
	}
	for _, o := range c.LevelNameOverrides {
		if o.Key.DimensionName != "" && o.Key.DimensionName == ln.Dimension && o.Key.Level == ln {
			return o.ShortName, true
		}
	}
	return "", false
}

// PropertyShortName returns the configured short-name override for a
// property within a cube, if one is set, with the same cube-then-shared
// precedence as LevelShortName.
func (c *Config) PropertyShortName(cube string, p schema.Property) (string, bool) {
	if c == nil {
		return "", false
	}
	for _, o := range c.PropertyNameOverrides {
		if o.Key.CubeName == cube && o.Key.Property == p {
			return o.ShortName, true
		}
	}
	for _, o := range c.PropertyNameOverrides {
		if o.Key.DimensionName != "" && o.Key.DimensionName == p.Level.Dimension && o.Key.Property == p {
			return o.ShortName, true
		}
	}
	return "", false
}
