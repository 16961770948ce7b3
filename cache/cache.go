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

// Package cache materializes, once per schema load, the per-cube lookup
// tables the logic-layer resolver needs at request time: time-level value
// lists, level/property unique names, parent/child/neighbor maps, and the
// reverse index from member id to level.
package cache

import "github.com/suharev7/tesseract/schema"

// DefaultNeighborWindow is the number of predecessors/successors kept on
// each side of a member in a level's neighbors map. The source hard-codes
// this to 2; here it is a config constant (see SPEC_FULL.md §9).
const DefaultNeighborWindow = 2

// timePrecisions are the reserved level-name tokens that trigger time-list
// probing, in the order the source checks them.
var timePrecisions = []string{"Year", "Quarter", "Month", "Week", "Day"}

// LevelCache holds the per-level lookup tables built at cache-construction
// time.
type LevelCache struct {
	Level schema.LevelName

	// TimeValues holds the sorted (ascending) distinct key values for a
	// time-precision level; nil for non-time levels.
	TimeValues []string

	// ParentOf maps a member's own key to its parent's key. Absent for
	// the shallowest level of a hierarchy.
	ParentOf map[string]string

	// ChildrenOf maps a member's own key to its children's keys, in
	// sorted order. Absent for the deepest level of a hierarchy.
	ChildrenOf map[string][]string

	// NeighborsOf maps a member's own key to its neighbor window.
	NeighborsOf map[string][]string
}

// CubeCache is the materialized cache for one cube.
type CubeCache struct {
	CubeName string

	// Levels is keyed by the full LevelName.
	Levels map[schema.LevelName]*LevelCache

	// LevelShortNames maps a cube-unique short name to the full
	// LevelName it designates.
	LevelShortNames map[string]schema.LevelName

	// PropertyShortNames maps a cube-unique short name to the full
	// Property it designates.
	PropertyShortNames map[string]schema.Property

	// DimensionMemberLevels maps a dimension name to a reverse index
	// from an observed member key to the set of LevelNames that emit
	// it. Used to disambiguate "dimension=<id>" cuts.
	DimensionMemberLevels map[string]map[string][]schema.LevelName
}

// Cache holds one CubeCache per loaded cube.
type Cache struct {
	Cubes map[string]*CubeCache

	// SchemaHash is a structural hash of the schema snapshot this Cache
	// was built from (see HashCubes), letting a caller skip a rebuild
	// when a flush is requested but the schema hasn't actually changed.
	SchemaHash uint64
}

// CubeCache looks up the cache for a cube by name.
func (c *Cache) CubeCache(name string) (*CubeCache, bool) {
	if c == nil {
		return nil, false
	}
	cc, ok := c.Cubes[name]
	return cc, ok
}

// LevelCache looks up the per-level cache within this cube's cache.
func (cc *CubeCache) LevelCache(ln schema.LevelName) (*LevelCache, bool) {
	if cc == nil {
		return nil, false
	}
	lc, ok := cc.Levels[ln]
	return lc, ok
}

// IsTimeLevel reports whether levelName is one of the reserved time
// precision tokens.
func IsTimeLevel(levelName string) bool {
	for _, p := range timePrecisions {
		if p == levelName {
			return true
		}
	}
	return false
}
