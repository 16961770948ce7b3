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

package cache

import (
	"context"
	"fmt"
	"sort"

	"github.com/mitchellh/hashstructure"
	"github.com/sirupsen/logrus"

	"github.com/suharev7/tesseract/backend"
	"github.com/suharev7/tesseract/config"
	"github.com/suharev7/tesseract/schema"
)

// HashCubes returns a structural hash of cubes, stable across process
// runs for the same schema content. Used to decide whether a cache
// rebuild can be skipped on flush.
func HashCubes(cubes []schema.Cube) (uint64, error) {
	return hashstructure.Hash(cubes, nil)
}

// Builder constructs a Cache by probing a backend.Backend for every cube
// in a schema snapshot. Any back-end error aborts the whole build, per
// SPEC_FULL.md §4.3's "Failure mode".
type Builder struct {
	Backend        backend.Backend
	Config         *config.Config
	NeighborWindow int
	Log            *logrus.Logger
}

// NewBuilder returns a Builder with DefaultNeighborWindow and a standard
// logrus.Logger.
func NewBuilder(b backend.Backend, cfg *config.Config) *Builder {
	return &Builder{
		Backend:        b,
		Config:         cfg,
		NeighborWindow: DefaultNeighborWindow,
		Log:            logrus.StandardLogger(),
	}
}

// Build probes every cube's dimensions and returns the assembled Cache, or
// the first error encountered.
func (bd *Builder) Build(ctx context.Context, cubes []schema.Cube) (*Cache, error) {
	hash, err := HashCubes(cubes)
	if err != nil {
		return nil, fmt.Errorf("cache: hashing schema snapshot: %w", err)
	}

	c := &Cache{Cubes: map[string]*CubeCache{}, SchemaHash: hash}
	for _, cube := range cubes {
		cc, err := bd.buildCube(ctx, cube)
		if err != nil {
			bd.logf(logrus.ErrorLevel, "cache build aborted for cube %q: %s", cube.Name, err)
			return nil, err
		}
		c.Cubes[cube.Name] = cc
	}
	return c, nil
}

func (bd *Builder) logf(level logrus.Level, format string, args ...interface{}) {
	if bd.Log == nil {
		return
	}
	bd.Log.Logf(level, format, args...)
}

func (bd *Builder) buildCube(ctx context.Context, cube schema.Cube) (*CubeCache, error) {
	cc := &CubeCache{
		CubeName:              cube.Name,
		Levels:                map[schema.LevelName]*LevelCache{},
		LevelShortNames:       map[string]schema.LevelName{},
		PropertyShortNames:    map[string]schema.Property{},
		DimensionMemberLevels: map[string]map[string][]schema.LevelName{},
	}

	for _, dim := range cube.Dimensions {
		memberLevels := map[string][]schema.LevelName{}

		for _, hier := range dim.Hierarchies {
			var parentLN *schema.LevelName
			for i, level := range hier.Levels {
				ln := schema.LevelName{Dimension: dim.Name, Hierarchy: hier.Name, Level: level.Name}

				if err := bd.assignShortName(cc, cube.Name, ln, level); err != nil {
					return nil, err
				}

				lc := &LevelCache{Level: ln}
				cc.Levels[ln] = lc

				keys, ok, err := bd.levelKeys(ctx, hier, level)
				if err != nil {
					return nil, err
				}
				if ok {
					if IsTimeLevel(level.Name) {
						lc.TimeValues = keys
					}
					lc.NeighborsOf = neighborWindows(keys, bd.window())
					for _, k := range keys {
						memberLevels[k] = append(memberLevels[k], ln)
					}
				}

				if i > 0 && parentLN != nil {
					parentLevel := hier.Levels[i-1]
					pairs, err := bd.parentChildPairs(ctx, hier, parentLevel, level)
					if err != nil {
						return nil, err
					}
					lc.ParentOf = map[string]string{}
					parentLC := cc.Levels[*parentLN]
					if parentLC.ChildrenOf == nil {
						parentLC.ChildrenOf = map[string][]string{}
					}
					for _, pr := range pairs {
						lc.ParentOf[pr.self] = pr.parent
						parentLC.ChildrenOf[pr.parent] = appendSortedUnique(parentLC.ChildrenOf[pr.parent], pr.self)
					}
				}

				for _, prop := range level.Properties {
					p := schema.Property{Level: ln, Name: prop.Name}
					if err := bd.assignPropertyShortName(cc, cube.Name, p); err != nil {
						return nil, err
					}
				}

				lnCopy := ln
				parentLN = &lnCopy
			}
		}

		cc.DimensionMemberLevels[dim.Name] = memberLevels
	}

	return cc, nil
}

func (bd *Builder) window() int {
	if bd.NeighborWindow > 0 {
		return bd.NeighborWindow
	}
	return DefaultNeighborWindow
}

// assignShortName implements the unique-naming rule: config override, else
// plain name, with a startup error on collision.
func (bd *Builder) assignShortName(cc *CubeCache, cubeName string, ln schema.LevelName, level schema.Level) error {
	short := level.Name
	if bd.Config != nil {
		if override, ok := bd.Config.LevelShortName(cubeName, ln); ok {
			short = override
		}
	}
	if existing, ok := cc.LevelShortNames[short]; ok && existing != ln {
		return fmt.Errorf("cube %q: level short name %q collides between %v and %v", cubeName, short, existing, ln)
	}
	cc.LevelShortNames[short] = ln
	return nil
}

func (bd *Builder) assignPropertyShortName(cc *CubeCache, cubeName string, p schema.Property) error {
	short := p.Name
	if bd.Config != nil {
		if override, ok := bd.Config.PropertyShortName(cubeName, p); ok {
			short = override
		}
	}
	if existing, ok := cc.PropertyShortNames[short]; ok && existing != p {
		return fmt.Errorf("cube %q: property short name %q collides between %v and %v", cubeName, short, existing, p)
	}
	cc.PropertyShortNames[short] = p
	return nil
}

// levelKeys returns the sorted distinct key values for level, and whether
// it was able to determine them at all (false for a hierarchy with neither
// a table nor inline rows - "inline to the fact table" - which this cache
// builder cannot probe without a fact-table driver).
func (bd *Builder) levelKeys(ctx context.Context, hier schema.Hierarchy, level schema.Level) ([]string, bool, error) {
	if hier.Inline != nil {
		idx := columnIndex(hier.Inline.Columns, level.KeyColumn)
		if idx == -1 {
			return nil, false, nil
		}
		seen := map[string]bool{}
		var keys []string
		for _, row := range hier.Inline.Rows {
			if idx >= len(row) {
				continue
			}
			if !seen[row[idx]] {
				seen[row[idx]] = true
				keys = append(keys, row[idx])
			}
		}
		sort.Strings(keys)
		return keys, true, nil
	}

	if hier.Table == nil {
		return nil, false, nil
	}

	query := fmt.Sprintf("select distinct %s from %s", level.KeyColumn, hier.Table.Name)
	res, err := bd.Backend.ExecSQL(ctx, query)
	if err != nil {
		return nil, false, backend.ErrBackendError.New(err.Error())
	}
	keys := res.Column(level.KeyColumn)
	sort.Strings(keys)
	return keys, true, nil
}

type parentChildPair struct {
	parent string
	self   string
}

func (bd *Builder) parentChildPairs(ctx context.Context, hier schema.Hierarchy, parentLevel, childLevel schema.Level) ([]parentChildPair, error) {
	if hier.Inline != nil {
		pIdx := columnIndex(hier.Inline.Columns, parentLevel.KeyColumn)
		cIdx := columnIndex(hier.Inline.Columns, childLevel.KeyColumn)
		if pIdx == -1 || cIdx == -1 {
			return nil, nil
		}
		seen := map[string]bool{}
		var pairs []parentChildPair
		for _, row := range hier.Inline.Rows {
			if pIdx >= len(row) || cIdx >= len(row) {
				continue
			}
			key := row[pIdx] + "\x00" + row[cIdx]
			if seen[key] {
				continue
			}
			seen[key] = true
			pairs = append(pairs, parentChildPair{parent: row[pIdx], self: row[cIdx]})
		}
		sortPairs(pairs)
		return pairs, nil
	}

	if hier.Table == nil {
		return nil, nil
	}

	query := fmt.Sprintf(
		"select distinct %s, %s from %s group by %s, %s order by %s, %s",
		parentLevel.KeyColumn, childLevel.KeyColumn, hier.Table.Name,
		parentLevel.KeyColumn, childLevel.KeyColumn,
		parentLevel.KeyColumn, childLevel.KeyColumn,
	)
	res, err := bd.Backend.ExecSQL(ctx, query)
	if err != nil {
		return nil, backend.ErrBackendError.New(err.Error())
	}
	parents := res.Column(parentLevel.KeyColumn)
	children := res.Column(childLevel.KeyColumn)
	pairs := make([]parentChildPair, 0, len(parents))
	for i := range parents {
		pairs = append(pairs, parentChildPair{parent: parents[i], self: children[i]})
	}
	sortPairs(pairs)
	return pairs, nil
}

func sortPairs(pairs []parentChildPair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].parent != pairs[j].parent {
			return pairs[i].parent < pairs[j].parent
		}
		return pairs[i].self < pairs[j].self
	})
}

func columnIndex(cols []string, name string) int {
	for i, c := range cols {
		if c == name {
			return i
		}
	}
	return -1
}

func appendSortedUnique(existing []string, v string) []string {
	for _, e := range existing {
		if e == v {
			return existing
		}
	}
	out := append(existing, v)
	sort.Strings(out)
	return out
}

// neighborWindows builds, for each key in the sorted input, up to `window`
// predecessors and successors, truncated at the boundaries.
func neighborWindows(sortedKeys []string, window int) map[string][]string {
	out := make(map[string][]string, len(sortedKeys))
	for i, k := range sortedKeys {
		lo := i - window
		if lo < 0 {
			lo = 0
		}
		hi := i + window
		if hi > len(sortedKeys)-1 {
			hi = len(sortedKeys) - 1
		}
		var neighbors []string
		for j := lo; j <= hi; j++ {
			if j == i {
				continue
			}
			neighbors = append(neighbors, sortedKeys[j])
		}
		out[k] = neighbors
	}
	return out
}
