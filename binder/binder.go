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

package binder

import (
	"sort"

	"github.com/suharev7/tesseract/logiclayer"
	"github.com/suharev7/tesseract/schema"
)

// Bind resolves a ResolvedQuery against cube, producing the physical
// bindings and header order sqlgen needs. Drills are bound in the order
// they appear on the query (duplicates collapsed); cuts are sorted by
// LevelName for deterministic output, since ResolvedQuery.Cuts is a map.
func Bind(cube *schema.Cube, q logiclayer.ResolvedQuery) (*Bound, error) {
	table := TableSql{Name: cube.Table.Name, PrimaryKey: cube.Table.PrimaryKey}

	measures := make([]MeasureSql, 0, len(q.Measures))
	for _, name := range q.Measures {
		m, err := cube.MeasureByName(name)
		if err != nil {
			return nil, err
		}
		measures = append(measures, MeasureSql{Name: m.Name, Column: m.Column, Aggregator: m.Aggregator})
	}

	drills, err := bindDrills(cube, q.Drills, q.Parents)
	if err != nil {
		return nil, err
	}
	if err := attachProperties(cube, drills, q.Properties); err != nil {
		return nil, err
	}

	cuts, err := bindCuts(cube, q.Cuts)
	if err != nil {
		return nil, err
	}

	return &Bound{
		Table:      table,
		Cuts:       cuts,
		Drilldowns: drills,
		Measures:   measures,
		Headers:    buildHeaders(drills, measures),
	}, nil
}

func bindDrills(cube *schema.Cube, lns []schema.LevelName, parents bool) ([]DrilldownSql, error) {
	seen := map[schema.LevelName]bool{}
	out := make([]DrilldownSql, 0, len(lns))

	for _, ln := range lns {
		if seen[ln] {
			continue
		}
		seen[ln] = true

		level, hier, err := cube.LevelByName(ln)
		if err != nil {
			return nil, err
		}
		dim, err := cube.DimensionByName(ln.Dimension)
		if err != nil {
			return nil, err
		}
		if dim.ForeignKey == "" && !hier.IsSameTableAsFact() {
			return nil, schema.ErrMissingForeignKey.New(dim.Name)
		}

		chain := []schema.Level{}
		if parents {
			ancestors, err := cube.ParentsOfLevel(ln)
			if err != nil {
				return nil, err
			}
			chain = append(chain, ancestors...)
		}
		chain = append(chain, *level)

		levelCols := make([]LevelColumn, 0, len(chain))
		for _, lvl := range chain {
			lc := LevelColumn{
				LevelName: schema.LevelName{Dimension: ln.Dimension, Hierarchy: ln.Hierarchy, Level: lvl.Name},
				KeyColumn: lvl.KeyColumn,
			}
			if lvl.HasNameColumn() {
				lc.KeyAlias = lvl.Name + " ID"
				lc.NameColumn = lvl.NameColumn
				lc.NameAlias = lvl.Name
			} else {
				lc.KeyAlias = lvl.Name
			}
			levelCols = append(levelCols, lc)
		}

		out = append(out, DrilldownSql{
			LevelName:    ln,
			Table:        tableRefFor(cube, dim, *hier),
			PrimaryKey:   hier.PrimaryKey,
			ForeignKey:   dim.ForeignKey,
			LevelColumns: levelCols,
		})
	}

	return out, nil
}

// attachProperties implements SPEC_FULL.md §3 invariant 4: every requested
// property must belong to at least one drilled level (it is attached to
// every drilled level that declares it), or the query is rejected outright.
func attachProperties(cube *schema.Cube, drills []DrilldownSql, wanted []string) error {
	assigned := map[string]bool{}
	for i := range drills {
		level, _, err := cube.LevelByName(drills[i].LevelName)
		if err != nil {
			return err
		}
		for _, prop := range level.Properties {
			for _, want := range wanted {
				if want == prop.Name {
					drills[i].PropertyColumns = append(drills[i].PropertyColumns, PropertyColumnSql{
						Name:   prop.Name,
						Column: prop.Column,
						Alias:  prop.Name,
					})
					assigned[want] = true
				}
			}
		}
	}
	for _, want := range wanted {
		if !assigned[want] {
			return ErrPropertyWithoutDrill.New(want)
		}
	}
	return nil
}

func bindCuts(cube *schema.Cube, cuts map[schema.LevelName][]string) ([]CutSql, error) {
	out := make([]CutSql, 0, len(cuts))
	for ln, members := range cuts {
		level, hier, err := cube.LevelByName(ln)
		if err != nil {
			return nil, err
		}
		dim, err := cube.DimensionByName(ln.Dimension)
		if err != nil {
			return nil, err
		}
		if dim.ForeignKey == "" && !hier.IsSameTableAsFact() {
			return nil, schema.ErrMissingForeignKey.New(dim.Name)
		}
		out = append(out, CutSql{
			Table:      tableRefFor(cube, dim, *hier),
			PrimaryKey: hier.PrimaryKey,
			ForeignKey: dim.ForeignKey,
			Column:     level.KeyColumn,
			Members:    members,
			MemberType: dim.ForeignKeyType,
			LevelName:  ln,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].LevelName, out[j].LevelName
		if a.Dimension != b.Dimension {
			return a.Dimension < b.Dimension
		}
		if a.Hierarchy != b.Hierarchy {
			return a.Hierarchy < b.Hierarchy
		}
		return a.Level < b.Level
	})
	return out, nil
}

func tableRefFor(cube *schema.Cube, dim *schema.Dimension, hier schema.Hierarchy) TableRef {
	if hier.IsSameTableAsFact() {
		return TableRef{Name: cube.Table.Name}
	}
	if hier.Inline != nil {
		return TableRef{Name: dim.Name + "_" + hier.Name + "_inline", Inline: hier.Inline}
	}
	return TableRef{Name: hier.Table.Name}
}

// buildHeaders implements the binder's output-header contract: per drill,
// key (and ID alias when a name column exists) then name, then that
// drill's properties in declared order; finally every measure name.
func buildHeaders(drills []DrilldownSql, measures []MeasureSql) []string {
	var headers []string
	for _, d := range drills {
		for _, lc := range d.LevelColumns {
			headers = append(headers, lc.KeyAlias)
			if lc.NameColumn != "" {
				headers = append(headers, lc.NameAlias)
			}
		}
		for _, p := range d.PropertyColumns {
			headers = append(headers, p.Alias)
		}
	}
	for _, m := range measures {
		headers = append(headers, m.Name)
	}
	return headers
}
