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

package binder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suharev7/tesseract/binder"
	"github.com/suharev7/tesseract/logiclayer"
	"github.com/suharev7/tesseract/schema"
)

func salesCube() schema.Cube {
	return schema.Cube{
		Name:  "Sales",
		Table: schema.Table{Name: "fact_sales", PrimaryKey: "id"},
		Dimensions: []schema.Dimension{
			{
				Name:       "Geography",
				ForeignKey: "geo_id",
				Hierarchies: []schema.Hierarchy{
					{
						Name:       "Geography",
						Table:      &schema.Table{Name: "dim_geography", PrimaryKey: "county_key"},
						PrimaryKey: "county_key",
						Levels: []schema.Level{
							{Name: "State", KeyColumn: "state_key", NameColumn: "state_name"},
							{
								Name: "County", KeyColumn: "county_key", NameColumn: "county_name",
								Properties: []schema.PropertyColumn{
									{Name: "Density", Column: "density"},
								},
							},
						},
					},
				},
			},
			{
				Name:       "Time",
				ForeignKey: "year_id",
				Type:       schema.DimTime,
				Hierarchies: []schema.Hierarchy{
					{
						Name:       "Time",
						Table:      &schema.Table{Name: "dim_time", PrimaryKey: "year_id"},
						PrimaryKey: "year_id",
						Levels: []schema.Level{
							{Name: "Year", KeyColumn: "year_key"},
						},
					},
				},
			},
		},
		Measures: []schema.Measure{
			{Name: "Revenue", Column: "revenue", Aggregator: schema.AggSum},
		},
	}
}

func countyLN() schema.LevelName {
	return schema.LevelName{Dimension: "Geography", Hierarchy: "Geography", Level: "County"}
}

func stateLN() schema.LevelName {
	return schema.LevelName{Dimension: "Geography", Hierarchy: "Geography", Level: "State"}
}

func TestBindDrillWithoutParents(t *testing.T) {
	cube := salesCube()
	q := logiclayer.ResolvedQuery{
		Cube:     "Sales",
		Drills:   []schema.LevelName{countyLN()},
		Measures: []string{"Revenue"},
	}
	bound, err := binder.Bind(&cube, q)
	require.NoError(t, err)
	require.Len(t, bound.Drilldowns, 1)
	require.Len(t, bound.Drilldowns[0].LevelColumns, 1)
	require.Equal(t, []string{"County ID", "County", "Revenue"}, bound.Headers)
}

func TestBindDrillWithParentsIncludesAncestorChain(t *testing.T) {
	cube := salesCube()
	q := logiclayer.ResolvedQuery{
		Cube:     "Sales",
		Drills:   []schema.LevelName{countyLN()},
		Measures: []string{"Revenue"},
		Parents:  true,
	}
	bound, err := binder.Bind(&cube, q)
	require.NoError(t, err)
	require.Len(t, bound.Drilldowns[0].LevelColumns, 2)
	require.Equal(t, "State", bound.Drilldowns[0].LevelColumns[0].LevelName.Level)
	require.Equal(t, "County", bound.Drilldowns[0].LevelColumns[1].LevelName.Level)
	require.Equal(t,
		[]string{"State ID", "State", "County ID", "County", "Revenue"},
		bound.Headers,
	)
}

func TestBindPropertyAttachedToDrill(t *testing.T) {
	cube := salesCube()
	q := logiclayer.ResolvedQuery{
		Cube:       "Sales",
		Drills:     []schema.LevelName{countyLN()},
		Measures:   []string{"Revenue"},
		Properties: []string{"Density"},
	}
	bound, err := binder.Bind(&cube, q)
	require.NoError(t, err)
	require.Len(t, bound.Drilldowns[0].PropertyColumns, 1)
	require.Equal(t, "density", bound.Drilldowns[0].PropertyColumns[0].Column)
	require.Equal(t,
		[]string{"County ID", "County", "Density", "Revenue"},
		bound.Headers,
	)
}

func TestBindPropertyWithoutDrillIsError(t *testing.T) {
	cube := salesCube()
	q := logiclayer.ResolvedQuery{
		Cube:       "Sales",
		Drills:     []schema.LevelName{stateLN()},
		Measures:   []string{"Revenue"},
		Properties: []string{"Density"}, // Density belongs to County, not drilled
	}
	_, err := binder.Bind(&cube, q)
	require.Error(t, err)
	require.True(t, binder.ErrPropertyWithoutDrill.Is(err))
}

func TestBindCutsAreSortedDeterministically(t *testing.T) {
	cube := salesCube()
	q := logiclayer.ResolvedQuery{
		Cube:   "Sales",
		Drills: []schema.LevelName{countyLN(), stateLN()},
		Cuts: map[schema.LevelName][]string{
			countyLN(): {"01001"},
			stateLN():  {"01"},
		},
		Measures: []string{"Revenue"},
	}
	bound, err := binder.Bind(&cube, q)
	require.NoError(t, err)
	require.Len(t, bound.Cuts, 2)
	require.Equal(t, "County", bound.Cuts[0].LevelName.Level)
	require.Equal(t, "State", bound.Cuts[1].LevelName.Level)
}

func TestBindUnknownMeasureIsError(t *testing.T) {
	cube := salesCube()
	q := logiclayer.ResolvedQuery{
		Cube:     "Sales",
		Drills:   []schema.LevelName{stateLN()},
		Measures: []string{"Nonexistent"},
	}
	_, err := binder.Bind(&cube, q)
	require.Error(t, err)
}

func TestBindDuplicateDrillsCollapse(t *testing.T) {
	cube := salesCube()
	q := logiclayer.ResolvedQuery{
		Cube:     "Sales",
		Drills:   []schema.LevelName{countyLN(), countyLN()},
		Measures: []string{"Revenue"},
	}
	bound, err := binder.Bind(&cube, q)
	require.NoError(t, err)
	require.Len(t, bound.Drilldowns, 1)
}
