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

package schema_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suharev7/tesseract/schema"
)

func salesCube() schema.Cube {
	return schema.Cube{
		Name: "Sales",
		Table: schema.Table{
			Name:       "fact_sales",
			PrimaryKey: "id",
		},
		Dimensions: []schema.Dimension{
			{
				Name:       "Geography",
				ForeignKey: "geo_id",
				Hierarchies: []schema.Hierarchy{
					{
						Name:       "Geography",
						Table:      &schema.Table{Name: "dim_geography", PrimaryKey: "county_id"},
						PrimaryKey: "county_id",
						Levels: []schema.Level{
							{Name: "State", KeyColumn: "state_key", NameColumn: "state_name"},
							{Name: "County", KeyColumn: "county_key", NameColumn: "county_name"},
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

func TestCubeByName(t *testing.T) {
	cubes := []schema.Cube{salesCube()}

	cube, err := schema.CubeByName(cubes, "Sales")
	require.NoError(t, err)
	require.Equal(t, "Sales", cube.Name)

	_, err = schema.CubeByName(cubes, "Nope")
	require.True(t, schema.ErrUnknownName.Is(err))
}

func TestParentsOfLevelAndChildLevel(t *testing.T) {
	cube := salesCube()

	county := schema.LevelName{Dimension: "Geography", Hierarchy: "Geography", Level: "County"}
	parents, err := cube.ParentsOfLevel(county)
	require.NoError(t, err)
	require.Len(t, parents, 1)
	require.Equal(t, "State", parents[0].Name)

	state := schema.LevelName{Dimension: "Geography", Hierarchy: "Geography", Level: "State"}
	parents, err = cube.ParentsOfLevel(state)
	require.NoError(t, err)
	require.Empty(t, parents)

	child, err := cube.ChildLevel(state)
	require.NoError(t, err)
	require.NotNil(t, child)
	require.Equal(t, "County", child.Name)

	child, err = cube.ChildLevel(county)
	require.NoError(t, err)
	require.Nil(t, child)
}

func TestDepth(t *testing.T) {
	cube := salesCube()
	d, err := cube.Depth(schema.LevelName{Dimension: "Geography", Hierarchy: "Geography", Level: "County"})
	require.NoError(t, err)
	require.Equal(t, 1, d)
}

func TestValidateRejectsMissingForeignKey(t *testing.T) {
	cube := salesCube()
	cube.Dimensions[0].ForeignKey = ""

	err := schema.Validate([]schema.Cube{cube})
	require.Error(t, err)
}

func TestValidateRejectsDuplicateLevelNames(t *testing.T) {
	cube := salesCube()
	cube.Dimensions[0].Hierarchies[0].Levels = append(
		cube.Dimensions[0].Hierarchies[0].Levels,
		schema.Level{Name: "State", KeyColumn: "other_state_key"},
	)

	err := schema.Validate([]schema.Cube{cube})
	require.Error(t, err)
}
