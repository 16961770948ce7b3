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

package logiclayer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suharev7/tesseract/backend/memsql"
	"github.com/suharev7/tesseract/cache"
	"github.com/suharev7/tesseract/config"
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

func backendWithData() *memsql.Backend {
	b := memsql.New()
	b.AddTable(&memsql.Table{
		Name:    "dim_geography",
		Columns: []string{"state_key", "state_name", "county_key", "county_name"},
		Rows: [][]string{
			{"01", "Alabama", "01001", "Autauga"},
			{"01", "Alabama", "01003", "Baldwin"},
			{"06", "California", "06001", "Alameda"},
		},
	})
	b.AddTable(&memsql.Table{
		Name:    "dim_time",
		Columns: []string{"year_id", "year_key"},
		Rows: [][]string{
			{"1", "2018"},
			{"2", "2019"},
			{"3", "2020"},
		},
	})
	return b
}

func buildResolver(t *testing.T, cubes []schema.Cube, cfg *config.Config) *logiclayer.Resolver {
	t.Helper()
	builder := cache.NewBuilder(backendWithData(), cfg)
	builder.Log = nil
	c, err := builder.Build(context.Background(), cubes)
	require.NoError(t, err)
	return logiclayer.New(cfg, c, nil)
}

func TestResolveTimeRoundTrip(t *testing.T) {
	cubes := []schema.Cube{salesCube()}
	r := buildResolver(t, cubes, config.New())

	req := logiclayer.Request{
		Cube:     "Sales",
		Time:     "year.latest",
		Measures: []string{"Revenue"},
	}
	queries, _, err := r.Resolve(context.Background(), cubes, req)
	require.NoError(t, err)
	require.Len(t, queries, 1)

	yearLN := schema.LevelName{Dimension: "Time", Hierarchy: "Time", Level: "Year"}
	require.Equal(t, []string{"2020"}, queries[0].Cuts[yearLN])
}

func TestResolveMultiLevelCutExpandsCartesian(t *testing.T) {
	cubes := []schema.Cube{salesCube()}
	r := buildResolver(t, cubes, config.New())

	req := logiclayer.Request{
		Cube: "Sales",
		Cuts: map[string]string{
			"State":  "01",
			"County": "01001",
		},
		Measures: []string{"Revenue"},
	}
	queries, headerRename, err := r.Resolve(context.Background(), cubes, req)
	require.NoError(t, err)
	require.Len(t, queries, 2)

	stateLN := schema.LevelName{Dimension: "Geography", Hierarchy: "Geography", Level: "State"}
	countyLN := schema.LevelName{Dimension: "Geography", Hierarchy: "Geography", Level: "County"}

	var sawState, sawCounty bool
	for _, q := range queries {
		if ids, ok := q.Cuts[stateLN]; ok {
			sawState = true
			require.Equal(t, []string{"01"}, ids)
			require.Contains(t, q.Drills, stateLN)
		}
		if ids, ok := q.Cuts[countyLN]; ok {
			sawCounty = true
			require.Equal(t, []string{"01001"}, ids)
			require.Contains(t, q.Drills, countyLN)
		}
	}
	require.True(t, sawState)
	require.True(t, sawCounty)

	// Since both dimension levels were cut, header rename is NOT suppressed
	// for either (the dimension has more than one distinct cut level).
	require.Equal(t, "Geography", headerRename["State"])
	require.Equal(t, "Geography", headerRename["County"])
}

func TestResolveSingleCutLevelSuppressesHeaderRename(t *testing.T) {
	cubes := []schema.Cube{salesCube()}
	r := buildResolver(t, cubes, config.New())

	req := logiclayer.Request{
		Cube:     "Sales",
		Cuts:     map[string]string{"State": "01"},
		Measures: []string{"Revenue"},
	}
	_, headerRename, err := r.Resolve(context.Background(), cubes, req)
	require.NoError(t, err)
	_, present := headerRename["State"]
	require.False(t, present)
}

func TestResolveDimensionCutWithNoMemberMatchIsDropped(t *testing.T) {
	cube := salesCube()
	r := buildResolver(t, []schema.Cube{cube}, config.New())

	// An id that does not appear in the backend at all should be silently
	// dropped rather than erroring; with nothing left to cut or drill, the
	// overall request still fails its "at least one drill or cut" check.
	req := logiclayer.Request{
		Cube:     "Sales",
		Cuts:     map[string]string{"Geography": "99999"},
		Measures: []string{"Revenue"},
	}
	_, _, err := r.Resolve(context.Background(), []schema.Cube{cube}, req)
	require.Error(t, err) // neither drill nor cut survives
}

func TestResolveDimensionNameCutDoesNotSuppressHeaderRename(t *testing.T) {
	cubes := []schema.Cube{salesCube()}
	r := buildResolver(t, cubes, config.New())

	// "Geography" is the dimension name, not a level short name, so this
	// cut resolves via the dimension's member reverse index rather than
	// cc.LevelShortNames - even though it narrows to the single County
	// level, the header rename to "Geography" must survive.
	req := logiclayer.Request{
		Cube:     "Sales",
		Cuts:     map[string]string{"Geography": "01:children"},
		Measures: []string{"Revenue"},
	}
	queries, headerRename, err := r.Resolve(context.Background(), cubes, req)
	require.NoError(t, err)
	require.Len(t, queries, 1)

	countyLN := schema.LevelName{Dimension: "Geography", Hierarchy: "Geography", Level: "County"}
	require.ElementsMatch(t, []string{"01001", "01003"}, queries[0].Cuts[countyLN])
	require.Equal(t, "Geography", headerRename["County"])
}

func TestResolveChildrenOperator(t *testing.T) {
	cubes := []schema.Cube{salesCube()}
	r := buildResolver(t, cubes, config.New())

	req := logiclayer.Request{
		Cube:     "Sales",
		Cuts:     map[string]string{"State": "01:children"},
		Measures: []string{"Revenue"},
	}
	queries, _, err := r.Resolve(context.Background(), cubes, req)
	require.NoError(t, err)
	require.Len(t, queries, 1)

	countyLN := schema.LevelName{Dimension: "Geography", Hierarchy: "Geography", Level: "County"}
	require.ElementsMatch(t, []string{"01001", "01003"}, queries[0].Cuts[countyLN])
}

func TestResolveParentsOperator(t *testing.T) {
	cubes := []schema.Cube{salesCube()}
	r := buildResolver(t, cubes, config.New())

	req := logiclayer.Request{
		Cube:     "Sales",
		Cuts:     map[string]string{"County": "01001:parents"},
		Measures: []string{"Revenue"},
	}
	queries, _, err := r.Resolve(context.Background(), cubes, req)
	require.NoError(t, err)
	require.Len(t, queries, 1)

	stateLN := schema.LevelName{Dimension: "Geography", Hierarchy: "Geography", Level: "State"}
	require.Equal(t, []string{"01"}, queries[0].Cuts[stateLN])
}

func TestResolveMissingMeasureIsError(t *testing.T) {
	cubes := []schema.Cube{salesCube()}
	r := buildResolver(t, cubes, config.New())

	req := logiclayer.Request{Cube: "Sales", Drilldowns: "State"}
	_, _, err := r.Resolve(context.Background(), cubes, req)
	require.Error(t, err)
}

func TestResolveNamedSetExpansion(t *testing.T) {
	cubes := []schema.Cube{salesCube()}
	cfg := config.New()
	cfg.NamedSets["Sales"] = map[string][]string{"south": {"01"}}

	r := buildResolver(t, cubes, cfg)
	req := logiclayer.Request{
		Cube:     "Sales",
		Cuts:     map[string]string{"State": "south"},
		Measures: []string{"Revenue"},
	}
	queries, _, err := r.Resolve(context.Background(), cubes, req)
	require.NoError(t, err)
	require.Len(t, queries, 1)

	stateLN := schema.LevelName{Dimension: "Geography", Hierarchy: "Geography", Level: "State"}
	require.Equal(t, []string{"01"}, queries[0].Cuts[stateLN])
}

func TestResolveDrilldownBracketSplitting(t *testing.T) {
	cubes := []schema.Cube{salesCube()}
	r := buildResolver(t, cubes, config.New())

	req := logiclayer.Request{
		Cube:       "Sales",
		Drilldowns: "State,[County]",
		Measures:   []string{"Revenue"},
	}
	queries, _, err := r.Resolve(context.Background(), cubes, req)
	require.NoError(t, err)
	require.Len(t, queries, 1)
	require.Len(t, queries[0].Drills, 2)
}

func TestResolveCubeAlias(t *testing.T) {
	cubes := []schema.Cube{salesCube()}
	cfg := config.New()
	cfg.Aliases["sales"] = "Sales"

	r := buildResolver(t, cubes, cfg)
	req := logiclayer.Request{
		Cube:       "sales",
		Drilldowns: "State",
		Measures:   []string{"Revenue"},
	}
	queries, _, err := r.Resolve(context.Background(), cubes, req)
	require.NoError(t, err)
	require.Len(t, queries, 1)
	require.Equal(t, "Sales", queries[0].Cube)
}
