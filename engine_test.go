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

package tesseract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suharev7/tesseract/backend"
	"github.com/suharev7/tesseract/backend/memsql"
	"github.com/suharev7/tesseract/binder"
	"github.com/suharev7/tesseract/logiclayer"
	"github.com/suharev7/tesseract/schema"
	"github.com/suharev7/tesseract/sqlgen"
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
		},
		Measures: []schema.Measure{
			{Name: "Revenue", Column: "revenue", Aggregator: schema.AggSum},
		},
	}
}

func newTestEngine(t *testing.T) (*Engine, *memsql.Backend) {
	t.Helper()
	cat := schema.NewCatalog()
	require.NoError(t, cat.Load([]schema.Cube{salesCube()}))

	be := memsql.New()
	e := New(Config{Catalog: cat, Backend: be})
	require.NoError(t, e.Reload(context.Background()))
	return e, be
}

func TestQueryEndToEndJoinsAndExecutes(t *testing.T) {
	e, be := newTestEngine(t)

	cube := salesCube()
	q := logiclayer.ResolvedQuery{
		Drills:   []schema.LevelName{{Dimension: "Geography", Hierarchy: "Geography", Level: "County"}},
		Measures: []string{"Revenue"},
	}
	bound, err := binder.Bind(&cube, q)
	require.NoError(t, err)
	stmt, err := sqlgen.Generate(bound, nil)
	require.NoError(t, err)

	be.Stub(stmt, &backend.Result{
		Columns: bound.Headers,
		Rows: [][]string{
			{"01001", "Autauga", "1000"},
			{"01003", "Baldwin", "2000"},
		},
	})

	out, err := e.Query(context.Background(), logiclayer.Request{
		Cube:       "Sales",
		Drilldowns: "County",
		Measures:   []string{"Revenue"},
	})
	require.NoError(t, err)
	require.Len(t, out.Rows, 2)
	require.Equal(t, "Autauga", out.Rows[0][columnIndex(out.Columns, "County")])
	require.Equal(t, "1000", out.Rows[0][columnIndex(out.Columns, "Revenue")])
}

func TestQueryMissingMeasureIsError(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Query(context.Background(), logiclayer.Request{Cube: "Sales", Drilldowns: "County"})
	require.Error(t, err)
}

// TestQueryWithoutGeoserviceDoesNotPanic checks that an Engine built with
// no geo-service client (e.geo nil) runs a query to completion. The query
// carries no cut, so the resolver's :neighbors path is not reached here.
func TestQueryWithoutGeoserviceDoesNotPanic(t *testing.T) {
	e, _ := newTestEngine(t)
	require.Nil(t, e.geo)
	_, err := e.Query(context.Background(), logiclayer.Request{
		Cube: "Sales", Drilldowns: "County", Measures: []string{"Revenue"},
	})
	require.NoError(t, err)
}

func TestRenameColumnAppliesDimensionRename(t *testing.T) {
	rename := map[string]string{"State": "Geography"}
	require.Equal(t, "Geography ID", renameColumn("State ID", rename))
	require.Equal(t, "Geography", renameColumn("State", rename))
	require.Equal(t, "Revenue", renameColumn("Revenue", rename))
}

func TestJoinTableConcatenatesInOrderAndRenamesColumns(t *testing.T) {
	results := []*backend.Result{
		{Columns: []string{"State ID", "State", "Revenue"}, Rows: [][]string{{"01", "Alabama", "100"}}},
		{Columns: []string{"County ID", "County", "Revenue"}, Rows: [][]string{{"01001", "Autauga", "50"}}},
	}
	headers := [][]string{
		{"State ID", "State", "Revenue"},
		{"County ID", "County", "Revenue"},
	}
	rename := map[string]string{"State": "Geography", "County": "Geography"}

	out := joinTable(results, headers, rename)
	require.Equal(t, []string{"Geography ID", "Geography", "Revenue"}, out.Columns)
	require.Len(t, out.Rows, 2)
	require.Equal(t, []string{"01", "Alabama", "100"}, out.Rows[0])
	require.Equal(t, []string{"01001", "Autauga", "50"}, out.Rows[1])
}

func columnIndex(cols []string, name string) int {
	for i, c := range cols {
		if c == name {
			return i
		}
	}
	return -1
}
