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

package backend_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suharev7/tesseract/backend"
)

func TestRegistryUnsupportedBackend(t *testing.T) {
	reg := backend.NewRegistry()
	reg.Register("clickhouse", backend.ColumnStoreDialect{})

	d, err := reg.Dialect("clickhouse")
	require.NoError(t, err)
	require.Equal(t, "select 1 ALL INNER JOIN x", d.Rewrite("select 1 ALL INNER JOIN x"))

	_, err = reg.Dialect("mysql")
	require.True(t, backend.ErrUnsupportedBackend.Is(err))
}

func TestRowStoreDialectRewrite(t *testing.T) {
	d := backend.RowStoreDialect{}
	got := d.Rewrite("select `a` from t ALL INNER JOIN (select 1) using x")
	require.Equal(t, `select "a" from t INNER JOIN (select 1) using x`, got)
}

func TestResultColumn(t *testing.T) {
	r := &backend.Result{
		Columns: []string{"state_key", "revenue"},
		Rows: [][]string{
			{"01", "100"},
			{"06", "200"},
		},
	}
	require.Equal(t, []string{"01", "06"}, r.Column("state_key"))
	require.Nil(t, r.Column("missing"))
}
