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

package memsql_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suharev7/tesseract/backend"
	"github.com/suharev7/tesseract/backend/memsql"
)

func TestExecSQLDistinctProbe(t *testing.T) {
	b := memsql.New()
	b.AddTable(&memsql.Table{
		Name:    "dim_time",
		Columns: []string{"year_id", "year_key"},
		Rows: [][]string{
			{"1", "2019"},
			{"2", "2018"},
			{"3", "2020"},
			{"4", "2019"},
		},
	})

	res, err := b.ExecSQL(context.Background(), "select distinct year_key from dim_time")
	require.NoError(t, err)
	require.Equal(t, []string{"2018", "2019", "2020"}, res.Column("year_key"))
}

func TestExecSQLStub(t *testing.T) {
	b := memsql.New()
	want := &backend.Result{Columns: []string{"x"}, Rows: [][]string{{"1"}}}
	b.Stub("select 1", want)

	res, err := b.ExecSQL(context.Background(), "select 1")
	require.NoError(t, err)
	require.Same(t, want, res)
}

func TestExecSQLRespectsCancellation(t *testing.T) {
	b := memsql.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.ExecSQL(ctx, "select 1")
	require.Error(t, err)
}
