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

// Package memsql is an in-process backend.Backend over literal row sets,
// used by the cache, resolver, engine and server test suites. It does not
// parse SQL: it recognizes the handful of statement
// shapes the core itself ever issues (the cache's probing SELECTs) and
// otherwise serves canned responses registered ahead of time, in the
// teacher's in-memory test-table idiom (mem/memory packages).
package memsql

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/suharev7/tesseract/backend"
)

// Table is a literal, named row set.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

func (t *Table) columnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Backend is an in-memory backend.Backend. It answers SELECT DISTINCT
// probes issued by the cache package directly against registered Tables,
// and otherwise looks up a canned Result registered via Stub for any other
// query text (exact match), falling back to an empty Result.
type Backend struct {
	mu     sync.RWMutex
	tables map[string]*Table
	stubs  map[string]*backend.Result
}

// New returns an empty Backend.
func New() *Backend {
	return &Backend{
		tables: map[string]*Table{},
		stubs:  map[string]*backend.Result{},
	}
}

// AddTable registers a literal table by name.
func (b *Backend) AddTable(t *Table) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tables[t.Name] = t
}

// Stub registers a canned Result for an exact query string, for tests that
// want to control the final-execution step without modeling a full table.
func (b *Backend) Stub(query string, result *backend.Result) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stubs[query] = result
}

// ExecSQL implements backend.Backend.
func (b *Backend) ExecSQL(ctx context.Context, query string) (*backend.Result, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if stub, ok := b.stubs[query]; ok {
		return stub, nil
	}

	if res, ok := b.tryDistinct(query); ok {
		return res, nil
	}

	return &backend.Result{}, nil
}

// tryDistinct recognizes "select distinct <cols> from <table> [...]" -
// the only statement shape the cache package ever issues against a
// Backend - and evaluates it directly against a registered Table.
func (b *Backend) tryDistinct(query string) (*backend.Result, bool) {
	lower := strings.ToLower(query)
	if !strings.HasPrefix(lower, "select distinct") {
		return nil, false
	}

	fromIdx := strings.Index(lower, " from ")
	if fromIdx == -1 {
		return nil, false
	}
	colsPart := strings.TrimSpace(query[len("select distinct"):fromIdx])
	cols := splitCommaTrim(colsPart)

	rest := strings.TrimSpace(query[fromIdx+len(" from "):])
	tableName := rest
	if sp := strings.IndexAny(rest, " \t"); sp != -1 {
		tableName = rest[:sp]
	}

	tbl, ok := b.tables[tableName]
	if !ok {
		return nil, false
	}

	idxs := make([]int, len(cols))
	for i, c := range cols {
		idxs[i] = tbl.columnIndex(c)
	}

	seen := map[string]bool{}
	var outRows [][]string
	for _, row := range tbl.Rows {
		key := ""
		vals := make([]string, len(idxs))
		for i, idx := range idxs {
			if idx >= 0 && idx < len(row) {
				vals[i] = row[idx]
			}
			key += vals[i] + "\x00"
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		outRows = append(outRows, vals)
	}

	sort.Slice(outRows, func(i, j int) bool {
		for k := range outRows[i] {
			if outRows[i][k] != outRows[j][k] {
				return outRows[i][k] < outRows[j][k]
			}
		}
		return false
	})

	return &backend.Result{Columns: cols, Rows: outRows}, true
}

func splitCommaTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}
