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

// Package backend declares the narrow interface the core calls through to
// reach a concrete SQL back-end: issuing a query and rewriting generated
// SQL to a specific dialect. Row decoding, connection pooling and result
// formatting are the concrete back-end's problem, not the core's.
package backend

import (
	"context"

	"gopkg.in/src-d/go-errors.v1"
)

// ErrBackendError wraps any failure surfaced by a concrete Backend
// implementation.
var ErrBackendError = errors.NewKind("backend error: %s")

// ErrUnsupportedBackend is returned by a Registry when asked for a dialect
// it has no entry for. In particular, a backend named "mysql" is not
// silently routed through the column-store dialect - see the Resolved
// Open Questions in SPEC_FULL.md.
var ErrUnsupportedBackend = errors.NewKind("unsupported backend: %q")

// Result is the minimal column-name + row-value table the cache prober and
// tests need. Concrete row decoding/marshaling for the response formats
// (CSV, JSON records) is an external collaborator's job.
type Result struct {
	Columns []string
	Rows    [][]string
}

// Column returns the values of a named column, or nil if the column is not
// present.
func (r *Result) Column(name string) []string {
	idx := -1
	for i, c := range r.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}
	vals := make([]string, len(r.Rows))
	for i, row := range r.Rows {
		if idx < len(row) {
			vals[i] = row[idx]
		}
	}
	return vals
}

// Backend executes a single SQL statement and returns its result table.
// Implementations must respect ctx cancellation: a canceled context should
// abort the in-flight query and return ctx.Err() (or a wrapped form of it).
type Backend interface {
	ExecSQL(ctx context.Context, query string) (*Result, error)
}

// Dialect rewrites generator output - which is emitted in a single
// canonical pre-dialect form - into the token spelling a concrete back-end
// expects (e.g. "ALL INNER JOIN" vs "INNER JOIN", identifier quoting).
type Dialect interface {
	Rewrite(sql string) string
}

// Registry maps a back-end name to its Dialect. It holds no Backend
// instances - those are wired by the caller (e.g. cmd/tesseractd) per
// connection, since they carry live connections/credentials.
type Registry struct {
	dialects map[string]Dialect
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{dialects: map[string]Dialect{}}
}

// Register associates a dialect with a back-end name.
func (r *Registry) Register(name string, d Dialect) {
	r.dialects[name] = d
}

// Dialect returns the dialect registered for name, or ErrUnsupportedBackend
// if none was registered.
func (r *Registry) Dialect(name string) (Dialect, error) {
	d, ok := r.dialects[name]
	if !ok {
		return nil, ErrUnsupportedBackend.New(name)
	}
	return d, nil
}
