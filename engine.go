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

// Package tesseract is the embeddable entry point for the query-resolution
// core: it wires schema, config, cache and backend together and exposes
// one call, Query, that carries a permissive logic-layer request all the
// way to an executed, column-joined result. server.Server is a thin HTTP
// shell around the same collaborators; anything that wants the core
// without the transport layer uses Engine directly.
package tesseract

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/suharev7/tesseract/backend"
	"github.com/suharev7/tesseract/binder"
	"github.com/suharev7/tesseract/cache"
	"github.com/suharev7/tesseract/config"
	"github.com/suharev7/tesseract/geoservice"
	"github.com/suharev7/tesseract/logiclayer"
	"github.com/suharev7/tesseract/schema"
	"github.com/suharev7/tesseract/sqlgen"
)

// Config bundles every collaborator an Engine needs. Catalog and Backend
// are required; Dialect, LogicLayer, Geo, NeighborWindow and Log each fall
// back to a sensible default when left zero.
type Config struct {
	Catalog *schema.Catalog
	Backend backend.Backend
	Dialect backend.Dialect

	LogicLayer     *config.Config
	Geo            *geoservice.Client
	NeighborWindow int
	Log            *logrus.Logger
}

// Engine is the read-mostly query-resolution core: a schema catalog, a
// cube cache built against a backend, and the resolver/binder/generator
// pipeline that turns a Request into an executed, joined Table.
type Engine struct {
	catalog *schema.Catalog
	back    backend.Backend
	dialect backend.Dialect
	cfg     *config.Config
	geo     *geoservice.Client
	window  int
	log     *logrus.Logger

	cacheMu sync.RWMutex
	cache   *cache.Cache
}

// New constructs an Engine from cfg. Call Reload once before Query to
// populate the cube cache.
func New(cfg Config) *Engine {
	e := &Engine{
		catalog: cfg.Catalog,
		back:    cfg.Backend,
		dialect: cfg.Dialect,
		cfg:     cfg.LogicLayer,
		geo:     cfg.Geo,
		window:  cfg.NeighborWindow,
		log:     cfg.Log,
	}
	if e.dialect == nil {
		e.dialect = backend.ColumnStoreDialect{}
	}
	if e.cfg == nil {
		e.cfg = config.New()
	}
	if e.log == nil {
		e.log = logrus.StandardLogger()
	}
	return e
}

// Reload rebuilds the cube cache from the catalog's current snapshot and
// swaps it in atomically, same as server.Server.Reload. If the schema
// snapshot is structurally identical to the one the current cache was
// built from, the (potentially expensive) backend probing is skipped
// entirely - useful when flush is triggered speculatively rather than in
// direct response to a known schema change.
func (e *Engine) Reload(ctx context.Context) error {
	cubes := e.catalog.Snapshot()

	if current := e.currentCache(); current != nil {
		hash, err := cache.HashCubes(cubes)
		if err == nil && hash == current.SchemaHash {
			return nil
		}
	}

	builder := cache.NewBuilder(e.back, e.cfg)
	if e.window > 0 {
		builder.NeighborWindow = e.window
	}
	builder.Log = e.log

	built, err := builder.Build(ctx, cubes)
	if err != nil {
		return err
	}

	e.cacheMu.Lock()
	e.cache = built
	e.cacheMu.Unlock()
	return nil
}

func (e *Engine) currentCache() *cache.Cache {
	e.cacheMu.RLock()
	defer e.cacheMu.RUnlock()
	return e.cache
}

// Cache exposes the cube cache currently in effect, for callers (such as
// the HTTP transport's members endpoint) that need to look up a level's
// cache-computed short name outside of Query.
func (e *Engine) Cache() *cache.Cache {
	return e.currentCache()
}

// Catalog exposes the schema catalog backing this engine.
func (e *Engine) Catalog() *schema.Catalog {
	return e.catalog
}

// Backend exposes the SQL backend this engine executes against, for
// callers that need to run a query outside of the resolve/bind/generate
// pipeline (e.g. a members listing).
func (e *Engine) Backend() backend.Backend {
	return e.back
}

// LogicLayerConfig exposes the logic-layer config this engine resolves
// requests against.
func (e *Engine) LogicLayerConfig() *config.Config {
	return e.cfg
}

// Table is one joined, header-renamed result: the column order a Query
// call settles on, and every internal query's rows concatenated into it
// in resolver emission order.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Query drives the full pipeline for req: resolve the permissive request
// against the current cube cache, bind and generate SQL for every internal
// query the resolver's cartesian expansion produces, execute them
// concurrently against the backend, and join the results back into one
// Table under the resolver's header-rename map.
func (e *Engine) Query(ctx context.Context, req logiclayer.Request) (*Table, error) {
	cubes := e.catalog.Snapshot()

	// e.geo is a *geoservice.Client; passed directly it would box a typed
	// nil into the Geoservice interface, which compares != nil even when
	// unset. Only wrap it when a client was actually configured, so the
	// resolver's own nil check (no geo-service configured) works.
	var geo logiclayer.Geoservice
	if e.geo != nil {
		geo = e.geo
	}
	resolver := logiclayer.New(e.cfg, e.currentCache(), geo)

	queries, rename, err := resolver.Resolve(ctx, cubes, req)
	if err != nil {
		return nil, err
	}

	cube, err := schema.CubeByName(cubes, e.cfg.CanonicalCube(req.Cube))
	if err != nil {
		return nil, err
	}

	results := make([]*backend.Result, len(queries))
	headers := make([][]string, len(queries))
	errs := make([]error, len(queries))

	var wg sync.WaitGroup
	for i, q := range queries {
		i, q := i, q
		wg.Add(1)
		go func() {
			defer wg.Done()
			bound, err := binder.Bind(cube, q)
			if err != nil {
				errs[i] = err
				return
			}
			headers[i] = bound.Headers
			stmt, err := sqlgen.GenerateForDialect(bound, nil, e.dialect)
			if err != nil {
				errs[i] = err
				return
			}
			res, err := e.back.ExecSQL(ctx, stmt)
			if err != nil {
				errs[i] = backend.ErrBackendError.New(errors.Wrap(err, "exec sql").Error())
				return
			}
			results[i] = res
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return joinTable(results, headers, rename), nil
}

func joinTable(results []*backend.Result, headers [][]string, rename map[string]string) *Table {
	out := &Table{}
	seen := map[string]int{}

	for i, res := range results {
		if res == nil {
			continue
		}
		renamedCols := make([]string, len(headers[i]))
		for j, h := range headers[i] {
			renamedCols[j] = renameColumn(h, rename)
		}
		if len(out.Columns) == 0 {
			out.Columns = renamedCols
			for idx, c := range out.Columns {
				seen[c] = idx
			}
		}

		colIdx := make([]int, len(renamedCols))
		for j, c := range renamedCols {
			idx, ok := seen[c]
			if !ok {
				idx = len(out.Columns)
				out.Columns = append(out.Columns, c)
				seen[c] = idx
			}
			colIdx[j] = idx
		}

		for _, row := range res.Rows {
			outRow := make([]string, len(out.Columns))
			for j, v := range row {
				if j < len(colIdx) {
					outRow[colIdx[j]] = v
				}
			}
			out.Rows = append(out.Rows, outRow)
		}
	}
	return out
}

func renameColumn(header string, rename map[string]string) string {
	if renamed, ok := rename[header]; ok {
		return renamed
	}
	const idSuffix = " ID"
	if len(header) > len(idSuffix) && header[len(header)-len(idSuffix):] == idSuffix {
		base := header[:len(header)-len(idSuffix)]
		if renamed, ok := rename[base]; ok {
			return renamed + idSuffix
		}
	}
	return header
}
