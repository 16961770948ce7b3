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

package server

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gorilla/mux"

	"github.com/suharev7/tesseract/backend"
	"github.com/suharev7/tesseract/logiclayer"
	"github.com/suharev7/tesseract/schema"
)

// reservedQueryKeys are the logic-layer request's own parameters; every
// other query key is treated as a cut.
var reservedQueryKeys = map[string]bool{
	"drilldowns": true, "time": true, "measures": true, "properties": true,
	"parents": true, "top": true, "top_where": true, "sort": true,
	"limit": true, "growth": true, "rca": true, "rate": true,
	"filters": true, "debug": true, "sparse": true,
	"exclude_default_members": true, "locale": true,
}

func (s *Server) handleListCubes(w http.ResponseWriter, r *http.Request) {
	cubes := s.Catalog.Snapshot()
	type summary struct {
		Name           string `json:"name"`
		DimensionCount int    `json:"dimension_count"`
		MeasureCount   int    `json:"measure_count"`
	}
	out := make([]summary, 0, len(cubes))
	for _, c := range cubes {
		out = append(out, summary{Name: c.Name, DimensionCount: len(c.Dimensions), MeasureCount: len(c.Measures)})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (s *Server) handleGetCube(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	cube, err := s.Catalog.CubeByName(name)
	if err != nil {
		writeError(w, err, isDebug(r))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(cube)
}

// handleMembers materializes a level's distinct member keys (and, when
// present, display names) by querying the backend directly - the same
// "select distinct ... from ..." shape cache.Builder uses to probe a
// level at cache-construction time, just scoped to one level on demand.
func (s *Server) handleMembers(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	levelName := r.URL.Query().Get("level")
	if levelName == "" {
		writeError(w, schema.ErrMalformedArgument.New("level", "missing"), isDebug(r))
		return
	}

	cube, err := s.Catalog.CubeByName(name)
	if err != nil {
		writeError(w, err, isDebug(r))
		return
	}
	cc, ok := s.engine.Cache().CubeCache(name)
	if !ok {
		writeError(w, schema.ErrUnknownName.New("cube cache", name), isDebug(r))
		return
	}
	ln, ok := cc.LevelShortNames[levelName]
	if !ok {
		writeError(w, schema.ErrUnknownName.New("level", levelName), isDebug(r))
		return
	}
	level, hier, err := cube.LevelByName(ln)
	if err != nil {
		writeError(w, err, isDebug(r))
		return
	}

	cols := []string{level.KeyColumn}
	if level.HasNameColumn() {
		cols = append(cols, level.NameColumn)
	}

	if hier.Inline != nil {
		writeTable(w, inlineMembers(hier.Inline, cols), pathFormat(r.URL.Path))
		return
	}

	var tableName string
	switch {
	case hier.Table != nil:
		tableName = hier.Table.Name
	case hier.IsSameTableAsFact():
		tableName = cube.Table.Name
	default:
		writeError(w, schema.ErrMissingForeignKey.New(ln.Dimension), isDebug(r))
		return
	}
	query := fmt.Sprintf("select distinct %s from %s order by %s", strings.Join(cols, ", "), tableName, level.KeyColumn)

	res, err := s.engine.Backend().ExecSQL(r.Context(), query)
	if err != nil {
		writeError(w, backend.ErrBackendError.New(err.Error()), isDebug(r))
		return
	}
	writeTable(w, &table{Columns: res.Columns, Rows: res.Rows}, pathFormat(r.URL.Path))
}

// handleAggregate drives the engine's resolve -> bind -> generate ->
// execute pipeline for the request the query string describes, then
// writes the joined result in the path's requested format.
func (s *Server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	req := parseRequest(vars["cube"], r.URL.Query())

	result, err := s.engine.Query(r.Context(), req)
	if err != nil {
		writeError(w, err, req.Debug)
		return
	}
	writeTable(w, &table{Columns: result.Columns, Rows: result.Rows}, pathFormat(r.URL.Path))
}

// handleFlush rebuilds the cube cache through Reload; it does not re-read
// the schema or config files. It requires the
// shared secret, compared in constant time to avoid a timing oracle on an
// endpoint that, unlike the rest of the API, can mutate server-wide state.
func (s *Server) handleFlush(w http.ResponseWriter, r *http.Request) {
	if s.FlushSecret == "" {
		http.Error(w, "flush disabled", http.StatusForbidden)
		return
	}
	got := r.Header.Get("X-Flush-Secret")
	if subtle.ConstantTimeCompare([]byte(got), []byte(s.FlushSecret)) != 1 {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if err := s.Reload(r.Context()); err != nil {
		writeError(w, err, isDebug(r))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// inlineMembers projects cols out of an inline table's literal rows,
// deduplicating on the full projected tuple.
func inlineMembers(t *schema.InlineTable, cols []string) *table {
	idx := make([]int, len(cols))
	for i, c := range cols {
		idx[i] = -1
		for j, tc := range t.Columns {
			if tc == c {
				idx[i] = j
				break
			}
		}
	}
	out := &table{Columns: cols}
	seen := map[string]bool{}
	for _, row := range t.Rows {
		projected := make([]string, len(cols))
		for i, j := range idx {
			if j >= 0 && j < len(row) {
				projected[i] = row[j]
			}
		}
		key := strings.Join(projected, "\x00")
		if seen[key] {
			continue
		}
		seen[key] = true
		out.Rows = append(out.Rows, projected)
	}
	return out
}

func parseRequest(cube string, q map[string][]string) logiclayer.Request {
	get := func(key string) string {
		if vs, ok := q[key]; ok && len(vs) > 0 {
			return vs[0]
		}
		return ""
	}
	getList := func(key string) []string {
		v := get(key)
		if v == "" {
			return nil
		}
		return strings.Split(v, ",")
	}

	cuts := map[string]string{}
	var keys []string
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if reservedQueryKeys[k] {
			continue
		}
		cuts[k] = get(k)
	}

	return logiclayer.Request{
		Cube:                  cube,
		Drilldowns:            get("drilldowns"),
		Cuts:                  cuts,
		Time:                  get("time"),
		Measures:              getList("measures"),
		Properties:            getList("properties"),
		Parents:               get("parents") == "true",
		Top:                   get("top"),
		TopWhere:              get("top_where"),
		Sort:                  get("sort"),
		Limit:                 get("limit"),
		Growth:                get("growth"),
		RCA:                   get("rca"),
		Rate:                  get("rate"),
		Debug:                 get("debug") == "true",
		Sparse:                get("sparse") == "true",
		ExcludeDefaultMembers: get("exclude_default_members") == "true",
		Locale:                getList("locale"),
	}
}

func isDebug(r *http.Request) bool {
	return r.URL.Query().Get("debug") == "true"
}

// pathFormat extracts the "{format}" route variable the aggregate route
// captures (e.g. ".csv"), or "" when the request has no suffix.
func pathFormat(path string) string {
	idx := strings.LastIndex(path, ".")
	slash := strings.LastIndex(path, "/")
	if idx == -1 || idx < slash {
		return ""
	}
	return path[idx:]
}
