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
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strings"
)

// table is a rectangular result ready for formatting: the column order and
// rows a handler settled on, whether from the engine's joined Query result
// or a direct members/backend lookup.
type table struct {
	Columns []string
	Rows    [][]string
}

func writeJSONRecords(w http.ResponseWriter, t *table) {
	w.Header().Set("Content-Type", "application/json")
	records := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]string, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		records = append(records, rec)
	}
	_ = json.NewEncoder(w).Encode(struct {
		Data []map[string]string `json:"data"`
	}{Data: records})
}

func writeCSV(w http.ResponseWriter, t *table) {
	w.Header().Set("Content-Type", "text/csv")
	cw := csv.NewWriter(w)
	_ = cw.Write(t.Columns)
	for _, row := range t.Rows {
		_ = cw.Write(row)
	}
	cw.Flush()
}

// writeTable dispatches on the path-suffix format: ".csv" for CSV,
// anything else (including no suffix) for JSON records - the only two
// formats the core commits to producing deterministically (SPEC_FULL.md
// §6's "bit-exact output").
func writeTable(w http.ResponseWriter, t *table, format string) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "csv":
		writeCSV(w, t)
	default:
		writeJSONRecords(w, t)
	}
}
