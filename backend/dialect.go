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

package backend

import "strings"

// ColumnStoreDialect keeps the generator's native spelling: "ALL INNER
// JOIN" (ClickHouse-style duplicate-tolerant join) and backtick-quoted
// identifiers.
type ColumnStoreDialect struct{}

// Rewrite implements Dialect. The generator already emits this spelling,
// so this is the identity transform; it exists to make the dialect
// explicit at the call site rather than implicit.
func (ColumnStoreDialect) Rewrite(sql string) string {
	return sql
}

// RowStoreDialect targets a conventional row-store engine: "ALL INNER
// JOIN" has no meaning there, so it is rewritten to a plain "INNER JOIN",
// and identifiers are double-quoted instead of backtick-quoted.
type RowStoreDialect struct{}

// Rewrite implements Dialect.
func (RowStoreDialect) Rewrite(sql string) string {
	sql = strings.ReplaceAll(sql, "ALL INNER JOIN", "INNER JOIN")
	sql = strings.ReplaceAll(sql, "`", `"`)
	return sql
}
