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

package sqlgen

import (
	"github.com/suharev7/tesseract/backend"
	"github.com/suharev7/tesseract/binder"
)

// GenerateForDialect formats b and applies d's token rewriting in one
// step, for callers that have already resolved a concrete backend.Dialect
// (typically via backend.Registry.Dialect).
func GenerateForDialect(b *binder.Bound, hidden []binder.DrilldownSql, d backend.Dialect) (string, error) {
	sql, err := Generate(b, hidden)
	if err != nil {
		return "", err
	}
	return d.Rewrite(sql), nil
}
