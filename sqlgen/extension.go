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

import "github.com/suharev7/tesseract/binder"

// pairCutWithDrill reports whether cut and drill share a dimension. It is
// the correct predicate for pushing an external cut into its dimension's
// Pass 1 subquery instead of applying it at the fact table - but it is
// never called from Generate. Doing so would let a cut on one level of a
// dimension silently narrow a count-distinct proxy column projected from
// a different level of the same dimension, which is worse than the
// current "approximated" semantics, not better. Left here as the
// documented extension point; extension_test.go covers the predicate
// itself.
func pairCutWithDrill(cut binder.CutSql, drill binder.DrilldownSql) bool {
	return cut.LevelName.Dimension == drill.LevelName.Dimension
}
