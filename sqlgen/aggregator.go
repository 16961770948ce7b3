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
	"fmt"

	"github.com/suharev7/tesseract/schema"
)

// measureSlots is how many pass-1 column slots (m<i>) a measure's
// aggregator consumes: one for a one-pass-safe aggregator or a
// count-distinct proxy, two for the average-like sum+count split.
func measureSlots(agg schema.Aggregator) int {
	if agg == schema.AggAvg {
		return 2
	}
	return 1
}

// pass1Expr renders the pass-1 (fact-aggregate) SQL expression(s) for one
// measure, consuming slot indices starting at idx. Returns the SELECT
// fragments to join with ", ".
func pass1Expr(agg schema.Aggregator, column string, idx int) []string {
	switch agg {
	case schema.AggSum, schema.AggMin, schema.AggMax, schema.AggCount:
		return []string{fmt.Sprintf("%s(%s) AS m%d", sqlAggFunc(agg), column, idx)}
	case schema.AggAvg:
		return []string{
			fmt.Sprintf("sum(%s) AS m%d", column, idx),
			fmt.Sprintf("count(%s) AS m%d", column, idx+1),
		}
	case schema.AggCountDistinct:
		// Approximated: the raw column is carried through the star join
		// unaggregated, as a per-group set proxy, matching the source's
		// own documented limitation rather than fixing it here.
		return []string{fmt.Sprintf("%s AS m%d", column, idx)}
	default:
		return []string{fmt.Sprintf("%s(%s) AS m%d", sqlAggFunc(agg), column, idx)}
	}
}

// pass2Expr renders the pass-4 (final re-aggregate) SQL expression for one
// measure, given the slot indices its pass1Expr consumed.
func pass2Expr(agg schema.Aggregator, idx int, outputName string) string {
	switch agg {
	case schema.AggAvg:
		return fmt.Sprintf("sum(m%d)/sum(m%d) AS `%s`", idx, idx+1, outputName)
	case schema.AggCountDistinct:
		return fmt.Sprintf("count(distinct m%d) AS `%s`", idx, outputName)
	default:
		return fmt.Sprintf("%s(m%d) AS `%s`", sqlAggFunc(agg), idx, outputName)
	}
}

func sqlAggFunc(agg schema.Aggregator) string {
	switch agg {
	case schema.AggSum:
		return "sum"
	case schema.AggMin:
		return "min"
	case schema.AggMax:
		return "max"
	case schema.AggCount:
		return "count"
	default:
		return "sum"
	}
}
