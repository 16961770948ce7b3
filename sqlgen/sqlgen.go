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

// Package sqlgen formats a binder.Bound query into a single SQL string by
// a four-pass star-aggregation algorithm: per-dimension subqueries, a
// fact-table aggregate, a star join folding the two together, and a final
// re-aggregate over the externally visible drill columns. Output is
// emitted in one canonical pre-dialect spelling (backtick-quoted
// identifiers, "ALL INNER JOIN"); backend.Dialect converts it to a
// concrete back-end's token spelling.
package sqlgen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/suharev7/tesseract/binder"
	"github.com/suharev7/tesseract/schema"
)

// Generate formats b into SQL. hidden carries extra, already-bound drills
// that should fold into the fact aggregate's SELECT and GROUP BY (Pass 2)
// for internal disambiguation without being projected past it - used by
// add-on calculations like growth/RCA/rate, which are parsed but not
// executed here (SPEC_FULL.md §1 Non-goals); pass nil when there are
// none. A hidden drill's columns are selected directly off the fact row,
// the same as an inline drill, so its binder.DrilldownSql.Table must name
// the fact table (or be a level the binder otherwise resolved inline).
func Generate(b *binder.Bound, hidden []binder.DrilldownSql) (string, error) {
	if len(b.Drilldowns) == 0 && len(b.Cuts) == 0 {
		return "", fmt.Errorf("sqlgen: at least one drilldown or cut is required")
	}

	inlineDrills, externalDrills := splitDrills(b)
	inlineCuts, externalCuts := splitCuts(b)

	dims := buildDimSubqueries(b, externalDrills)
	offsets := measureSlotOffsets(b.Measures)

	factSQL := buildFactAggregate(b, inlineDrills, dims, inlineCuts, externalCuts, hidden, offsets)
	starJoined := foldStarJoin(factSQL, inlineAliases(inlineDrills), dims, b.Measures, offsets)
	return buildFinalAggregate(starJoined, b, offsets), nil
}

// inlineAliases lists the column aliases buildFactAggregate projects for
// inlineDrills, in the same order it builds them - needed so foldStarJoin
// carries them through every join pass instead of dropping them once a
// star join is introduced by an external dimension.
func inlineAliases(inlineDrills []binder.DrilldownSql) []string {
	var aliases []string
	for _, d := range inlineDrills {
		for _, lc := range d.LevelColumns {
			_, a := levelColSelectFragments(lc)
			aliases = append(aliases, a...)
		}
		for _, pc := range d.PropertyColumns {
			aliases = append(aliases, pc.Alias)
		}
	}
	return aliases
}

func splitDrills(b *binder.Bound) (inline, external []binder.DrilldownSql) {
	for _, d := range b.Drilldowns {
		if d.Table.Inline == nil && d.Table.Name == b.Table.Name {
			inline = append(inline, d)
		} else {
			external = append(external, d)
		}
	}
	return inline, external
}

func splitCuts(b *binder.Bound) (inline, external []binder.CutSql) {
	for _, c := range b.Cuts {
		if c.Table.Inline == nil && c.Table.Name == b.Table.Name {
			inline = append(inline, c)
		} else {
			external = append(external, c)
		}
	}
	return inline, external
}

// dimSubquery is the pass-1 output for every external drill sharing one
// dimension's foreign key.
type dimSubquery struct {
	ForeignKey string
	SQL        string
	Aliases    []string // plain (unquoted) alias names, in select order
}

// buildDimSubqueries implements Pass 1. External cuts are deliberately
// excluded here; they apply at the fact table in Pass 2.
func buildDimSubqueries(b *binder.Bound, externalDrills []binder.DrilldownSql) []dimSubquery {
	type group struct {
		tableSQL string
		cols     []string
		aliases  []string
		minIdx   int
	}
	groups := map[string]*group{}
	var order []string

	for idx, d := range externalDrills {
		g, ok := groups[d.ForeignKey]
		if !ok {
			g = &group{tableSQL: renderTableSource(d.Table), minIdx: idx}
			groups[d.ForeignKey] = g
			order = append(order, d.ForeignKey)
		}
		for _, lc := range d.LevelColumns {
			frag, aliases := levelColSelectFragments(lc)
			g.cols = append(g.cols, frag...)
			g.aliases = append(g.aliases, aliases...)
		}
		for _, pc := range d.PropertyColumns {
			g.cols = append(g.cols, fmt.Sprintf("%s AS `%s`", pc.Column, pc.Alias))
			g.aliases = append(g.aliases, pc.Alias)
		}
	}

	// Input order is the documented stable tiebreak, except a dimension
	// whose foreign key equals the cube's own fact-table primary key
	// joins first (SPEC_FULL.md §4.6 Pass 1).
	sort.SliceStable(order, func(i, j int) bool {
		fi, fj := order[i], order[j]
		pi := fi == b.Table.PrimaryKey
		pj := fj == b.Table.PrimaryKey
		if pi != pj {
			return pi
		}
		return groups[fi].minIdx < groups[fj].minIdx
	})

	out := make([]dimSubquery, 0, len(order))
	for _, fk := range order {
		g := groups[fk]
		groupBy := append([]string{fk}, quoteEach(g.aliases)...)
		sql := fmt.Sprintf(
			"(SELECT %s, %s FROM %s GROUP BY %s) dim_%s",
			fk, strings.Join(g.cols, ", "), g.tableSQL, strings.Join(groupBy, ", "), sanitizeIdent(fk),
		)
		out = append(out, dimSubquery{ForeignKey: fk, SQL: sql, Aliases: g.aliases})
	}
	return out
}

func buildFactAggregate(b *binder.Bound, inlineDrills []binder.DrilldownSql, dims []dimSubquery, inlineCuts, externalCuts []binder.CutSql, hidden []binder.DrilldownSql, offsets []int) string {
	var selectCols, groupCols []string

	for _, d := range inlineDrills {
		for _, lc := range d.LevelColumns {
			frag, aliases := levelColSelectFragments(lc)
			selectCols = append(selectCols, frag...)
			groupCols = append(groupCols, quoteEach(aliases)...)
		}
		for _, pc := range d.PropertyColumns {
			selectCols = append(selectCols, fmt.Sprintf("%s AS `%s`", pc.Column, pc.Alias))
			groupCols = append(groupCols, "`"+pc.Alias+"`")
		}
	}

	for _, dim := range dims {
		selectCols = append(selectCols, dim.ForeignKey)
		groupCols = append(groupCols, dim.ForeignKey)
	}

	// Hidden drills narrow the fact aggregate's grouping the same way an
	// inline drill does, but their aliases are never added to dims or to
	// b.Headers, so foldStarJoin and buildFinalAggregate never see them -
	// they disappear after Pass 2, per SPEC_FULL.md §4.6 Pass 4.
	for _, d := range hidden {
		for _, lc := range d.LevelColumns {
			frag, aliases := levelColSelectFragments(lc)
			selectCols = append(selectCols, frag...)
			groupCols = append(groupCols, quoteEach(aliases)...)
		}
	}

	for i, m := range b.Measures {
		selectCols = append(selectCols, pass1Expr(m.Aggregator, m.Column, offsets[i])...)
	}

	var conditions []string
	for _, c := range inlineCuts {
		conditions = append(conditions, renderMemberFilter(c.Column, c.Members, c.MemberType))
	}
	for _, c := range externalCuts {
		sub := fmt.Sprintf("SELECT %s FROM %s", c.PrimaryKey, renderTableSource(c.Table))
		if len(c.Members) > 0 {
			sub += " WHERE " + renderMemberFilter(c.Column, c.Members, c.MemberType)
		}
		conditions = append(conditions, fmt.Sprintf("%s IN (%s)", c.ForeignKey, sub))
	}

	var where string
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	return fmt.Sprintf(
		"SELECT %s FROM %s%s GROUP BY %s",
		strings.Join(selectCols, ", "), b.Table.Name, where, strings.Join(groupCols, ", "),
	)
}

// foldStarJoin implements Pass 3, folding each dim subquery over the
// accumulated aggregate via "ALL INNER JOIN ... USING <foreign_key>".
// accumulated seeds with the fact aggregate's own inline drill aliases and
// every dim's foreign key, since those columns live only in agg0 and would
// otherwise be dropped the moment the first external dim is folded in (a
// later dim's USING clause needs its foreign key still projected).
func foldStarJoin(factSQL string, inlineDrillAliases []string, dims []dimSubquery, measures []binder.MeasureSql, offsets []int) string {
	current := fmt.Sprintf("(%s) agg0", factSQL)
	accumulated := append([]string{}, inlineDrillAliases...)
	for _, dim := range dims {
		accumulated = append(accumulated, dim.ForeignKey)
	}
	measureCols := measureColumnNames(measures, offsets)

	for k, dim := range dims {
		var selCols []string
		selCols = append(selCols, quoteEach(accumulated)...)
		selCols = append(selCols, quoteEach(dim.Aliases)...)
		selCols = append(selCols, measureCols...)

		current = fmt.Sprintf(
			"(SELECT %s FROM %s ALL INNER JOIN %s USING %s) agg%d",
			strings.Join(selCols, ", "), dim.SQL, current, dim.ForeignKey, k+1,
		)
		accumulated = append(accumulated, dim.Aliases...)
	}
	return current
}

// buildFinalAggregate implements Pass 4: re-aggregate over every
// externally visible drill alias, in the binder's header order.
func buildFinalAggregate(starJoined string, b *binder.Bound, offsets []int) string {
	drillAliases := b.Headers[:len(b.Headers)-len(b.Measures)]

	var selectCols []string
	selectCols = append(selectCols, quoteEach(drillAliases)...)
	for i, m := range b.Measures {
		selectCols = append(selectCols, pass2Expr(m.Aggregator, offsets[i], m.Name))
	}

	groupCols := quoteEach(drillAliases)

	return fmt.Sprintf(
		"SELECT %s FROM %s GROUP BY %s",
		strings.Join(selectCols, ", "), starJoined, strings.Join(groupCols, ", "),
	)
}

func levelColSelectFragments(lc binder.LevelColumn) (cols, aliases []string) {
	cols = append(cols, fmt.Sprintf("%s AS `%s`", lc.KeyColumn, lc.KeyAlias))
	aliases = append(aliases, lc.KeyAlias)
	if lc.NameColumn != "" {
		cols = append(cols, fmt.Sprintf("%s AS `%s`", lc.NameColumn, lc.NameAlias))
		aliases = append(aliases, lc.NameAlias)
	}
	return cols, aliases
}

func renderTableSource(t binder.TableRef) string {
	if t.Inline == nil {
		return t.Name
	}
	rows := make([]string, 0, len(t.Inline.Rows))
	for _, row := range t.Inline.Rows {
		cols := make([]string, 0, len(row))
		for i, v := range row {
			if i >= len(t.Inline.Columns) {
				break
			}
			cols = append(cols, fmt.Sprintf("%s AS `%s`", quoteLiteral(v), t.Inline.Columns[i]))
		}
		rows = append(rows, "SELECT "+strings.Join(cols, ", "))
	}
	return fmt.Sprintf("(%s) %s", strings.Join(rows, " UNION ALL "), t.Name)
}

func renderMemberFilter(column string, members []string, mt schema.MemberType) string {
	vals := make([]string, len(members))
	for i, m := range members {
		if mt == schema.MemberText {
			vals[i] = quoteLiteral(m)
		} else {
			vals[i] = m
		}
	}
	return fmt.Sprintf("%s IN (%s)", column, strings.Join(vals, ", "))
}

func measureSlotOffsets(measures []binder.MeasureSql) []int {
	offsets := make([]int, len(measures))
	next := 0
	for i, m := range measures {
		offsets[i] = next
		next += measureSlots(m.Aggregator)
	}
	return offsets
}

func measureColumnNames(measures []binder.MeasureSql, offsets []int) []string {
	var out []string
	for i, m := range measures {
		for s := 0; s < measureSlots(m.Aggregator); s++ {
			out = append(out, fmt.Sprintf("m%d", offsets[i]+s))
		}
	}
	return out
}

func quoteEach(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = "`" + n + "`"
	}
	return out
}

func quoteLiteral(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

func sanitizeIdent(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, s)
}
