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

// Package binder resolves one logiclayer.ResolvedQuery against a
// schema.Cube, producing the physical-column bindings (table, cut, drill
// and measure descriptors plus the output header order) that sqlgen
// formats into SQL.
package binder

import "github.com/suharev7/tesseract/schema"

// TableRef names the physical source of a cut or drilldown: either a real
// table name, or a literal in-schema row set that sqlgen must render as an
// inline value list.
type TableRef struct {
	Name   string
	Inline *schema.InlineTable
}

// TableSql is the fact table binding.
type TableSql struct {
	Name       string
	PrimaryKey string
}

// CutSql binds one resolved cut to its physical table and column.
type CutSql struct {
	Table      TableRef
	PrimaryKey string
	ForeignKey string
	Column     string
	Members    []string
	MemberType schema.MemberType
	LevelName  schema.LevelName
}

// LevelColumn is one level's key (and optional name) column pair within a
// DrilldownSql's level chain.
type LevelColumn struct {
	LevelName  schema.LevelName
	KeyColumn  string
	KeyAlias   string
	NameColumn string // empty if the level has no display-name column
	NameAlias  string
}

// PropertyColumnSql binds one requested property to its physical column.
type PropertyColumnSql struct {
	Name   string
	Column string
	Alias  string
}

// DrilldownSql binds one resolved drill to its physical table and the
// level-column chain to project (the requested level alone, or the full
// ancestor chain when parents=true).
type DrilldownSql struct {
	LevelName       schema.LevelName
	Table           TableRef
	PrimaryKey      string
	ForeignKey      string
	LevelColumns    []LevelColumn
	PropertyColumns []PropertyColumnSql
}

// MeasureSql binds one resolved measure to its physical column and
// aggregator.
type MeasureSql struct {
	Name       string
	Column     string
	Aggregator schema.Aggregator
}

// Bound is the complete physical binding for one internal query, ready
// for sqlgen.
type Bound struct {
	Table      TableSql
	Cuts       []CutSql
	Drilldowns []DrilldownSql
	Measures   []MeasureSql
	Headers    []string
}
