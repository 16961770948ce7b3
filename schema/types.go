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

// Package schema holds the in-memory cube catalog: dimensions, hierarchies,
// levels and measures, and the physical table bindings that back them.
package schema

// Aggregator tags a measure's aggregation function.
type Aggregator string

const (
	AggSum           Aggregator = "sum"
	AggAvg           Aggregator = "avg"
	AggMin           Aggregator = "min"
	AggMax           Aggregator = "max"
	AggCount         Aggregator = "count"
	AggCountDistinct Aggregator = "count-distinct"
)

// DimensionType tags the kind of a dimension, affecting how cuts are resolved.
type DimensionType string

const (
	DimGeneric DimensionType = "generic"
	DimGeo     DimensionType = "geo"
	DimTime    DimensionType = "time"
)

// MemberType controls how a cut's member values are quoted when rendered as
// a SQL literal.
type MemberType string

const (
	MemberText    MemberType = "text"
	MemberNonText MemberType = "non-text"
)

// LevelName is the canonical, fully-qualified identifier of a level: its
// owning dimension, hierarchy and own name. Two levels with the same short
// name in the permissive query surface must still resolve to distinct
// LevelNames.
type LevelName struct {
	Dimension string `json:"dimension"`
	Hierarchy string `json:"hierarchy"`
	Level     string `json:"level"`
}

// Property identifies a property column attached to a level.
type Property struct {
	Level LevelName `json:"level"`
	Name  string    `json:"name"`
}

// Table names a physical table and, optionally, its primary key column.
type Table struct {
	Name       string `json:"name"`
	PrimaryKey string `json:"primary_key,omitempty"`
}

// InlineTable is a literal, in-schema row set standing in for a dimension
// table. Columns are addressed by name within Rows.
type InlineTable struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// PropertyColumn is a single named property column on a level.
type PropertyColumn struct {
	Name       string `json:"name"`
	Column     string `json:"column"`
	CaptionSet string `json:"caption_set,omitempty"`
}

// Level is one rung of a hierarchy, shallowest to deepest.
type Level struct {
	Name       string           `json:"name"`
	KeyColumn  string           `json:"key_column"`
	NameColumn string           `json:"name_column,omitempty"` // optional; empty means no display-name column
	Properties []PropertyColumn `json:"properties,omitempty"`
}

// HasNameColumn reports whether the level carries a separate display-name
// column distinct from its key.
func (l Level) HasNameColumn() bool {
	return l.NameColumn != ""
}

// Hierarchy is an ordered list of levels, shallow (parent) to deep (child),
// bound to either a dimension table or an inline literal table.
type Hierarchy struct {
	Name string `json:"name"`

	// Exactly one of Table / Inline is set, unless the hierarchy is
	// "inline to the fact table" (both empty), in which case PrimaryKey
	// must equal the cube's fact table primary key.
	Table  *Table       `json:"table,omitempty"`
	Inline *InlineTable `json:"inline,omitempty"`

	PrimaryKey string  `json:"primary_key"`
	Levels     []Level `json:"levels"`
}

// IsSameTableAsFact reports whether this hierarchy has no table binding of
// its own and so is resolved directly against the fact table.
func (h Hierarchy) IsSameTableAsFact() bool {
	return h.Table == nil && h.Inline == nil
}

// Dimension groups one or more hierarchies sharing a foreign key on the fact
// table (or none, if every hierarchy is fact-table-inline).
type Dimension struct {
	Name           string        `json:"name"`
	IsShared       bool          `json:"is_shared,omitempty"`
	ForeignKey     string        `json:"foreign_key,omitempty"` // empty if inline
	ForeignKeyType MemberType    `json:"foreign_key_type,omitempty"`
	Type           DimensionType `json:"type"`
	Hierarchies    []Hierarchy   `json:"hierarchies"`
}

// Measure is a fact-table column plus its aggregation function.
type Measure struct {
	Name       string     `json:"name"`
	Column     string     `json:"column"`
	Aggregator Aggregator `json:"aggregator"`
}

// Cube is a fact table plus its dimensional and measure bindings.
type Cube struct {
	Name       string      `json:"name"`
	Table      Table       `json:"table"`
	Dimensions []Dimension `json:"dimensions"`
	Measures   []Measure   `json:"measures"`
}
