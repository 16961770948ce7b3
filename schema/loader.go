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

package schema

import (
	"io/ioutil"

	"gopkg.in/yaml.v2"
)

// yamlSchema mirrors the on-disk shape of a schema file. It is kept
// separate from the runtime Cube/Dimension/... types so that the wire
// format can evolve (optional fields, renamed keys) without touching the
// types the rest of the core operates on.
type yamlSchema struct {
	Cubes []yamlCube `yaml:"cubes"`
}

type yamlCube struct {
	Name       string         `yaml:"name"`
	Table      yamlTable      `yaml:"table"`
	Dimensions []yamlDimension `yaml:"dimensions"`
	Measures   []yamlMeasure  `yaml:"measures"`
}

type yamlTable struct {
	Name       string `yaml:"name"`
	PrimaryKey string `yaml:"primary_key"`
}

type yamlInlineTable struct {
	Columns []string   `yaml:"columns"`
	Rows    [][]string `yaml:"rows"`
}

type yamlDimension struct {
	Name           string          `yaml:"name"`
	IsShared       bool            `yaml:"is_shared"`
	ForeignKey     string          `yaml:"foreign_key"`
	ForeignKeyType string          `yaml:"foreign_key_type"`
	Type           string          `yaml:"type"`
	Hierarchies    []yamlHierarchy `yaml:"hierarchies"`
}

type yamlHierarchy struct {
	Name       string           `yaml:"name"`
	Table      *yamlTable       `yaml:"table"`
	Inline     *yamlInlineTable `yaml:"inline_table"`
	PrimaryKey string           `yaml:"primary_key"`
	Levels     []yamlLevel      `yaml:"levels"`
}

type yamlLevel struct {
	Name       string           `yaml:"name"`
	KeyColumn  string           `yaml:"key_column"`
	NameColumn string           `yaml:"name_column"`
	Properties []yamlProperty   `yaml:"properties"`
}

type yamlProperty struct {
	Name       string `yaml:"name"`
	Column     string `yaml:"column"`
	CaptionSet string `yaml:"caption_set"`
}

type yamlMeasure struct {
	Name       string `yaml:"name"`
	Column     string `yaml:"column"`
	Aggregator string `yaml:"aggregator"`
}

// LoadFile parses a YAML schema file into a validated cube set. It does not
// install the result into a Catalog; call Catalog.Load with the result.
func LoadFile(path string) ([]Cube, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadBytes(raw)
}

// LoadBytes parses YAML schema content into a validated cube set.
func LoadBytes(raw []byte) ([]Cube, error) {
	var doc yamlSchema
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	cubes := make([]Cube, 0, len(doc.Cubes))
	for _, yc := range doc.Cubes {
		cubes = append(cubes, fromYAMLCube(yc))
	}

	if err := Validate(cubes); err != nil {
		return nil, err
	}
	return cubes, nil
}

func fromYAMLCube(yc yamlCube) Cube {
	dims := make([]Dimension, 0, len(yc.Dimensions))
	for _, yd := range yc.Dimensions {
		dims = append(dims, fromYAMLDimension(yd))
	}
	meas := make([]Measure, 0, len(yc.Measures))
	for _, ym := range yc.Measures {
		meas = append(meas, Measure{
			Name:       ym.Name,
			Column:     ym.Column,
			Aggregator: Aggregator(ym.Aggregator),
		})
	}
	return Cube{
		Name: yc.Name,
		Table: Table{
			Name:       yc.Table.Name,
			PrimaryKey: yc.Table.PrimaryKey,
		},
		Dimensions: dims,
		Measures:   meas,
	}
}

func fromYAMLDimension(yd yamlDimension) Dimension {
	hiers := make([]Hierarchy, 0, len(yd.Hierarchies))
	for _, yh := range yd.Hierarchies {
		hiers = append(hiers, fromYAMLHierarchy(yh))
	}
	dimType := DimGeneric
	if yd.Type != "" {
		dimType = DimensionType(yd.Type)
	}
	fkType := MemberNonText
	if yd.ForeignKeyType != "" {
		fkType = MemberType(yd.ForeignKeyType)
	}
	return Dimension{
		Name:           yd.Name,
		IsShared:       yd.IsShared,
		ForeignKey:     yd.ForeignKey,
		ForeignKeyType: fkType,
		Type:           dimType,
		Hierarchies:    hiers,
	}
}

func fromYAMLHierarchy(yh yamlHierarchy) Hierarchy {
	var tbl *Table
	if yh.Table != nil {
		tbl = &Table{Name: yh.Table.Name, PrimaryKey: yh.Table.PrimaryKey}
	}
	var inline *InlineTable
	if yh.Inline != nil {
		inline = &InlineTable{Columns: yh.Inline.Columns, Rows: yh.Inline.Rows}
	}
	levels := make([]Level, 0, len(yh.Levels))
	for _, yl := range yh.Levels {
		props := make([]PropertyColumn, 0, len(yl.Properties))
		for _, yp := range yl.Properties {
			props = append(props, PropertyColumn{Name: yp.Name, Column: yp.Column, CaptionSet: yp.CaptionSet})
		}
		levels = append(levels, Level{
			Name:       yl.Name,
			KeyColumn:  yl.KeyColumn,
			NameColumn: yl.NameColumn,
			Properties: props,
		})
	}
	return Hierarchy{
		Name:       yh.Name,
		Table:      tbl,
		Inline:     inline,
		PrimaryKey: yh.PrimaryKey,
		Levels:     levels,
	}
}
