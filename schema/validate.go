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
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Validate checks the structural invariants every cube must satisfy before
// it can be loaded into a Catalog: every hierarchy has at least one level,
// every non-inline dimension carries a foreign key, and names are unique
// within the scopes that matter (dimension within cube, hierarchy within
// dimension, level within hierarchy, measure within cube).
//
// All problems found are collected rather than stopping at the first, so an
// operator fixing a schema file sees every error in one pass.
func Validate(cubes []Cube) error {
	var result *multierror.Error

	seenCubes := make(map[string]bool, len(cubes))
	for _, cube := range cubes {
		if seenCubes[cube.Name] {
			result = multierror.Append(result, fmt.Errorf("duplicate cube name %q", cube.Name))
		}
		seenCubes[cube.Name] = true

		if err := validateCube(cube); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if result != nil {
		return ErrSchemaValidation.Wrap(result, result.Error())
	}
	return nil
}

func validateCube(cube Cube) error {
	var result *multierror.Error

	seenDims := make(map[string]bool, len(cube.Dimensions))
	for _, dim := range cube.Dimensions {
		if seenDims[dim.Name] {
			result = multierror.Append(result, fmt.Errorf("cube %q: duplicate dimension name %q", cube.Name, dim.Name))
		}
		seenDims[dim.Name] = true

		if err := validateDimension(cube, dim); err != nil {
			result = multierror.Append(result, err)
		}
	}

	seenMeas := make(map[string]bool, len(cube.Measures))
	for _, mea := range cube.Measures {
		if seenMeas[mea.Name] {
			result = multierror.Append(result, fmt.Errorf("cube %q: duplicate measure name %q", cube.Name, mea.Name))
		}
		seenMeas[mea.Name] = true
	}

	if result != nil {
		return result.ErrorOrNil()
	}
	return nil
}

func validateDimension(cube Cube, dim Dimension) error {
	var result *multierror.Error

	seenHiers := make(map[string]bool, len(dim.Hierarchies))
	for _, hier := range dim.Hierarchies {
		if seenHiers[hier.Name] {
			result = multierror.Append(result, fmt.Errorf("cube %q, dimension %q: duplicate hierarchy name %q", cube.Name, dim.Name, hier.Name))
		}
		seenHiers[hier.Name] = true

		if len(hier.Levels) == 0 {
			result = multierror.Append(result, fmt.Errorf("cube %q, dimension %q, hierarchy %q: no levels", cube.Name, dim.Name, hier.Name))
		}

		if !hier.IsSameTableAsFact() && dim.ForeignKey == "" {
			result = multierror.Append(result, ErrMissingForeignKey.New(dim.Name))
		}

		seenLevels := make(map[string]bool, len(hier.Levels))
		for _, lvl := range hier.Levels {
			if seenLevels[lvl.Name] {
				result = multierror.Append(result, fmt.Errorf("cube %q, dimension %q, hierarchy %q: duplicate level name %q", cube.Name, dim.Name, hier.Name, lvl.Name))
			}
			seenLevels[lvl.Name] = true
		}
	}

	if result != nil {
		return result.ErrorOrNil()
	}
	return nil
}
