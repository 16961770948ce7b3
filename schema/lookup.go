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

// CubeByName finds a cube by its exact name. Cube counts are small (tens),
// so a linear scan is acceptable; no index is maintained.
func CubeByName(cubes []Cube, name string) (*Cube, error) {
	for i := range cubes {
		if cubes[i].Name == name {
			return &cubes[i], nil
		}
	}
	return nil, ErrUnknownName.New("cube", name)
}

// DimensionByName finds a dimension within a cube by name.
func (c *Cube) DimensionByName(name string) (*Dimension, error) {
	for i := range c.Dimensions {
		if c.Dimensions[i].Name == name {
			return &c.Dimensions[i], nil
		}
	}
	return nil, ErrUnknownName.New("dimension", name)
}

// HierarchyByName finds a hierarchy within a dimension by name.
func (d *Dimension) HierarchyByName(name string) (*Hierarchy, error) {
	for i := range d.Hierarchies {
		if d.Hierarchies[i].Name == name {
			return &d.Hierarchies[i], nil
		}
	}
	return nil, ErrUnknownName.New("hierarchy", name)
}

// MeasureByName finds a measure within a cube by name.
func (c *Cube) MeasureByName(name string) (*Measure, error) {
	for i := range c.Measures {
		if c.Measures[i].Name == name {
			return &c.Measures[i], nil
		}
	}
	return nil, ErrUnknownName.New("measure", name)
}

// LevelByName resolves a fully-qualified LevelName against a cube,
// returning the Level and the Hierarchy that owns it.
func (c *Cube) LevelByName(ln LevelName) (*Level, *Hierarchy, error) {
	dim, err := c.DimensionByName(ln.Dimension)
	if err != nil {
		return nil, nil, err
	}
	hier, err := dim.HierarchyByName(ln.Hierarchy)
	if err != nil {
		return nil, nil, err
	}
	for i := range hier.Levels {
		if hier.Levels[i].Name == ln.Level {
			return &hier.Levels[i], hier, nil
		}
	}
	return nil, nil, ErrUnknownName.New("level", ln.Level)
}

// DimensionOfLevel returns the dimension owning ln.
func (c *Cube) DimensionOfLevel(ln LevelName) (*Dimension, error) {
	return c.DimensionByName(ln.Dimension)
}

// ChildLevel returns the single next-deeper level below ln in its
// hierarchy, or nil if ln is already the deepest level.
func (c *Cube) ChildLevel(ln LevelName) (*Level, error) {
	_, hier, err := c.LevelByName(ln)
	if err != nil {
		return nil, err
	}
	for i, lvl := range hier.Levels {
		if lvl.Name == ln.Level {
			if i+1 < len(hier.Levels) {
				return &hier.Levels[i+1], nil
			}
			return nil, nil
		}
	}
	return nil, ErrUnknownName.New("level", ln.Level)
}

// ParentsOfLevel returns the ordered sequence of levels strictly above ln
// in its hierarchy, deepest-parent last (i.e. immediate parent last,
// top-of-hierarchy first).
func (c *Cube) ParentsOfLevel(ln LevelName) ([]Level, error) {
	_, hier, err := c.LevelByName(ln)
	if err != nil {
		return nil, err
	}
	for i, lvl := range hier.Levels {
		if lvl.Name == ln.Level {
			parents := make([]Level, i)
			copy(parents, hier.Levels[:i])
			return parents, nil
		}
	}
	return nil, ErrUnknownName.New("level", ln.Level)
}

// Depth returns the 0-based depth of ln within its hierarchy (0 for the
// shallowest level).
func (c *Cube) Depth(ln LevelName) (int, error) {
	_, hier, err := c.LevelByName(ln)
	if err != nil {
		return 0, err
	}
	for i, lvl := range hier.Levels {
		if lvl.Name == ln.Level {
			return i, nil
		}
	}
	return 0, ErrUnknownName.New("level", ln.Level)
}
