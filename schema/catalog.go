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

import "sync"

// Catalog holds the set of loaded cubes behind a read-mostly lock. Readers
// never block each other; the only writer is Load. cmd/tesseractd calls it
// once at process start; the flush endpoint rebuilds only the cube cache
// and does not call it. In-flight readers that took a
// Snapshot before a concurrent Load keep using the old cube set - Load
// swaps a pointer, it never mutates cubes in place.
type Catalog struct {
	mu    sync.RWMutex
	cubes []Cube
}

// NewCatalog returns an empty Catalog. Load must be called before Snapshot
// returns anything useful.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Snapshot returns the currently loaded cube set. Safe for concurrent use
// with Load.
func (c *Catalog) Snapshot() []Cube {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cubes
}

// Load validates cubes and, only if validation succeeds, atomically swaps
// them in as the new snapshot. Validation happens entirely off-band: the
// write lock is held only for the pointer swap.
func (c *Catalog) Load(cubes []Cube) error {
	if err := Validate(cubes); err != nil {
		return err
	}
	c.mu.Lock()
	c.cubes = cubes
	c.mu.Unlock()
	return nil
}

// CubeByName looks up a cube in the current snapshot.
func (c *Catalog) CubeByName(name string) (*Cube, error) {
	cubes := c.Snapshot()
	return CubeByName(cubes, name)
}
