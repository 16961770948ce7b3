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

package schema_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suharev7/tesseract/schema"
)

func TestCatalogLoadAndSnapshot(t *testing.T) {
	cat := schema.NewCatalog()
	require.Empty(t, cat.Snapshot())

	err := cat.Load([]schema.Cube{salesCube()})
	require.NoError(t, err)

	snap := cat.Snapshot()
	require.Len(t, snap, 1)
	require.Equal(t, "Sales", snap[0].Name)
}

func TestCatalogLoadRejectsInvalidSchema(t *testing.T) {
	cat := schema.NewCatalog()
	require.NoError(t, cat.Load([]schema.Cube{salesCube()}))

	bad := salesCube()
	bad.Dimensions[0].ForeignKey = ""
	err := cat.Load([]schema.Cube{bad})
	require.Error(t, err)

	// a failed Load must not disturb the existing snapshot
	require.Len(t, cat.Snapshot(), 1)
}

func TestCatalogConcurrentReadsDuringReload(t *testing.T) {
	cat := schema.NewCatalog()
	require.NoError(t, cat.Load([]schema.Cube{salesCube()}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cat.Snapshot()
		}()
	}
	require.NoError(t, cat.Load([]schema.Cube{salesCube()}))
	wg.Wait()
}
