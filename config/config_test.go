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

package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suharev7/tesseract/config"
	"github.com/suharev7/tesseract/schema"
)

const sampleTOML = `
[aliases]
sales = "Sales"

[named_sets.Sales]
top_states = ["01", "06", "36"]

[[level_name_overrides]]
cube = "Sales"
dimension = "Geography"
hierarchy = "Geography"
level = "State"
short_name = "geography_state"
`

func TestLoadStringAndLookups(t *testing.T) {
	cfg, err := config.LoadString(sampleTOML)
	require.NoError(t, err)

	require.Equal(t, "Sales", cfg.CanonicalCube("sales"))
	require.Equal(t, "unknown", cfg.CanonicalCube("unknown"))

	vals, ok := cfg.NamedSet("Sales", "top_states")
	require.True(t, ok)
	require.Equal(t, []string{"01", "06", "36"}, vals)

	_, ok = cfg.NamedSet("Sales", "missing")
	require.False(t, ok)

	short, ok := cfg.LevelShortName("Sales", schema.LevelName{Dimension: "Geography", Hierarchy: "Geography", Level: "State"})
	require.True(t, ok)
	require.Equal(t, "geography_state", short)
}

func TestLoadStringRejectsUnscopedOverride(t *testing.T) {
	_, err := config.LoadString(`
[[level_name_overrides]]
level = "State"
short_name = "x"
`)
	require.Error(t, err)
}
