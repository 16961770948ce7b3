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

// Package logiclayer resolves a permissive, user-friendly query (named
// aliases, time tokens, cut operators) into one or more concrete internal
// queries bound to a cube. It is transport-agnostic: the HTTP layer builds
// a Request from query-string parameters, but nothing here depends on
// net/http.
package logiclayer

// Request is the permissive, not-yet-validated analytic request. Every
// field mirrors a recognized HTTP query parameter (SPEC_FULL.md §6), but
// the struct itself has no transport dependency.
type Request struct {
	Cube string

	// Drilldowns is the raw, bracket-comma-joined drilldown argument,
	// e.g. "State,County" or "Geography[State,County]".
	Drilldowns string

	// Cuts maps a cut key (a level short name or a dimension name) to
	// its raw comma-separated value list, each value optionally
	// suffixed with ":children", ":parents" or ":neighbors".
	Cuts map[string]string

	// Time is the raw "<precision>.<value>" time token, or empty.
	Time string

	Measures   []string
	Properties []string
	Parents    bool

	Top        string
	TopWhere   string
	Sort       string
	Limit      string
	Growth     string
	RCA        string
	Rate       string

	Debug                 bool
	Sparse                bool
	ExcludeDefaultMembers bool
	Locale                []string
}
