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

import "gopkg.in/src-d/go-errors.v1"

// Error kinds shared by every package that resolves names against the
// schema (schema, cache, logiclayer, binder). Kept in one place so the HTTP
// transport can map a single, closed set of kinds to status codes.
var (
	// ErrUnknownName is returned when a cube, dimension, hierarchy, level,
	// measure or property name does not exist in the schema.
	ErrUnknownName = errors.NewKind("unknown %s: %q")

	// ErrAmbiguousMember is returned when a dimension-key cut resolves to
	// more than one level.
	ErrAmbiguousMember = errors.NewKind("member %q is ambiguous across levels: %v")

	// ErrMalformedArgument covers time/top/growth/rca/rate parse failures
	// and malformed cut operators.
	ErrMalformedArgument = errors.NewKind("malformed argument %s: %s")

	// ErrMissingConstraint covers a query with no measure, or with neither
	// drill nor cut. A property with no matching drill is reported by the
	// binder's own ErrPropertyWithoutDrill kind.
	ErrMissingConstraint = errors.NewKind("missing constraint: %s")

	// ErrMissingForeignKey is returned when a non-inline dimension has no
	// foreign key column on the fact table.
	ErrMissingForeignKey = errors.NewKind("dimension %q has no foreign key and is not inline")

	// ErrSchemaValidation aggregates structural problems found while
	// loading or validating a schema file.
	ErrSchemaValidation = errors.NewKind("schema validation failed: %s")
)
