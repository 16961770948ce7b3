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

package binder

import "gopkg.in/src-d/go-errors.v1"

// ErrPropertyWithoutDrill is returned when a requested property's owning
// level has no corresponding drill in the query. The source silently
// dropped such properties; here it is a hard bind-time error (see
// SPEC_FULL.md §9).
var ErrPropertyWithoutDrill = errors.NewKind("property %q has no drill on its owning level")
