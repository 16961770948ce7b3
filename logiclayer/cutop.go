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

package logiclayer

import (
	"strings"

	"github.com/suharev7/tesseract/schema"
)

// CutOp tags the expansion operator suffixed to a cut value.
type CutOp int

const (
	CutOpNone CutOp = iota
	CutOpChildren
	CutOpParents
	CutOpNeighbors
)

// CutElement is the parsed form of one comma-separated cut value: an
// element id and its optional expansion operator. Parsing this into a
// tagged variant at the resolver boundary (rather than pattern-matching
// ":children"/":parents"/":neighbors" strings downstream) keeps the
// grammar testable in isolation - see SPEC_FULL.md §9.
type CutElement struct {
	ID string
	Op CutOp
}

// parseCutElement splits "<element>" or "<element>:<op>" into a
// CutElement. More than one ":" is malformed.
func parseCutElement(raw string) (CutElement, error) {
	parts := strings.Split(raw, ":")
	switch len(parts) {
	case 1:
		return CutElement{ID: parts[0], Op: CutOpNone}, nil
	case 2:
		op, err := parseCutOp(parts[1])
		if err != nil {
			return CutElement{}, err
		}
		return CutElement{ID: parts[0], Op: op}, nil
	default:
		return CutElement{}, schema.ErrMalformedArgument.New("cut", raw)
	}
}

func parseCutOp(raw string) (CutOp, error) {
	switch raw {
	case "children":
		return CutOpChildren, nil
	case "parents":
		return CutOpParents, nil
	case "neighbors":
		return CutOpNeighbors, nil
	default:
		return CutOpNone, schema.ErrMalformedArgument.New("cut operator", raw)
	}
}

// splitCutValues splits a raw comma-separated cut value list into its
// CutElements.
func splitCutValues(raw string) ([]CutElement, error) {
	parts := strings.Split(raw, ",")
	out := make([]CutElement, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		el, err := parseCutElement(p)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}
