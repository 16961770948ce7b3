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
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/suharev7/tesseract/schema"
)

// TopSpec is the parsed form of "top=<n>,<level>,<mea_or_calc>,<asc|desc>".
type TopSpec struct {
	N         int64
	Level     string
	Target    string
	Ascending bool
}

// SortSpec is the parsed form of "sort=<field>.<asc|desc>".
type SortSpec struct {
	Field     string
	Ascending bool
}

// LimitSpec is the parsed form of "limit=<n>" or "limit=<n>,<offset>".
type LimitSpec struct {
	N      int64
	Offset int64
}

// GrowthSpec, RCASpec and RateSpec are carried through the pipeline
// unchanged; their execution is not specified here (SPEC_FULL.md §1
// Non-goals), only their parsing and pass-through.
type GrowthSpec struct{ Raw string }
type RCASpec struct{ Raw string }
type RateSpec struct{ Raw string }

// PostAggOptions bundles every parsed post-aggregation option, attached
// unchanged to every internal query the resolver emits.
type PostAggOptions struct {
	Top      *TopSpec
	TopWhere string
	Sort     *SortSpec
	Limit    *LimitSpec
	Growth   *GrowthSpec
	RCA      *RCASpec
	Rate     *RateSpec
	Filters  string
}

func parseTop(raw string) (*TopSpec, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return nil, schema.ErrMalformedArgument.New("top", raw)
	}
	n, err := cast.ToInt64E(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, schema.ErrMalformedArgument.New("top", raw)
	}
	dir := strings.TrimSpace(parts[3])
	var asc bool
	switch dir {
	case "asc":
		asc = true
	case "desc":
		asc = false
	default:
		return nil, schema.ErrMalformedArgument.New("top", raw)
	}
	return &TopSpec{
		N:         n,
		Level:     strings.TrimSpace(parts[1]),
		Target:    strings.TrimSpace(parts[2]),
		Ascending: asc,
	}, nil
}

func parseSort(raw string) (*SortSpec, error) {
	if raw == "" {
		return nil, nil
	}
	idx := strings.LastIndex(raw, ".")
	if idx == -1 {
		return &SortSpec{Field: raw, Ascending: true}, nil
	}
	dir := raw[idx+1:]
	switch dir {
	case "asc":
		return &SortSpec{Field: raw[:idx], Ascending: true}, nil
	case "desc":
		return &SortSpec{Field: raw[:idx], Ascending: false}, nil
	default:
		return &SortSpec{Field: raw, Ascending: true}, nil
	}
}

func parseLimit(raw string) (*LimitSpec, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	n, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return nil, schema.ErrMalformedArgument.New("limit", raw)
	}
	spec := &LimitSpec{N: n}
	if len(parts) == 2 {
		off, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil {
			return nil, schema.ErrMalformedArgument.New("limit", raw)
		}
		spec.Offset = off
	} else if len(parts) > 2 {
		return nil, schema.ErrMalformedArgument.New("limit", raw)
	}
	return spec, nil
}

func parsePostAgg(req Request) (PostAggOptions, error) {
	var opts PostAggOptions
	var err error

	if opts.Top, err = parseTop(req.Top); err != nil {
		return opts, err
	}
	if opts.Sort, err = parseSort(req.Sort); err != nil {
		return opts, err
	}
	if opts.Limit, err = parseLimit(req.Limit); err != nil {
		return opts, err
	}
	if req.Growth != "" {
		opts.Growth = &GrowthSpec{Raw: req.Growth}
	}
	if req.RCA != "" {
		opts.RCA = &RCASpec{Raw: req.RCA}
	}
	if req.Rate != "" {
		opts.Rate = &RateSpec{Raw: req.Rate}
	}
	opts.TopWhere = req.TopWhere
	opts.Filters = ""
	return opts, nil
}
