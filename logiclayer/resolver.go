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
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/suharev7/tesseract/cache"
	"github.com/suharev7/tesseract/config"
	"github.com/suharev7/tesseract/schema"
)

// Geoservice is the narrow interface the resolver needs from
// geoservice.Client, kept here so tests can stub it without importing
// net/http machinery.
type Geoservice interface {
	Neighbors(ctx context.Context, geoID string) ([]string, error)
}

// ResolvedQuery is one bound internal query emitted by the resolver: a
// single cartesian combination of per-dimension cuts, plus the drills,
// measures and post-aggregation options every combination shares.
type ResolvedQuery struct {
	Cube       string
	Drills     []schema.LevelName
	Cuts       map[schema.LevelName][]string
	Measures   []string
	Properties []string
	Parents    bool
	PostAgg    PostAggOptions
}

// Resolver expands a permissive Request into one or more ResolvedQuerys
// plus the header-rename map, per SPEC_FULL.md §4.4.
type Resolver struct {
	Config *config.Config
	Cache  *cache.Cache
	Geo    Geoservice
	Log    *logrus.Logger
}

// New returns a Resolver with a standard logrus.Logger.
func New(cfg *config.Config, c *cache.Cache, geo Geoservice) *Resolver {
	return &Resolver{Config: cfg, Cache: c, Geo: geo, Log: logrus.StandardLogger()}
}

func (r *Resolver) debugf(format string, args ...interface{}) {
	if r.Log == nil {
		return
	}
	r.Log.Debugf(format, args...)
}

// Resolve runs the full Step A-F pipeline against the given schema
// snapshot.
func (r *Resolver) Resolve(ctx context.Context, cubes []schema.Cube, req Request) ([]ResolvedQuery, map[string]string, error) {
	// Step A - alias.
	canonical := req.Cube
	if r.Config != nil {
		canonical = r.Config.CanonicalCube(req.Cube)
	}

	cube, err := schema.CubeByName(cubes, canonical)
	if err != nil {
		return nil, nil, err
	}
	cc, _ := r.Cache.CubeCache(canonical)

	opts, err := parsePostAgg(req)
	if err != nil {
		return nil, nil, err
	}

	cuts, err := r.cutCleanup(cube, cc, req)
	if err != nil {
		return nil, nil, err
	}

	drills, err := r.parseDrilldowns(cc, req.Drilldowns)
	if err != nil {
		return nil, nil, err
	}

	dimCutsMap, headerRename, err := r.resolveCuts(ctx, cube, cc, cuts)
	if err != nil {
		return nil, nil, err
	}

	if len(req.Measures) == 0 {
		return nil, nil, schema.ErrMissingConstraint.New("no measure specified")
	}
	if len(drills) == 0 && len(dimCutsMap) == 0 {
		return nil, nil, schema.ErrMissingConstraint.New("neither drilldown nor cut specified")
	}

	queries := expandCartesian(canonical, drills, dimCutsMap, req, opts)
	return queries, headerRename, nil
}

// cutCleanup implements Step B: time-token injection and named-set
// substitution, against a copy of req.Cuts.
func (r *Resolver) cutCleanup(cube *schema.Cube, cc *cache.CubeCache, req Request) (map[string]string, error) {
	cuts := make(map[string]string, len(req.Cuts))
	for k, v := range req.Cuts {
		cuts[k] = v
	}

	if req.Time != "" {
		shortName, value, err := r.resolveTimeToken(cc, req.Time)
		if err != nil {
			return nil, err
		}
		cuts[shortName] = value
	}

	if r.Config != nil {
		for key, raw := range cuts {
			cuts[key] = r.substituteNamedSets(cube.Name, raw)
		}
	}

	return cuts, nil
}

func (r *Resolver) substituteNamedSets(cubeName, raw string) string {
	tokens := strings.Split(raw, ",")
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		id, op := splitOpSuffix(tok)
		if expanded, ok := r.Config.NamedSet(cubeName, id); ok {
			for _, e := range expanded {
				if op != "" {
					out = append(out, e+":"+op)
				} else {
					out = append(out, e)
				}
			}
			continue
		}
		out = append(out, tok)
	}
	return strings.Join(out, ",")
}

func splitOpSuffix(tok string) (id, op string) {
	idx := strings.LastIndex(tok, ":")
	if idx == -1 {
		return tok, ""
	}
	return tok[:idx], tok[idx+1:]
}

// resolveTimeToken parses "<precision>.<latest|oldest|N>" against the
// cube's cached time lists, per Step B.1.
func (r *Resolver) resolveTimeToken(cc *cache.CubeCache, raw string) (shortName, value string, err error) {
	idx := strings.Index(raw, ".")
	if idx == -1 {
		return "", "", schema.ErrMalformedArgument.New("time", raw)
	}
	precision := strings.Title(strings.ToLower(raw[:idx]))
	rest := raw[idx+1:]

	if cc == nil {
		return "", "", schema.ErrMalformedArgument.New("time", raw)
	}

	var ln schema.LevelName
	var values []string
	found := false
	for candidate, lc := range cc.Levels {
		if candidate.Level == precision && lc.TimeValues != nil {
			ln = candidate
			values = lc.TimeValues
			found = true
			break
		}
	}
	if !found || len(values) == 0 {
		return "", "", schema.ErrMalformedArgument.New("time", raw)
	}

	switch rest {
	case "latest":
		value = values[len(values)-1]
	case "oldest":
		value = values[0]
	default:
		if _, convErr := strconv.Atoi(rest); convErr != nil {
			return "", "", schema.ErrMalformedArgument.New("time", raw)
		}
		value = rest
	}

	shortName = ln.Level
	for sn, candidate := range cc.LevelShortNames {
		if candidate == ln {
			shortName = sn
			break
		}
	}
	return shortName, value, nil
}

// parseDrilldowns implements Step C: bracket-aware comma splitting,
// resolving each token against the cube's level short-name map.
func (r *Resolver) parseDrilldowns(cc *cache.CubeCache, raw string) ([]schema.LevelName, error) {
	if raw == "" {
		return nil, nil
	}
	tokens := splitBracketAware(raw)
	out := make([]schema.LevelName, 0, len(tokens))
	for _, tok := range tokens {
		if cc == nil {
			return nil, schema.ErrUnknownName.New("level", tok)
		}
		ln, ok := cc.LevelShortNames[tok]
		if !ok {
			return nil, schema.ErrUnknownName.New("level", tok)
		}
		out = append(out, ln)
	}
	return out, nil
}

// splitBracketAware splits s on top-level commas; commas nested inside
// "[...]" are literal. A bracketed segment such as "Geography[State,County]"
// discards its pre-bracket label and expands to one token per inner,
// comma-split item ("State", "County").
func splitBracketAware(s string) []string {
	var segments []string
	var cur strings.Builder
	depth := 0
	for _, r := range s {
		switch r {
		case '[':
			depth++
			cur.WriteRune(r)
		case ']':
			depth--
			cur.WriteRune(r)
		case ',':
			if depth > 0 {
				cur.WriteRune(r)
			} else {
				segments = append(segments, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		segments = append(segments, cur.String())
	}

	var out []string
	for _, seg := range segments {
		if idx := strings.IndexByte(seg, '['); idx != -1 {
			inner := strings.TrimSuffix(seg[idx+1:], "]")
			for _, tok := range strings.Split(inner, ",") {
				tok = strings.TrimSpace(tok)
				if tok != "" {
					out = append(out, tok)
				}
			}
			continue
		}
		seg = strings.TrimSpace(seg)
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// resolveCuts implements Step D: the per-cut-key, per-element resolution
// and operator expansion into a dimension -> level -> ids map, plus the
// header-rename map.
func (r *Resolver) resolveCuts(ctx context.Context, cube *schema.Cube, cc *cache.CubeCache, cuts map[string]string) (map[string]map[schema.LevelName][]string, map[string]string, error) {
	dimCutsMap := map[string]map[schema.LevelName][]string{}
	headerRename := map[string]string{}

	shortNameOf := func(ln schema.LevelName) string {
		if cc == nil {
			return ln.Level
		}
		for sn, candidate := range cc.LevelShortNames {
			if candidate == ln {
				return sn
			}
		}
		return ln.Level
	}

	// levelMatched records, per emitted LevelName, whether the cut that
	// produced it was resolved via a level short name (resolver.go's
	// cc.LevelShortNames branch) rather than via a dimension's member
	// reverse index (cube.DimensionByName branch). Suppression below only
	// applies to the former - a dimension-name cut like Geography=01:children
	// must keep "Geography" as the header even when it resolves to exactly
	// one level, per SPEC_FULL.md §4.4 Step D / §8 scenario 2.
	levelMatched := map[schema.LevelName]bool{}

	emit := func(ln schema.LevelName, id string, matchedViaLevel bool) {
		if dimCutsMap[ln.Dimension] == nil {
			dimCutsMap[ln.Dimension] = map[schema.LevelName][]string{}
		}
		dimCutsMap[ln.Dimension][ln] = appendUnique(dimCutsMap[ln.Dimension][ln], id)
		headerRename[shortNameOf(ln)] = ln.Dimension
		if matchedViaLevel {
			levelMatched[ln] = true
		}
	}

	applyOp := func(ln schema.LevelName, el CutElement, matchedViaLevel bool) error {
		switch el.Op {
		case CutOpNone:
			emit(ln, el.ID, matchedViaLevel)
		case CutOpChildren:
			child, err := cube.ChildLevel(ln)
			if err != nil {
				return err
			}
			if child == nil {
				return nil // no child level - drop, per Step D
			}
			childLN := schema.LevelName{Dimension: ln.Dimension, Hierarchy: ln.Hierarchy, Level: child.Name}
			lc, _ := cc.LevelCache(ln)
			if lc == nil {
				return nil
			}
			for _, id := range lc.ChildrenOf[el.ID] {
				emit(childLN, id, matchedViaLevel)
			}
		case CutOpParents:
			parents, err := cube.ParentsOfLevel(ln)
			if err != nil {
				return err
			}
			current := el.ID
			currentLN := ln
			for i := len(parents) - 1; i >= 0; i-- {
				lc, _ := cc.LevelCache(currentLN)
				if lc == nil || lc.ParentOf == nil {
					break
				}
				parentID, ok := lc.ParentOf[current]
				if !ok {
					break // missing link terminates the ascent silently
				}
				ancestorLN := schema.LevelName{Dimension: ln.Dimension, Hierarchy: ln.Hierarchy, Level: parents[i].Name}
				emit(ancestorLN, parentID, matchedViaLevel)
				current = parentID
				currentLN = ancestorLN
			}
		case CutOpNeighbors:
			dim, err := cube.DimensionOfLevel(ln)
			if err != nil {
				return err
			}
			var neighbors []string
			if dim.Type == schema.DimGeo && r.Geo != nil {
				neighbors, err = r.Geo.Neighbors(ctx, el.ID)
				if err != nil {
					return ErrGeoserviceUnavailable.New(err.Error())
				}
			} else {
				lc, _ := cc.LevelCache(ln)
				if lc != nil {
					neighbors = lc.NeighborsOf[el.ID]
				}
			}
			for _, id := range neighbors {
				emit(ln, id, matchedViaLevel)
			}
		}
		return nil
	}

	for cutKey, raw := range cuts {
		elements, err := splitCutValues(raw)
		if err != nil {
			return nil, nil, err
		}

		if dim, dimErr := cube.DimensionByName(cutKey); dimErr == nil {
			for _, el := range elements {
				matches := cc.DimensionMemberLevels[dim.Name][el.ID]
				switch len(matches) {
				case 0:
					r.debugf("cut %s=%s: no member match, dropping", cutKey, el.ID)
					continue
				case 1:
					if err := applyOp(matches[0], el, false); err != nil {
						return nil, nil, err
					}
				default:
					return nil, nil, schema.ErrAmbiguousMember.New(el.ID, matches)
				}
			}
			continue
		}

		if cc != nil {
			if ln, ok := cc.LevelShortNames[cutKey]; ok {
				for _, el := range elements {
					if err := applyOp(ln, el, true); err != nil {
						return nil, nil, err
					}
				}
				continue
			}
		}

		r.debugf("cut key %q matches neither a dimension nor a level, dropping", cutKey)
	}

	// Single-cut-level-per-dimension entries keep the level's own name,
	// but only when that single level was itself resolved via a level
	// short name; a dimension-name cut keeps the dimension's name even
	// when it narrows to one level.
	for _, levels := range dimCutsMap {
		if len(levels) != 1 {
			continue
		}
		for ln := range levels {
			if levelMatched[ln] {
				delete(headerRename, shortNameOf(ln))
			}
		}
	}

	return dimCutsMap, headerRename, nil
}

func appendUnique(existing []string, v string) []string {
	for _, e := range existing {
		if e == v {
			return existing
		}
	}
	return append(existing, v)
}

// expandCartesian implements Step E.
func expandCartesian(cube string, baseDrills []schema.LevelName, dimCutsMap map[string]map[schema.LevelName][]string, req Request, opts PostAggOptions) []ResolvedQuery {
	if len(dimCutsMap) == 0 {
		return []ResolvedQuery{{
			Cube:       cube,
			Drills:     baseDrills,
			Cuts:       map[schema.LevelName][]string{},
			Measures:   req.Measures,
			Properties: req.Properties,
			Parents:    req.Parents,
			PostAgg:    opts,
		}}
	}

	type choice struct {
		ln  schema.LevelName
		ids []string
	}

	dimNames := make([]string, 0, len(dimCutsMap))
	for d := range dimCutsMap {
		dimNames = append(dimNames, d)
	}
	sort.Strings(dimNames)

	choicesPerDim := make([][]choice, len(dimNames))
	for i, d := range dimNames {
		levels := dimCutsMap[d]
		lns := make([]schema.LevelName, 0, len(levels))
		for ln := range levels {
			lns = append(lns, ln)
		}
		sort.Slice(lns, func(a, b int) bool { return lns[a].Level < lns[b].Level })
		for _, ln := range lns {
			choicesPerDim[i] = append(choicesPerDim[i], choice{ln: ln, ids: levels[ln]})
		}
	}

	var out []ResolvedQuery
	var recurse func(i int, drills []schema.LevelName, cuts map[schema.LevelName][]string)
	recurse = func(i int, drills []schema.LevelName, cuts map[schema.LevelName][]string) {
		if i == len(dimNames) {
			out = append(out, ResolvedQuery{
				Cube:       cube,
				Drills:     append([]schema.LevelName{}, drills...),
				Cuts:       cuts,
				Measures:   req.Measures,
				Properties: req.Properties,
				Parents:    req.Parents,
				PostAgg:    opts,
			})
			return
		}
		multi := len(choicesPerDim[i]) > 1
		for _, c := range choicesPerDim[i] {
			nextCuts := make(map[schema.LevelName][]string, len(cuts)+1)
			for k, v := range cuts {
				nextCuts[k] = v
			}
			nextCuts[c.ln] = c.ids

			nextDrills := drills
			if multi {
				nextDrills = append(append([]schema.LevelName{}, drills...), c.ln)
			}
			recurse(i+1, nextDrills, nextCuts)
		}
	}
	recurse(0, baseDrills, map[schema.LevelName][]string{})
	return out
}
