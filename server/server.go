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

// Package server is the HTTP transport: it routes the logic-layer request
// surface over gorilla/mux and drives resolve -> bind -> generate ->
// execute for each request. It holds no query-planning logic of its own -
// that lives in logiclayer, binder and sqlgen - only request parsing,
// dispatch, response formatting and the read-mostly schema/cache swap.
package server

import (
	"context"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/suharev7/tesseract"
	"github.com/suharev7/tesseract/backend"
	"github.com/suharev7/tesseract/config"
	"github.com/suharev7/tesseract/geoservice"
	"github.com/suharev7/tesseract/schema"
)

// Server bundles the HTTP transport around a tesseract.Engine: the
// read-mostly schema catalog, a SQL backend plus its dialect registry, the
// logic-layer config, the geo-service client, and the flush secret that
// gates reloading the engine's cube cache.
type Server struct {
	Catalog     *schema.Catalog
	Backend     backend.Backend
	BackendName string
	Dialects    *backend.Registry
	Config      *config.Config
	Geo         *geoservice.Client

	// NeighborWindow overrides cache.DefaultNeighborWindow when > 0.
	NeighborWindow int

	// FlushSecret authenticates POST /flush. Empty disables the endpoint.
	FlushSecret string

	Log *logrus.Logger

	Router *mux.Router

	engine *tesseract.Engine
}

// New wires a Server's engine, routes and middleware. Catalog and Backend
// must already be set on s; a nil Config is replaced by an empty one and a
// nil Log by the standard logger. If Dialects has no entry for
// BackendName, the column-store dialect is used. Call Reload once before
// serving traffic to populate the cube cache.
func New(s *Server) *Server {
	if s.Log == nil {
		s.Log = logrus.StandardLogger()
	}
	if s.Config == nil {
		s.Config = config.New()
	}

	dialect, err := s.dialect()
	if err != nil {
		dialect = backend.ColumnStoreDialect{}
	}
	s.engine = tesseract.New(tesseract.Config{
		Catalog:        s.Catalog,
		Backend:        s.Backend,
		Dialect:        dialect,
		LogicLayer:     s.Config,
		Geo:            s.Geo,
		NeighborWindow: s.NeighborWindow,
		Log:            s.Log,
	})

	r := mux.NewRouter()
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.tracingMiddleware)

	r.HandleFunc("/cubes", s.handleListCubes).Methods("GET")
	r.HandleFunc("/cubes/{name}", s.handleGetCube).Methods("GET")
	r.HandleFunc("/cubes/{name}/members", s.handleMembers).Methods("GET")
	r.HandleFunc("/{cube}/aggregate{format:(\\.[a-zA-Z0-9]+)?}", s.handleAggregate).Methods("GET")
	r.HandleFunc("/flush", s.handleFlush).Methods("POST")

	s.Router = r
	return s
}

// Reload rebuilds the engine's cube cache from the catalog's current
// snapshot and swaps it in atomically. Called once at startup and again,
// off-band, by the authenticated flush endpoint.
func (s *Server) Reload(ctx context.Context) error {
	return s.engine.Reload(ctx)
}

func (s *Server) dialect() (backend.Dialect, error) {
	if s.Dialects == nil {
		return backend.ColumnStoreDialect{}, nil
	}
	return s.Dialects.Dialect(s.BackendName)
}
