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

// Command tesseractd boots the query-resolution HTTP server: it loads a
// schema file and a logic-layer config, opens the SQL backend, builds the
// initial cube cache and starts serving.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/suharev7/tesseract/backend"
	"github.com/suharev7/tesseract/config"
	"github.com/suharev7/tesseract/geoservice"
	"github.com/suharev7/tesseract/schema"
	"github.com/suharev7/tesseract/server"
)

func main() {
	var (
		listenAddr     = flag.String("listen", ":7700", "HTTP listen address")
		schemaPath     = flag.String("schema", "", "path to the cube schema YAML file (required)")
		configPath     = flag.String("config", "", "path to the logic-layer config TOML file (optional)")
		dsn            = flag.String("dsn", "", "database/sql DSN for the go-sql-driver/mysql backend (required)")
		backendName    = flag.String("backend-name", "columnstore", "dialect name registered for this backend")
		dialect        = flag.String("dialect", "columnstore", "SQL dialect: columnstore or rowstore")
		geoserviceURL  = flag.String("geoservice-url", "", "base URL of the geo-service (optional; enables :neighbors on geo dimensions)")
		neighborWindow = flag.Int("neighbor-window", 0, "override the cache's neighbor window (0 keeps the default)")
		flushSecret    = flag.String("flush-secret", os.Getenv("TESSERACTD_FLUSH_SECRET"), "shared secret required by POST /flush; empty disables it")
		debug          = flag.Bool("debug", false, "log at debug level")
	)
	flag.Parse()

	log := logrus.StandardLogger()
	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}

	if *schemaPath == "" {
		log.Fatal("-schema is required")
	}
	if *dsn == "" {
		log.Fatal("-dsn is required")
	}

	cubes, err := schema.LoadFile(*schemaPath)
	if err != nil {
		log.WithError(err).Fatal("loading schema")
	}
	cat := schema.NewCatalog()
	if err := cat.Load(cubes); err != nil {
		log.WithError(err).Fatal("validating schema")
	}

	cfg := config.New()
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
		if err != nil {
			log.WithError(err).Fatal("loading logic-layer config")
		}
	}

	db, err := backend.OpenSQLDB("mysql", *dsn)
	if err != nil {
		log.WithError(err).Fatal("opening backend")
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.Ping(pingCtx); err != nil {
		log.WithError(err).Fatal("pinging backend")
	}

	reg := backend.NewRegistry()
	switch *dialect {
	case "rowstore":
		reg.Register(*backendName, backend.RowStoreDialect{})
	default:
		reg.Register(*backendName, backend.ColumnStoreDialect{})
	}

	var geo *geoservice.Client
	if *geoserviceURL != "" {
		geo = geoservice.New(*geoserviceURL)
	}

	s := server.New(&server.Server{
		Catalog:        cat,
		Backend:        db,
		BackendName:    *backendName,
		Dialects:       reg,
		Config:         cfg,
		Geo:            geo,
		NeighborWindow: *neighborWindow,
		FlushSecret:    *flushSecret,
		Log:            log,
	})

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer bootCancel()
	if err := s.Reload(bootCtx); err != nil {
		log.WithError(err).Fatal("building initial cache")
	}

	httpSrv := &http.Server{
		Addr:    *listenAddr,
		Handler: s.Router,
	}

	go func() {
		log.WithField("addr", *listenAddr).Info("tesseractd listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("serving")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
