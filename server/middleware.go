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

package server

import (
	"context"
	"net/http"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyLogEntry
)

const requestIDHeader = "X-Request-Id"

// requestIDMiddleware attaches a fresh UUID to the request context and
// echoes it on the response for correlation with log lines.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.NewV4()
		var idStr string
		if err != nil {
			idStr = "unknown"
		} else {
			idStr = id.String()
		}
		w.Header().Set(requestIDHeader, idStr)
		ctx := context.WithValue(r.Context(), ctxKeyRequestID, idStr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// tracingMiddleware starts a span covering the whole request. With no
// tracer configured, opentracing.StartSpanFromContext resolves against the
// package-default no-op tracer, so this costs nothing beyond the call
// itself until an operator wires a real one.
func (s *Server) tracingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		span, ctx := opentracing.StartSpanFromContext(r.Context(), "http.request")
		defer span.Finish()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware emits one structured logrus line per request: method,
// path, status, duration and request id. It also attaches a per-request
// logrus.Entry to the context so handlers can log with the same fields.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID, _ := r.Context().Value(ctxKeyRequestID).(string)

		entry := s.Log.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
		})
		ctx := context.WithValue(r.Context(), ctxKeyLogEntry, entry)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		entry.WithFields(logrus.Fields{
			"status":   rec.status,
			"duration": time.Since(start),
		}).Info("request handled")
	})
}

// logEntry returns the per-request logrus.Entry attached by
// loggingMiddleware, or the server's own logger if the request didn't go
// through it (e.g. a direct handler call in a test).
func (s *Server) logEntry(ctx context.Context) *logrus.Entry {
	if e, ok := ctx.Value(ctxKeyLogEntry).(*logrus.Entry); ok {
		return e
	}
	return logrus.NewEntry(s.Log)
}
