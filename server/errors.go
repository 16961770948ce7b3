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
	"encoding/json"
	"net/http"

	"github.com/suharev7/tesseract/backend"
	"github.com/suharev7/tesseract/binder"
	"github.com/suharev7/tesseract/logiclayer"
	"github.com/suharev7/tesseract/schema"
)

// statusForError maps a closed set of go-errors.v1 kinds to an HTTP status.
// Anything that does not match one of these Is() checks is a 500.
func statusForError(err error) int {
	switch {
	case schema.ErrUnknownName.Is(err),
		schema.ErrMalformedArgument.Is(err),
		schema.ErrMissingConstraint.Is(err),
		binder.ErrPropertyWithoutDrill.Is(err),
		schema.ErrAmbiguousMember.Is(err):
		return http.StatusNotFound
	case logiclayer.ErrGeoserviceUnavailable.Is(err),
		backend.ErrBackendError.Is(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorResponse is the JSON body written on any non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error body with the status statusForError(err)
// derives. The underlying message is included unless debug is false and
// the error didn't resolve to a recognized kind, in which case a generic
// message is substituted so internal detail doesn't leak to callers.
func writeError(w http.ResponseWriter, err error, debug bool) {
	status := statusForError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError && !debug {
		msg = "internal error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
}
