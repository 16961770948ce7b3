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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suharev7/tesseract/backend"
	"github.com/suharev7/tesseract/logiclayer"
	"github.com/suharev7/tesseract/schema"
)

func TestWriteTableFormatsCSVAndJSON(t *testing.T) {
	tbl := &table{Columns: []string{"County", "Revenue"}, Rows: [][]string{{"Autauga", "100"}}}

	recCSV := httptest.NewRecorder()
	writeTable(recCSV, tbl, ".csv")
	require.Equal(t, "text/csv", recCSV.Header().Get("Content-Type"))
	require.Contains(t, recCSV.Body.String(), "County,Revenue")

	recJSON := httptest.NewRecorder()
	writeTable(recJSON, tbl, "")
	require.Equal(t, "application/json", recJSON.Header().Get("Content-Type"))
	require.Contains(t, recJSON.Body.String(), "Autauga")
}

func TestStatusForErrorMapsKnownKinds(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		expected int
	}{
		{"unknown name", schema.ErrUnknownName.New("cube", "Foo"), http.StatusNotFound},
		{"malformed argument", schema.ErrMalformedArgument.New("time", "bogus"), http.StatusNotFound},
		{"missing constraint", schema.ErrMissingConstraint.New("no measure"), http.StatusNotFound},
		{"ambiguous member", schema.ErrAmbiguousMember.New("01", nil), http.StatusNotFound},
		{"geoservice unavailable", logiclayer.ErrGeoserviceUnavailable.New("timeout"), http.StatusBadGateway},
		{"backend error", backend.ErrBackendError.New("connection refused"), http.StatusBadGateway},
		{"unrecognized", errPlain("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.expected, statusForError(c.err))
		})
	}
}

type errPlain string

func (e errPlain) Error() string { return string(e) }
