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

package geoservice_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/suharev7/tesseract/geoservice"
)

func TestNeighborsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"neighbors":["06","32"]}`))
	}))
	defer srv.Close()

	c := geoservice.New(srv.URL)
	got, err := c.Neighbors(context.Background(), "01")
	require.NoError(t, err)
	require.Equal(t, []string{"06", "32"}, got)
}

func TestNeighborsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := geoservice.New(srv.URL)
	_, err := c.Neighbors(context.Background(), "01")
	require.True(t, geoservice.ErrUnavailable.Is(err))
}

func TestNeighborsDeadlineExceeded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.Write([]byte(`{"neighbors":[]}`))
	}))
	defer srv.Close()

	c := geoservice.New(srv.URL)
	c.Deadline = time.Millisecond
	_, err := c.Neighbors(context.Background(), "01")
	require.True(t, geoservice.ErrUnavailable.Is(err))
}
