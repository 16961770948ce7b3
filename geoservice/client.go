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

// Package geoservice is the HTTP client for the external neighbor-lookup
// service consulted by ":neighbors" cuts on geo-tagged dimensions.
package geoservice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"gopkg.in/src-d/go-errors.v1"
)

// ErrUnavailable is returned when the geo-service call fails or exceeds
// its deadline.
var ErrUnavailable = errors.NewKind("geo-service unavailable: %s")

// Client calls an external geo-service to expand a geographic member id
// into its neighbor ids, subject to a configurable total deadline.
type Client struct {
	BaseURL  string
	Deadline time.Duration
	HTTP     *http.Client
}

// New returns a Client with a default 2s deadline and http.DefaultClient.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:  baseURL,
		Deadline: 2 * time.Second,
		HTTP:     http.DefaultClient,
	}
}

type neighborsResponse struct {
	Neighbors []string `json:"neighbors"`
}

// Neighbors fetches the neighbor ids of geoID. A deadline exceeded or
// non-2xx response surfaces as ErrUnavailable.
func (c *Client) Neighbors(ctx context.Context, geoID string) ([]string, error) {
	deadline := c.Deadline
	if deadline <= 0 {
		deadline = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	url := fmt.Sprintf("%s/neighbors/%s", c.BaseURL, geoID)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, ErrUnavailable.New(err.Error())
	}
	req = req.WithContext(ctx)

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, ErrUnavailable.New(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, ErrUnavailable.New(fmt.Sprintf("status %d", resp.StatusCode))
	}

	var parsed neighborsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, ErrUnavailable.New(err.Error())
	}
	return parsed.Neighbors, nil
}
