// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package ml_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testwatch/testwatch/internal/ml"
)

func TestDeriveWindow(t *testing.T) {
	var requests int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		require.Equal(t, "/test-results/_search", r.URL.Path)

		var query struct {
			Size int `json:"size"`
			Sort []map[string]struct {
				Order string `json:"order"`
			} `json:"sort"`
		}
		err := json.NewDecoder(r.Body).Decode(&query)
		require.NoError(t, err)
		require.Equal(t, 1, query.Size)
		require.Len(t, query.Sort, 1)

		timestamp := int64(1700000000000)
		if query.Sort[0]["timestamp"].Order == "desc" {
			timestamp = 1700003600000
		}
		fmt.Fprintf(w, `{"hits":{"hits":[{"_source":{"timestamp":%d,"test_name":"test-checkout-flow","time":0.42}}]}}`, timestamp)
	})

	window, err := ml.DeriveWindow(t.Context(), client, "test-results", "timestamp")
	require.NoError(t, err)

	start, end := window.Bounds()
	assert.Equal(t, "2023-11-14T22:13:20Z", start)
	assert.Equal(t, "2023-11-14T23:13:20Z", end)
	assert.Equal(t, 2, requests)
}

func TestDeriveWindowEmptyIndex(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"hits":{"hits":[]}}`)
	})

	_, err := ml.DeriveWindow(t.Context(), client, "test-results", "timestamp")
	assert.ErrorContains(t, err, "mapped as a date")
}

func TestDeriveWindowFieldMissing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"hits":{"hits":[{"_source":{"test_name":"test-checkout-flow"}}]}}`)
	})

	_, err := ml.DeriveWindow(t.Context(), client, "test-results", "timestamp")
	assert.ErrorContains(t, err, `no "timestamp" values found in index "test-results"`)
}

func TestDeriveWindowSearchError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintln(w, `{"error":{"root_cause":[{"type":"index_not_found_exception","reason":"no such index [test-results]"}],"type":"index_not_found_exception","reason":"no such index [test-results]"},"status":404}`)
	})

	_, err := ml.DeriveWindow(t.Context(), client, "test-results", "timestamp")
	assert.ErrorContains(t, err, `searching index "test-results" failed`)
}
