// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package stack

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testwatch/testwatch/internal/elasticsearch"
	"github.com/testwatch/testwatch/internal/kibana"
)

func TestWaitForElasticsearchStopsAtFirstSuccess(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		if atomic.AddInt32(&requests, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"cluster_name":"testing","version":{"number":"8.10.0"}}`))
	}))
	defer server.Close()

	client, err := elasticsearch.NewClient(elasticsearch.OptionWithAddress(server.URL))
	require.NoError(t, err)

	err = WaitForElasticsearch(t.Context(), client, time.Minute)
	require.NoError(t, err)

	// The first request fails, the client retries and gets a success,
	// after what no more probes must be issued.
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
}

func TestWaitForElasticsearchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, err := elasticsearch.NewClient(elasticsearch.OptionWithAddress(server.URL))
	require.NoError(t, err)

	err = WaitForElasticsearch(t.Context(), client, 10*time.Millisecond)
	assert.ErrorContains(t, err, "not ready after")
}

func TestWaitForKibanaStopsAtFirstSuccess(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Write([]byte(`{"name":"kibana","version":{"number":"8.10.0"},"status":{"overall":{"level":"available"}}}`))
	}))
	defer server.Close()

	client, err := kibana.NewClient(kibana.Address(server.URL))
	require.NoError(t, err)

	err = WaitForKibana(t.Context(), client, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestWaitForKibanaTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, err := kibana.NewClient(kibana.Address(server.URL), kibana.RetryMax(0))
	require.NoError(t, err)

	err = WaitForKibana(t.Context(), client, 10*time.Millisecond)
	assert.ErrorContains(t, err, "not ready after")
}
