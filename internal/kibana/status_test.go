// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package kibana

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckHealth(t *testing.T) {
	cases := []struct {
		title      string
		statusCode int
		healthy    bool
	}{
		{"available", http.StatusOK, true},
		{"degraded but responding", http.StatusOK, true},
		{"unavailable", http.StatusServiceUnavailable, false},
		{"not found", http.StatusNotFound, false},
	}

	for _, c := range cases {
		t.Run(c.title, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(c.statusCode)
			}))
			defer server.Close()

			client, err := NewClient(Address(server.URL), RetryMax(0))
			require.NoError(t, err)

			err = client.CheckHealth(t.Context())
			if c.healthy {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprintln(w, `{"version":{"number":"8.10.2","build_flavor":"traditional","build_snapshot":false}}`)
	}))
	defer server.Close()

	client, err := NewClient(Address(server.URL), RetryMax(0))
	require.NoError(t, err)

	versionInfo, err := client.Version(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "8.10.2", versionInfo.Number)
	assert.Equal(t, "8.10.2", versionInfo.Version())

	// Later calls are served from the memoized response.
	_, err = client.Version(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, requests)
}

func TestVersionInfoSnapshot(t *testing.T) {
	versionInfo := VersionInfo{Number: "8.10.2", BuildSnapshot: true}
	assert.Equal(t, "8.10.2-SNAPSHOT", versionInfo.Version())
}
