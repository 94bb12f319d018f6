// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package kibana

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefaultTimeRange(t *testing.T) {
	var changes map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, CoreAPI+"/settings", r.URL.Path)

		var request struct {
			Changes map[string]string `json:"changes"`
		}
		err := json.NewDecoder(r.Body).Decode(&request)
		require.NoError(t, err)
		changes = request.Changes

		fmt.Fprint(w, `{"settings":{}}`)
	}))
	defer server.Close()

	client, err := NewClient(Address(server.URL), RetryMax(0))
	require.NoError(t, err)

	err = client.SetDefaultTimeRange(t.Context(), "2023-11-14T22:13:20Z", "2023-11-14T23:13:20Z")
	require.NoError(t, err)

	require.Contains(t, changes, timeDefaultsSetting)

	// The time picker setting is itself a JSON-encoded string.
	var timeDefaults map[string]string
	err = json.Unmarshal([]byte(changes[timeDefaultsSetting]), &timeDefaults)
	require.NoError(t, err)
	assert.Equal(t, "2023-11-14T22:13:20Z", timeDefaults["from"])
	assert.Equal(t, "2023-11-14T23:13:20Z", timeDefaults["to"])
}

func TestSetDefaultTimeRangeErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"statusCode":400,"error":"Bad Request"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client, err := NewClient(Address(server.URL), RetryMax(0))
	require.NoError(t, err)

	err = client.SetDefaultTimeRange(t.Context(), "now-2w", "now")
	assert.ErrorContains(t, err, "unexpected status code 400")
}
