// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package cmd

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testwatch/testwatch/internal/kibana"
)

func TestSyncSavedObjectsSimulatesFirst(t *testing.T) {
	var simulateParams []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		simulateParams = append(simulateParams, r.URL.Query().Get("simulate"))
		fmt.Fprint(w, `{"savedObjectsCreated":{},"savedObjectsDeleted":{},"datafeedsAdded":{},"datafeedsRemoved":{}}`)
	}))
	defer server.Close()

	client, err := kibana.NewClient(kibana.Address(server.URL), kibana.RetryMax(0))
	require.NoError(t, err)

	err = syncSavedObjects(t.Context(), client)
	require.NoError(t, err)

	assert.Equal(t, []string{"true", "false"}, simulateParams)
}

func TestSyncSavedObjectsAbortsOnError(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		http.Error(w, `{"statusCode":403,"error":"Forbidden"}`, http.StatusForbidden)
	}))
	defer server.Close()

	client, err := kibana.NewClient(kibana.Address(server.URL), kibana.RetryMax(0))
	require.NoError(t, err)

	err = syncSavedObjects(t.Context(), client)
	require.Error(t, err)
	assert.Equal(t, 1, requests)
}
