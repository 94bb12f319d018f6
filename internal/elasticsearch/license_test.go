// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package elasticsearch_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testwatch/testwatch/internal/elasticsearch"
	"github.com/testwatch/testwatch/internal/elasticsearch/test"
)

func TestGetLicense(t *testing.T) {
	client := test.NewClient(t, "./testdata/elasticsearch-8-trial")

	license, err := client.GetLicense(t.Context())
	require.NoError(t, err)

	assert.Equal(t, "active", license.Status)
	assert.Equal(t, "trial", license.Type)
	assert.Equal(t, "elasticsearch", license.IssuedTo)
}

func TestStartTrial(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/_license/start_trial", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("acknowledge"))
		fmt.Fprint(w, `{"acknowledged":true,"trial_was_started":true,"type":"trial"}`)
	}))
	defer server.Close()

	client, err := elasticsearch.NewClient(elasticsearch.OptionWithAddress(server.URL))
	require.NoError(t, err)

	trial, err := client.StartTrial(t.Context())
	require.NoError(t, err)
	assert.True(t, trial.TrialWasStarted)
	assert.Equal(t, "trial", trial.Type)
}

func TestStartTrialAlreadyActivated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"acknowledged":true,"trial_was_started":false,"error_message":"Operation failed: Trial was already activated."}`)
	}))
	defer server.Close()

	client, err := elasticsearch.NewClient(elasticsearch.OptionWithAddress(server.URL))
	require.NoError(t, err)

	trial, err := client.StartTrial(t.Context())
	require.NoError(t, err)
	assert.False(t, trial.TrialWasStarted)
}

func TestStartTrialNonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, `<html><body>Bad Gateway</body></html>`)
	}))
	defer server.Close()

	client, err := elasticsearch.NewClient(elasticsearch.OptionWithAddress(server.URL))
	require.NoError(t, err)

	_, err = client.StartTrial(t.Context())
	require.Error(t, err)
	assert.ErrorContains(t, err, "Bad Gateway")
	assert.NotContains(t, err.Error(), "decoding")
}

func TestStartTrialError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"type":"illegal_state_exception","reason":"license is not ready"},"status":500}`)
	}))
	defer server.Close()

	client, err := elasticsearch.NewClient(elasticsearch.OptionWithAddress(server.URL))
	require.NoError(t, err)

	_, err = client.StartTrial(t.Context())
	require.Error(t, err)
	assert.ErrorContains(t, err, "illegal_state_exception")
}
