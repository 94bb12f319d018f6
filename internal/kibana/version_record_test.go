// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package kibana_test

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/dnaeon/go-vcr.v3/cassette"

	kibanatest "github.com/testwatch/testwatch/internal/kibana/test"
	"github.com/testwatch/testwatch/internal/stack"
)

// Responses are recorded on the first run against a live stack. To update
// the record, remove the file and run the test with the stack environment
// variables set.
func TestVersionRecorded(t *testing.T) {
	const record = "testdata/kibana-8-mock-version"

	_, err := os.Stat(cassette.New(record).File)
	if errors.Is(err, os.ErrNotExist) && os.Getenv(stack.KibanaHostEnv) == "" {
		t.Skip("record file missing and Kibana host required:", stack.KibanaHostEnv)
	}

	client := kibanatest.NewClient(t, record)

	versionInfo, err := client.Version(t.Context())
	require.NoError(t, err)
	assert.NotEmpty(t, versionInfo.Number)
}
