// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package certs

import (
	"bytes"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemPoolWithCACertificate(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	var d bytes.Buffer
	err := pem.Encode(&d, &pem.Block{
		Type:  "CERTIFICATE",
		Bytes: server.Certificate().Raw,
	})
	require.NoError(t, err)

	caCertFile := filepath.Join(t.TempDir(), "ca.pem")
	err = os.WriteFile(caCertFile, d.Bytes(), 0644)
	require.NoError(t, err)

	pool, err := SystemPoolWithCACertificate(caCertFile)
	require.NoError(t, err)
	assert.NotNil(t, pool)

	client := http.Client{}
	_, err = client.Get(server.URL)
	require.Error(t, err, "certificate is signed by a custom authority, plain client should fail")
}

func TestSystemPoolWithCACertificateMissingFile(t *testing.T) {
	_, err := SystemPoolWithCACertificate(filepath.Join(t.TempDir(), "missing.pem"))
	assert.Error(t, err)
}

func TestSystemPoolWithCACertificateNotACertificate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.pem")
	err := os.WriteFile(path, []byte("not a certificate"), 0644)
	require.NoError(t, err)

	_, err = SystemPoolWithCACertificate(path)
	assert.ErrorContains(t, err, "no certificate found")
}
