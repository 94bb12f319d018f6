// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package kibana

import (
	"bytes"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientUndefinedHost(t *testing.T) {
	_, err := NewClient()
	assert.ErrorIs(t, err, ErrUndefinedHost)
}

func TestClientWithTLS(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Hi!")
	}))
	defer server.Close()

	caCertFile := writeCACertFile(t, server.Certificate())

	t.Run("no TLS config, should fail", func(t *testing.T) {
		client, err := NewClient(Address(server.URL), RetryMax(0))
		require.NoError(t, err)

		_, _, err = client.get(t.Context(), "/")
		assert.Error(t, err)
	})

	t.Run("with CA", func(t *testing.T) {
		client, err := NewClient(Address(server.URL), CertificateAuthority(caCertFile), RetryMax(0))
		require.NoError(t, err)

		_, _, err = client.get(t.Context(), "/")
		assert.NoError(t, err)
	})

	t.Run("skip TLS verify", func(t *testing.T) {
		client, err := NewClient(Address(server.URL), TLSSkipVerify(), RetryMax(0))
		require.NoError(t, err)

		_, _, err = client.get(t.Context(), "/")
		assert.NoError(t, err)
	})
}

func TestClientRequestHeaders(t *testing.T) {
	var headers http.Header
	var username, password string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		username, password, _ = r.BasicAuth()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(Address(server.URL), Username("elastic"), Password("changeme"), RetryMax(0))
	require.NoError(t, err)

	statusCode, _, err := client.get(t.Context(), "/api/status")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, statusCode)
	assert.Equal(t, "true", headers.Get("kbn-xsrf"))
	assert.Equal(t, "application/json", headers.Get("content-type"))
	assert.Equal(t, "elastic", username)
	assert.Equal(t, "changeme", password)
}

func writeCACertFile(t *testing.T, cert *x509.Certificate) string {
	var d bytes.Buffer
	err := pem.Encode(&d, &pem.Block{
		Type:  "CERTIFICATE",
		Bytes: cert.Raw,
	})
	require.NoError(t, err)

	caCertFile := filepath.Join(t.TempDir(), "ca.pem")
	err = os.WriteFile(caCertFile, d.Bytes(), 0644)
	require.NoError(t, err)

	return caCertFile
}
