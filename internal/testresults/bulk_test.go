// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package testresults

import (
	"bufio"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testwatch/testwatch/internal/elasticsearch"
)

func TestBulk(t *testing.T) {
	var indexPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		indexPath = r.URL.Path

		// One action line and one document line per indexed document.
		var actions int
		scanner := bufio.NewScanner(r.Body)
		for scanner.Scan() {
			if strings.Contains(scanner.Text(), `"index"`) {
				actions++
			}
		}

		items := make([]string, actions)
		for i := range items {
			items[i] = `{"index":{"status":201}}`
		}
		fmt.Fprintf(w, `{"took":1,"errors":false,"items":[%s]}`, strings.Join(items, ","))
	}))
	defer server.Close()

	client, err := elasticsearch.NewClient(elasticsearch.OptionWithAddress(server.URL))
	require.NoError(t, err)

	docs := Generate(GeneratorSpec{Docs: 10, Tests: 2, Seed: 1})
	indexed, err := Bulk(t.Context(), client, "test-results", docs)
	require.NoError(t, err)

	assert.Equal(t, int64(10), indexed)
	assert.Equal(t, "/test-results/_bulk", indexPath)
}
