// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetValue(t *testing.T) {
	m := MapStr{
		"elasticsearch": map[string]interface{}{
			"host":     "https://localhost:9200",
			"username": "elastic",
		},
		"index": "test-results",
	}

	v, err := m.GetValue("elasticsearch.host")
	require.NoError(t, err)
	assert.Equal(t, "https://localhost:9200", v)

	v, err = m.GetValue("index")
	require.NoError(t, err)
	assert.Equal(t, "test-results", v)

	_, err = m.GetValue("elasticsearch.password")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	_, err = m.GetValue("kibana.host")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestPut(t *testing.T) {
	m := MapStr{}

	_, err := m.Put("kibana.host", "http://localhost:5601")
	require.NoError(t, err)

	v, err := m.GetValue("kibana.host")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5601", v)

	old, err := m.Put("kibana.host", "http://localhost:5602")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5601", old)
}
