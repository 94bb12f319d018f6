// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package elasticsearch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/testwatch/testwatch/internal/elasticsearch"
)

func TestNewError(t *testing.T) {
	const resp = `{
  "error" : {
    "root_cause" : [
      {
        "type" : "resource_already_exists_exception",
        "reason" : "The job cannot be created with the Id 'analyze_test_results'. The Id is already used."
      }
    ],
    "type" : "resource_already_exists_exception",
    "reason" : "The job cannot be created with the Id 'analyze_test_results'. The Id is already used."
  },
  "status" : 400
}`

	const expected = `elasticsearch error (type=resource_already_exists_exception): The job cannot be created with the Id 'analyze_test_results'. The Id is already used.
Root cause:
[
  {
    "type": "resource_already_exists_exception",
    "reason": "The job cannot be created with the Id 'analyze_test_results'. The Id is already used."
  }
]`
	err := elasticsearch.NewError([]byte(resp))
	assert.Equal(t, expected, err.Error())
}

func TestNewErrorWithoutRootCause(t *testing.T) {
	const resp = `{"error":{"type":"security_exception","reason":"missing authentication credentials"},"status":401}`

	err := elasticsearch.NewError([]byte(resp))
	assert.Equal(t, "elasticsearch error (type=security_exception): missing authentication credentials", err.Error())
}

func TestNewErrorUnparseableBody(t *testing.T) {
	err := elasticsearch.NewError([]byte("upstream connect error"))
	assert.Equal(t, "elasticsearch error: upstream connect error", err.Error())
}
