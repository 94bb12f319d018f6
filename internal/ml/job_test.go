// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package ml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testwatch/testwatch/internal/ml"
)

func TestDatafeedID(t *testing.T) {
	assert.Equal(t, "datafeed-analyze_test_results", ml.DatafeedID("analyze_test_results"))
}

func TestDiffJobConfigsEquivalent(t *testing.T) {
	diff, err := ml.DiffJobConfigs(
		ml.DefaultJobConfig("analyze_test_results", "timestamp"),
		ml.DefaultJobConfig("analyze_test_results", "timestamp"),
	)
	require.NoError(t, err)
	assert.Empty(t, diff)
}

func TestDiffJobConfigsChanged(t *testing.T) {
	existing := ml.DefaultJobConfig("analyze_test_results", "timestamp")
	existing.AnalysisConfig.BucketSpan = "30m"

	diff, err := ml.DiffJobConfigs(existing, ml.DefaultJobConfig("analyze_test_results", "timestamp"))
	require.NoError(t, err)
	assert.Contains(t, diff, `-    "bucket_span": "30m"`)
	assert.Contains(t, diff, `+    "bucket_span": "15m"`)
}
