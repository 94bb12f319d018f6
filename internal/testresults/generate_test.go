// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package testresults

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	end := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	docs := Generate(GeneratorSpec{
		Docs:   200,
		Tests:  3,
		Window: time.Hour,
		End:    end,
		Seed:   42,
	})
	require.Len(t, docs, 200)

	names := map[string]bool{}
	start := end.Add(-time.Hour).UnixMilli()
	last := int64(0)
	for _, doc := range docs {
		assert.GreaterOrEqual(t, doc.Timestamp, start)
		assert.Less(t, doc.Timestamp, end.UnixMilli())
		assert.GreaterOrEqual(t, doc.Timestamp, last)
		last = doc.Timestamp

		assert.Greater(t, doc.Time, 0.0)
		assert.Contains(t, []string{"pass", "fail"}, doc.Status)
		names[doc.TestName] = true
	}
	assert.Len(t, names, 3)
}

func TestGenerateDeterministic(t *testing.T) {
	spec := GeneratorSpec{
		Docs:   50,
		Tests:  2,
		Window: time.Hour,
		End:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Seed:   7,
	}
	assert.Equal(t, Generate(spec), Generate(spec))
}

func TestGenerateDefaults(t *testing.T) {
	docs := Generate(GeneratorSpec{})
	assert.Len(t, docs, defaultDocs)
}
