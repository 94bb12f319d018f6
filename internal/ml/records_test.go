// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package ml_test

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testwatch/testwatch/internal/ml"
)

func TestRecords(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/.ml-anomalies-analyze_test_results/_search", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `"result_type":"record"`)
		assert.Contains(t, string(body), `"record_score":{"gte":25}`)
		assert.Contains(t, string(body), `"record_score":{"order":"desc"}`)

		fmt.Fprintln(w, `{
			"hits": {
				"hits": [
					{"_source":{"job_id":"analyze_test_results","result_type":"record","timestamp":1700000000000,"record_score":98.5,"probability":0.00001,"partition_field_value":"test-checkout-flow","function":"mean","actual":[4.2],"typical":[0.4]}},
					{"_source":{"job_id":"analyze_test_results","result_type":"record","timestamp":1700003600000,"record_score":51.2,"probability":0.0004,"partition_field_value":"test-login","function":"mean","actual":[1.8],"typical":[0.6]}}
				]
			}
		}`)
	})

	records, err := ml.Records(t.Context(), client, ml.RecordsQuery{
		JobID:    "analyze_test_results",
		MinScore: 25,
	})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "test-checkout-flow", records[0].PartitionFieldValue)
	assert.InDelta(t, 98.5, records[0].RecordScore, 0.001)
	assert.Equal(t, []float64{4.2}, records[0].Actual)
	assert.Equal(t, []float64{0.4}, records[0].Typical)
	assert.Equal(t, time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC), records[0].Time())
}

func TestRecordsTimestampRange(t *testing.T) {
	var body string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		body = string(raw)
		fmt.Fprintln(w, `{"hits":{"hits":[]}}`)
	})

	_, err := ml.Records(t.Context(), client, ml.RecordsQuery{
		JobID: "analyze_test_results",
		Start: time.UnixMilli(1700000000000),
		End:   time.UnixMilli(1700003600000),
	})
	require.NoError(t, err)
	assert.Contains(t, body, `"timestamp":{"gte":1700000000000,"lte":1700003600000}`)
}

func TestRecordsFallsBackToSharedIndex(t *testing.T) {
	var paths []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if strings.HasPrefix(r.URL.Path, "/.ml-anomalies-analyze_test_results") {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintln(w, `{"error":{"type":"index_not_found_exception","reason":"no such index [.ml-anomalies-analyze_test_results]"},"status":404}`)
			return
		}
		fmt.Fprintln(w, `{"hits":{"hits":[{"_source":{"job_id":"analyze_test_results","result_type":"record","timestamp":1700000000000,"record_score":76.0,"partition_field_value":"test-login"}}]}}`)
	})

	records, err := ml.Records(t.Context(), client, ml.RecordsQuery{JobID: "analyze_test_results"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{
		"/.ml-anomalies-analyze_test_results/_search",
		"/.ml-anomalies-shared/_search",
	}, paths)
}

func TestRecordsNoResultsIndex(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintln(w, `{"error":{"type":"index_not_found_exception","reason":"no such index"},"status":404}`)
	})

	_, err := ml.Records(t.Context(), client, ml.RecordsQuery{JobID: "analyze_test_results"})
	assert.ErrorContains(t, err, `no anomaly results index found for job "analyze_test_results"`)
}

func TestBuckets(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/.ml-anomalies-analyze_test_results/_search", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `"result_type":"bucket"`)
		assert.Contains(t, string(body), `"timestamp":{"order":"asc"}`)

		fmt.Fprintln(w, `{"hits":{"hits":[{"_source":{"job_id":"analyze_test_results","result_type":"bucket","timestamp":1700000000000,"anomaly_score":42.7,"event_count":120}}]}}`)
	})

	buckets, err := ml.Buckets(t.Context(), client, ml.RecordsQuery{JobID: "analyze_test_results"})
	require.NoError(t, err)
	require.Len(t, buckets, 1)

	assert.InDelta(t, 42.7, buckets[0].AnomalyScore, 0.001)
	assert.Equal(t, int64(120), buckets[0].EventCount)
	assert.Equal(t, time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC), buckets[0].Time())
}
