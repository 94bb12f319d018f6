// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v7/esapi"

	"github.com/testwatch/testwatch/internal/elasticsearch"
	"github.com/testwatch/testwatch/internal/logger"
)

// sharedResultsIndex holds results of jobs without a dedicated results index.
const sharedResultsIndex = ".ml-anomalies-shared"

const defaultResultsSize = 1000

// RecordsQuery selects which anomaly results to fetch.
type RecordsQuery struct {
	JobID    string
	Start    time.Time // zero value means unbounded
	End      time.Time // zero value means unbounded
	MinScore float64
	Size     int
}

// Record is a single anomaly found by a job within one bucket.
type Record struct {
	JobID               string    `json:"job_id"`
	Timestamp           int64     `json:"timestamp"`
	RecordScore         float64   `json:"record_score"`
	Probability         float64   `json:"probability"`
	PartitionFieldValue string    `json:"partition_field_value"`
	Function            string    `json:"function"`
	Actual              []float64 `json:"actual"`
	Typical             []float64 `json:"typical"`
}

// Time returns the record timestamp as UTC time.
func (r Record) Time() time.Time {
	return time.UnixMilli(r.Timestamp).UTC()
}

// Bucket is the aggregated anomaly result over one bucket span. Buckets
// exist even when no record rises above the anomaly threshold.
type Bucket struct {
	JobID        string  `json:"job_id"`
	Timestamp    int64   `json:"timestamp"`
	AnomalyScore float64 `json:"anomaly_score"`
	EventCount   int64   `json:"event_count"`
}

// Time returns the bucket timestamp as UTC time.
func (b Bucket) Time() time.Time {
	return time.UnixMilli(b.Timestamp).UTC()
}

// Records fetches anomaly records of a job, most anomalous first.
func Records(ctx context.Context, es *elasticsearch.Client, query RecordsQuery) ([]Record, error) {
	filters := []map[string]interface{}{
		{"term": map[string]interface{}{"job_id": query.JobID}},
		{"term": map[string]interface{}{"result_type": "record"}},
		{"range": map[string]interface{}{"record_score": map[string]interface{}{"gte": query.MinScore}}},
	}
	if rangeFilter := timestampRange(query.Start, query.End); rangeFilter != nil {
		filters = append(filters, rangeFilter)
	}

	body, err := searchAnomalies(ctx, es, query.JobID, map[string]interface{}{
		"size":  resultsSize(query.Size),
		"query": map[string]interface{}{"bool": map[string]interface{}{"filter": filters}},
		"sort": []map[string]interface{}{
			{"record_score": map[string]interface{}{"order": "desc"}},
		},
	})
	if err != nil {
		return nil, err
	}

	var results struct {
		Hits struct {
			Hits []struct {
				Source Record `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	err = json.Unmarshal(body, &results)
	if err != nil {
		return nil, fmt.Errorf("decoding anomaly records failed: %w", err)
	}

	records := make([]Record, 0, len(results.Hits.Hits))
	for _, hit := range results.Hits.Hits {
		records = append(records, hit.Source)
	}
	return records, nil
}

// Buckets fetches bucket results of a job in chronological order. They are
// the fallback data source for reports when no anomaly records exist yet.
func Buckets(ctx context.Context, es *elasticsearch.Client, query RecordsQuery) ([]Bucket, error) {
	body, err := searchAnomalies(ctx, es, query.JobID, map[string]interface{}{
		"size": resultsSize(query.Size),
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []map[string]interface{}{
					{"term": map[string]interface{}{"job_id": query.JobID}},
					{"term": map[string]interface{}{"result_type": "bucket"}},
				},
			},
		},
		"sort": []map[string]interface{}{
			{"timestamp": map[string]interface{}{"order": "asc"}},
		},
	})
	if err != nil {
		return nil, err
	}

	var results struct {
		Hits struct {
			Hits []struct {
				Source Bucket `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	err = json.Unmarshal(body, &results)
	if err != nil {
		return nil, fmt.Errorf("decoding bucket results failed: %w", err)
	}

	buckets := make([]Bucket, 0, len(results.Hits.Hits))
	for _, hit := range results.Hits.Hits {
		buckets = append(buckets, hit.Source)
	}
	return buckets, nil
}

// searchAnomalies queries the results index dedicated to the job, falling
// back to the shared results index when there is no dedicated one.
func searchAnomalies(ctx context.Context, es *elasticsearch.Client, jobID string, query map[string]interface{}) ([]byte, error) {
	queryJSON, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("marshalling results query failed: %w", err)
	}

	body, notFound, err := searchResultsIndex(ctx, es, ".ml-anomalies-"+jobID, queryJSON)
	if err != nil {
		return nil, err
	}
	if notFound {
		logger.Debugf("No dedicated results index for job %q, trying %q", jobID, sharedResultsIndex)
		body, notFound, err = searchResultsIndex(ctx, es, sharedResultsIndex, queryJSON)
		if err != nil {
			return nil, err
		}
		if notFound {
			return nil, fmt.Errorf("no anomaly results index found for job %q", jobID)
		}
	}
	return body, nil
}

func searchResultsIndex(ctx context.Context, es *elasticsearch.Client, index string, query []byte) (body []byte, notFound bool, err error) {
	resp, err := esapi.SearchRequest{
		Index: []string{index},
		Body:  bytes.NewReader(query),
	}.Do(ctx, es)
	if err != nil {
		return nil, false, fmt.Errorf("searching index %q failed: %w", index, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, true, nil
	}
	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("reading search response failed: %w", err)
	}
	if resp.IsError() {
		return nil, false, fmt.Errorf("searching index %q failed: %w", index, elasticsearch.NewError(body))
	}
	return body, false, nil
}

func timestampRange(start, end time.Time) map[string]interface{} {
	bounds := map[string]interface{}{}
	if !start.IsZero() {
		bounds["gte"] = start.UnixMilli()
	}
	if !end.IsZero() {
		bounds["lte"] = end.UnixMilli()
	}
	if len(bounds) == 0 {
		return nil
	}
	return map[string]interface{}{"range": map[string]interface{}{"timestamp": bounds}}
}

func resultsSize(size int) int {
	if size <= 0 {
		return defaultResultsSize
	}
	return size
}
