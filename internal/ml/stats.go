// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package ml

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v7/esapi"

	"github.com/testwatch/testwatch/internal/elasticsearch"
)

// JobStats describes the run state of an anomaly detection job.
type JobStats struct {
	ID         string `json:"job_id"`
	State      string `json:"state"`
	DataCounts struct {
		ProcessedRecordCount  int64 `json:"processed_record_count"`
		LatestRecordTimestamp int64 `json:"latest_record_timestamp"`
	} `json:"data_counts"`
}

// DatafeedStats describes the run state of a datafeed.
type DatafeedStats struct {
	ID    string `json:"datafeed_id"`
	State string `json:"state"`
}

// GetJobStats reads the stats of an anomaly detection job. It returns nil
// if the job does not exist.
func GetJobStats(ctx context.Context, es *elasticsearch.Client, jobID string) (*JobStats, error) {
	resp, err := esapi.MLGetJobStatsRequest{
		JobID: jobID,
	}.Do(ctx, es)
	if err != nil {
		return nil, fmt.Errorf("getting stats of job %q failed: %w", jobID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("getting stats of job %q failed: %w", jobID, elasticsearch.NewError(body))
	}

	var result struct {
		Jobs []JobStats `json:"jobs"`
	}
	err = json.Unmarshal(body, &result)
	if err != nil {
		return nil, fmt.Errorf("decoding job stats failed: %w", err)
	}
	if len(result.Jobs) == 0 {
		return nil, nil
	}
	return &result.Jobs[0], nil
}

// GetDatafeedStats reads the stats of a datafeed. It returns nil if the
// datafeed does not exist.
func GetDatafeedStats(ctx context.Context, es *elasticsearch.Client, datafeedID string) (*DatafeedStats, error) {
	resp, err := esapi.MLGetDatafeedStatsRequest{
		DatafeedID: datafeedID,
	}.Do(ctx, es)
	if err != nil {
		return nil, fmt.Errorf("getting stats of datafeed %q failed: %w", datafeedID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("getting stats of datafeed %q failed: %w", datafeedID, elasticsearch.NewError(body))
	}

	var result struct {
		Datafeeds []DatafeedStats `json:"datafeeds"`
	}
	err = json.Unmarshal(body, &result)
	if err != nil {
		return nil, fmt.Errorf("decoding datafeed stats failed: %w", err)
	}
	if len(result.Datafeeds) == 0 {
		return nil, nil
	}
	return &result.Datafeeds[0], nil
}
