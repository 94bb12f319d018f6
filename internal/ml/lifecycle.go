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

	"github.com/elastic/go-elasticsearch/v7/esapi"

	"github.com/testwatch/testwatch/internal/elasticsearch"
	"github.com/testwatch/testwatch/internal/logger"
)

// CreateJob creates the anomaly detection job. It fails if a job with the
// same identifier already exists.
func CreateJob(ctx context.Context, es *elasticsearch.Client, job JobConfig) error {
	logger.Debugf("Create anomaly detection job %q", job.ID)

	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshalling job configuration failed: %w", err)
	}

	resp, err := esapi.MLPutJobRequest{
		JobID: job.ID,
		Body:  bytes.NewReader(body),
	}.Do(ctx, es)
	if err != nil {
		return fmt.Errorf("creating anomaly detection job %q failed: %w", job.ID, err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("creating anomaly detection job %q failed: %w", job.ID, responseError(resp))
	}
	return nil
}

// GetJob reads back the definition of an existing anomaly detection job.
// It returns nil if the job does not exist.
func GetJob(ctx context.Context, es *elasticsearch.Client, jobID string) (*JobConfig, error) {
	resp, err := esapi.MLGetJobsRequest{
		JobID: jobID,
	}.Do(ctx, es)
	if err != nil {
		return nil, fmt.Errorf("getting anomaly detection job %q failed: %w", jobID, err)
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
		return nil, fmt.Errorf("getting anomaly detection job %q failed: %w", jobID, elasticsearch.NewError(body))
	}

	var result struct {
		Jobs []JobConfig `json:"jobs"`
	}
	err = json.Unmarshal(body, &result)
	if err != nil {
		return nil, fmt.Errorf("decoding job response failed: %w", err)
	}
	if len(result.Jobs) == 0 {
		return nil, nil
	}
	return &result.Jobs[0], nil
}

// CreateDatafeed creates the datafeed feeding an anomaly detection job.
func CreateDatafeed(ctx context.Context, es *elasticsearch.Client, datafeed DatafeedConfig) error {
	logger.Debugf("Create datafeed %q for job %q", datafeed.ID, datafeed.JobID)

	body, err := json.Marshal(datafeed)
	if err != nil {
		return fmt.Errorf("marshalling datafeed configuration failed: %w", err)
	}

	resp, err := esapi.MLPutDatafeedRequest{
		DatafeedID: datafeed.ID,
		Body:       bytes.NewReader(body),
	}.Do(ctx, es)
	if err != nil {
		return fmt.Errorf("creating datafeed %q failed: %w", datafeed.ID, err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("creating datafeed %q failed: %w", datafeed.ID, responseError(resp))
	}
	return nil
}

// OpenJob opens the anomaly detection job so it can receive data.
func OpenJob(ctx context.Context, es *elasticsearch.Client, jobID string) error {
	logger.Debugf("Open anomaly detection job %q", jobID)

	resp, err := esapi.MLOpenJobRequest{
		JobID: jobID,
	}.Do(ctx, es)
	if err != nil {
		return fmt.Errorf("opening anomaly detection job %q failed: %w", jobID, err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("opening anomaly detection job %q failed: %w", jobID, responseError(resp))
	}
	return nil
}

// StartDatafeed starts the datafeed over the given time window. The request
// body carries the window bounds and nothing else, so the datafeed processes
// exactly the documents the window was derived from and then stops.
func StartDatafeed(ctx context.Context, es *elasticsearch.Client, datafeedID string, window Window) error {
	start, end := window.Bounds()
	logger.Debugf("Start datafeed %q from %s to %s", datafeedID, start, end)

	body, err := json.Marshal(struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}{
		Start: start,
		End:   end,
	})
	if err != nil {
		return fmt.Errorf("marshalling datafeed bounds failed: %w", err)
	}

	resp, err := esapi.MLStartDatafeedRequest{
		DatafeedID: datafeedID,
		Body:       bytes.NewReader(body),
	}.Do(ctx, es)
	if err != nil {
		return fmt.Errorf("starting datafeed %q failed: %w", datafeedID, err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("starting datafeed %q failed: %w", datafeedID, responseError(resp))
	}
	return nil
}

// StopDatafeed stops a started datafeed. It succeeds if the datafeed does
// not exist.
func StopDatafeed(ctx context.Context, es *elasticsearch.Client, datafeedID string, force bool) error {
	logger.Debugf("Stop datafeed %q", datafeedID)

	resp, err := esapi.MLStopDatafeedRequest{
		DatafeedID: datafeedID,
		Force:      esapi.BoolPtr(force),
	}.Do(ctx, es)
	if err != nil {
		return fmt.Errorf("stopping datafeed %q failed: %w", datafeedID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.IsError() {
		return fmt.Errorf("stopping datafeed %q failed: %w", datafeedID, responseError(resp))
	}
	return nil
}

// CloseJob closes an anomaly detection job. It succeeds if the job does
// not exist.
func CloseJob(ctx context.Context, es *elasticsearch.Client, jobID string, force bool) error {
	logger.Debugf("Close anomaly detection job %q", jobID)

	resp, err := esapi.MLCloseJobRequest{
		JobID: jobID,
		Force: esapi.BoolPtr(force),
	}.Do(ctx, es)
	if err != nil {
		return fmt.Errorf("closing anomaly detection job %q failed: %w", jobID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.IsError() {
		return fmt.Errorf("closing anomaly detection job %q failed: %w", jobID, responseError(resp))
	}
	return nil
}

// DeleteDatafeed removes a datafeed. It succeeds if the datafeed does
// not exist.
func DeleteDatafeed(ctx context.Context, es *elasticsearch.Client, datafeedID string) error {
	logger.Debugf("Delete datafeed %q", datafeedID)

	resp, err := esapi.MLDeleteDatafeedRequest{
		DatafeedID: datafeedID,
	}.Do(ctx, es)
	if err != nil {
		return fmt.Errorf("deleting datafeed %q failed: %w", datafeedID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.IsError() {
		return fmt.Errorf("deleting datafeed %q failed: %w", datafeedID, responseError(resp))
	}
	return nil
}

// DeleteJob removes an anomaly detection job and its results. It succeeds
// if the job does not exist.
func DeleteJob(ctx context.Context, es *elasticsearch.Client, jobID string) error {
	logger.Debugf("Delete anomaly detection job %q", jobID)

	resp, err := esapi.MLDeleteJobRequest{
		JobID: jobID,
	}.Do(ctx, es)
	if err != nil {
		return fmt.Errorf("deleting anomaly detection job %q failed: %w", jobID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.IsError() {
		return fmt.Errorf("deleting anomaly detection job %q failed: %w", jobID, responseError(resp))
	}
	return nil
}

func responseError(resp *esapi.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading error response failed: %w", err)
	}
	return elasticsearch.NewError(body)
}
