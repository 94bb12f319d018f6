// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package ml

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

const defaultBucketSpan = "15m"

// JobConfig is the definition of an anomaly detection job.
type JobConfig struct {
	ID              string          `json:"job_id,omitempty"`
	Description     string          `json:"description,omitempty"`
	AnalysisConfig  AnalysisConfig  `json:"analysis_config"`
	DataDescription DataDescription `json:"data_description"`
}

// AnalysisConfig describes which fields the job analyzes and how.
type AnalysisConfig struct {
	BucketSpan  string     `json:"bucket_span"`
	Detectors   []Detector `json:"detectors"`
	Influencers []string   `json:"influencers,omitempty"`
}

// Detector is a single analysis function applied by the job.
type Detector struct {
	Function           string `json:"function"`
	FieldName          string `json:"field_name,omitempty"`
	PartitionFieldName string `json:"partition_field_name,omitempty"`
}

// DataDescription tells the job how to interpret the time field of
// input documents.
type DataDescription struct {
	TimeField  string `json:"time_field"`
	TimeFormat string `json:"time_format,omitempty"`
}

// DatafeedConfig is the definition of a datafeed that retrieves data
// from Elasticsearch indices for analysis by a job.
type DatafeedConfig struct {
	ID      string                 `json:"datafeed_id,omitempty"`
	JobID   string                 `json:"job_id"`
	Indices []string               `json:"indices"`
	Query   map[string]interface{} `json:"query,omitempty"`
}

// DefaultJobConfig returns the job definition used to watch test results:
// mean execution time per test, partitioned and influenced by the test name,
// over 15 minute buckets.
func DefaultJobConfig(jobID, timeField string) JobConfig {
	return JobConfig{
		ID:          jobID,
		Description: "Detect unusual mean execution times of test runs, per test name",
		AnalysisConfig: AnalysisConfig{
			BucketSpan: defaultBucketSpan,
			Detectors: []Detector{
				{
					Function:           "mean",
					FieldName:          "time",
					PartitionFieldName: "test_name",
				},
			},
			Influencers: []string{"test_name"},
		},
		DataDescription: DataDescription{
			TimeField:  timeField,
			TimeFormat: "epoch_ms",
		},
	}
}

// DefaultDatafeedConfig returns the datafeed definition feeding the given job
// with all documents from the given index.
func DefaultDatafeedConfig(jobID, index string) DatafeedConfig {
	return DatafeedConfig{
		ID:      DatafeedID(jobID),
		JobID:   jobID,
		Indices: []string{index},
		Query: map[string]interface{}{
			"match_all": map[string]interface{}{},
		},
	}
}

// DatafeedID returns the identifier of the datafeed attached to the given job.
func DatafeedID(jobID string) string {
	return "datafeed-" + jobID
}

// DiffJobConfigs returns a unified diff between two job definitions, or an
// empty string if they are equivalent.
func DiffJobConfigs(existing, wanted JobConfig) (string, error) {
	existingJSON, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshalling existing job configuration failed: %w", err)
	}
	wantedJSON, err := json.MarshalIndent(wanted, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshalling wanted job configuration failed: %w", err)
	}

	var buf bytes.Buffer
	err = difflib.WriteUnifiedDiff(&buf, difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(existingJSON)),
		B:        difflib.SplitLines(string(wantedJSON)),
		FromFile: "existing",
		ToFile:   "wanted",
		Context:  3,
	})
	if err != nil {
		return "", fmt.Errorf("comparing job configurations failed: %w", err)
	}
	return buf.String(), nil
}
