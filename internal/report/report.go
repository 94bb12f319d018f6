// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

// Package report summarizes the anomaly results produced by an anomaly
// detection job into severity counts and a top scored listing.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gobwas/glob"

	"github.com/testwatch/testwatch/internal/elasticsearch"
	"github.com/testwatch/testwatch/internal/ml"
)

// Severity thresholds on the record score.
const (
	criticalThreshold = 75
	majorThreshold    = 50
	minorThreshold    = 25
)

// Severity classifies an anomaly by its record score.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
	SeverityWarning  Severity = "warning"
)

// SeverityOf returns the severity of the given record score.
func SeverityOf(score float64) Severity {
	switch {
	case score > criticalThreshold:
		return SeverityCritical
	case score > majorThreshold:
		return SeverityMajor
	case score > minorThreshold:
		return SeverityMinor
	default:
		return SeverityWarning
	}
}

// Options select which anomaly results to summarize.
type Options struct {
	JobID string

	// Since limits the report to anomalies newer than the look-back
	// period. Zero means unbounded.
	Since time.Duration

	// MinScore drops records below the given record score.
	MinScore float64

	// TestName filters records by test name, as a glob pattern.
	TestName string

	// Top is the number of anomalies listed individually.
	Top int
}

const defaultTop = 5

// Anomaly is a single reported anomaly.
type Anomaly struct {
	TestName string    `json:"test_name"`
	Score    float64   `json:"score"`
	Severity Severity  `json:"severity"`
	Time     time.Time `json:"time"`
	Function string    `json:"function,omitempty"`
	Actual   []float64 `json:"actual,omitempty"`
	Typical  []float64 `json:"typical,omitempty"`
}

// Summary counts anomalies per severity.
type Summary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	Major    int `json:"major"`
	Minor    int `json:"minor"`
	Warning  int `json:"warning"`
}

// Report is the compiled anomaly report of one job.
type Report struct {
	JobID       string    `json:"job_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Summary     Summary   `json:"summary"`
	Top         []Anomaly `json:"top"`

	// FromBuckets is set when no record results exist and the report
	// falls back to bucket scores. Bucket results are not attributed
	// to single tests.
	FromBuckets bool `json:"from_buckets,omitempty"`
}

// Generate fetches the anomaly results of the job and compiles the report.
// When the job produced no record results, bucket results are reported
// instead.
func Generate(ctx context.Context, es *elasticsearch.Client, options Options) (*Report, error) {
	query := ml.RecordsQuery{
		JobID:    options.JobID,
		MinScore: options.MinScore,
	}
	if options.Since > 0 {
		query.Start = time.Now().Add(-options.Since)
	}

	records, err := ml.Records(ctx, es, query)
	if err != nil {
		return nil, fmt.Errorf("fetching anomaly records failed: %w", err)
	}

	if len(records) > 0 {
		return compileRecords(records, options)
	}

	buckets, err := ml.Buckets(ctx, es, query)
	if err != nil {
		return nil, fmt.Errorf("fetching bucket results failed: %w", err)
	}
	return compileBuckets(buckets, options)
}

func compileRecords(records []ml.Record, options Options) (*Report, error) {
	if options.TestName != "" {
		pattern, err := glob.Compile(options.TestName)
		if err != nil {
			return nil, fmt.Errorf("invalid test name pattern %q: %w", options.TestName, err)
		}
		var filtered []ml.Record
		for _, record := range records {
			if pattern.Match(record.PartitionFieldValue) {
				filtered = append(filtered, record)
			}
		}
		records = filtered
	}

	report := Report{
		JobID:       options.JobID,
		GeneratedAt: time.Now().UTC(),
	}
	// Records arrive sorted by record score, most anomalous first.
	for _, record := range records {
		severity := SeverityOf(record.RecordScore)
		report.Summary.count(severity)
		if len(report.Top) < topSize(options) {
			report.Top = append(report.Top, Anomaly{
				TestName: record.PartitionFieldValue,
				Score:    record.RecordScore,
				Severity: severity,
				Time:     record.Time(),
				Function: record.Function,
				Actual:   record.Actual,
				Typical:  record.Typical,
			})
		}
	}
	return &report, nil
}

func compileBuckets(buckets []ml.Bucket, options Options) (*Report, error) {
	report := Report{
		JobID:       options.JobID,
		GeneratedAt: time.Now().UTC(),
		FromBuckets: true,
	}
	// Bucket results come in chronological order, sort by score for the
	// top listing.
	var anomalies []Anomaly
	for _, bucket := range buckets {
		if bucket.AnomalyScore < options.MinScore {
			continue
		}
		severity := SeverityOf(bucket.AnomalyScore)
		report.Summary.count(severity)
		anomalies = append(anomalies, Anomaly{
			Score:    bucket.AnomalyScore,
			Severity: severity,
			Time:     bucket.Time(),
		})
	}
	sort.SliceStable(anomalies, func(i, j int) bool { return anomalies[i].Score > anomalies[j].Score })
	if len(anomalies) > topSize(options) {
		anomalies = anomalies[:topSize(options)]
	}
	report.Top = anomalies
	return &report, nil
}

func (s *Summary) count(severity Severity) {
	s.Total++
	switch severity {
	case SeverityCritical:
		s.Critical++
	case SeverityMajor:
		s.Major++
	case SeverityMinor:
		s.Minor++
	case SeverityWarning:
		s.Warning++
	}
}

func topSize(options Options) int {
	if options.Top <= 0 {
		return defaultTop
	}
	return options.Top
}
