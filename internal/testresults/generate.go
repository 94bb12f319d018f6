// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

// Package testresults generates and indexes synthetic test result documents,
// so the anomaly detection flow can be tried without a real CI feeding the
// cluster.
package testresults

import (
	"fmt"
	"math/rand"
	"time"
)

// Document is a single test result, in the shape the anomaly detection job
// expects: a date field with epoch milliseconds, the test name used as
// partition field, and the test duration in seconds as the analyzed metric.
type Document struct {
	Timestamp int64   `json:"timestamp"`
	TestName  string  `json:"test_name"`
	Time      float64 `json:"time"`
	Status    string  `json:"status"`
}

// GeneratorSpec controls the generated document set.
type GeneratorSpec struct {
	// Docs is the total number of documents to generate.
	Docs int

	// Tests is the number of distinct test names.
	Tests int

	// Window is the time span the documents cover, ending at End.
	Window time.Duration

	// End is the timestamp of the most recent document.
	End time.Time

	// Seed makes the generated set reproducible.
	Seed int64
}

const (
	defaultDocs   = 1000
	defaultTests  = 5
	defaultWindow = 24 * time.Hour

	// Roughly one document in fifty is a slow outlier, so the job has
	// anomalies to surface.
	outlierChance = 50
	outlierFactor = 8.0

	failChance = 20
)

// Generate produces a deterministic set of test result documents spread
// evenly over the spec window. Each test gets a stable base duration with
// some jitter, and occasional slow outliers.
func Generate(spec GeneratorSpec) []Document {
	if spec.Docs <= 0 {
		spec.Docs = defaultDocs
	}
	if spec.Tests <= 0 {
		spec.Tests = defaultTests
	}
	if spec.Window <= 0 {
		spec.Window = defaultWindow
	}
	if spec.End.IsZero() {
		spec.End = time.Now()
	}

	rnd := rand.New(rand.NewSource(spec.Seed))

	baseDurations := make([]float64, spec.Tests)
	for i := range baseDurations {
		baseDurations[i] = 0.5 + rnd.Float64()*10
	}

	start := spec.End.Add(-spec.Window)
	step := spec.Window / time.Duration(spec.Docs)

	docs := make([]Document, spec.Docs)
	for i := range docs {
		test := rnd.Intn(spec.Tests)

		duration := baseDurations[test] * (0.8 + rnd.Float64()*0.4)
		if rnd.Intn(outlierChance) == 0 {
			duration *= outlierFactor
		}

		status := "pass"
		if rnd.Intn(failChance) == 0 {
			status = "fail"
		}

		docs[i] = Document{
			Timestamp: start.Add(time.Duration(i) * step).UnixMilli(),
			TestName:  fmt.Sprintf("test_%d", test+1),
			Time:      duration,
			Status:    status,
		}
	}
	return docs
}
