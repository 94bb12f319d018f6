// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package cobraext

// Global flags
const (
	VerboseFlagName        = "verbose"
	VerboseFlagShorthand   = "v"
	VerboseFlagDescription = "verbose mode, can be specified multiple times to increase verbosity"

	LogFormatFlagName        = "log-format"
	LogFormatFlagDescription = "format of log messages (default, json or text)"

	ProfileFlagName        = "profile"
	ProfileFlagShorthand   = "p"
	ProfileFlagDescription = "configuration profile to use"
)

// Flag names and descriptions used by CLI commands
const (
	CleanYesFlagName        = "yes"
	CleanYesFlagDescription = "answer yes to the confirmation prompt"

	IndexFlagName        = "index"
	IndexFlagDescription = "name of the index holding test results"

	JobFlagName        = "job"
	JobFlagDescription = "identifier of the anomaly detection job"

	ProfileFromFlagName        = "from"
	ProfileFromFlagDescription = "copy the new profile from the given existing profile"

	ReportMinScoreFlagName        = "min-score"
	ReportMinScoreFlagDescription = "minimum record score for anomalies to include in the report"

	ReportOutputFlagName        = "output"
	ReportOutputFlagDescription = "output format of the report (table or json)"

	ReportSinceFlagName        = "since"
	ReportSinceFlagDescription = "only include anomalies newer than this look-back period (for example 72h)"

	ReportTestNameFlagName        = "test-name"
	ReportTestNameFlagDescription = "glob pattern matching the test names to include in the report"

	ReportTopFlagName        = "top"
	ReportTopFlagDescription = "number of top scored anomalies to list"

	SeedSeedFlagName        = "seed"
	SeedSeedFlagDescription = "random seed for the generated documents, same seed and settings produce the same documents (defaults to the current time)"

	SeedDocsFlagName        = "docs"
	SeedDocsFlagDescription = "number of test result documents to generate"

	SeedTestsFlagName        = "tests"
	SeedTestsFlagDescription = "number of distinct test names to generate documents for"

	SeedWindowFlagName        = "window"
	SeedWindowFlagDescription = "time span covered by the generated documents, ending now"

	TimeFieldFlagName        = "time-field"
	TimeFieldFlagDescription = "name of the date field the test results are indexed with"

	TimeoutFlagName        = "timeout"
	TimeoutFlagDescription = "how long to wait for the service to become ready"
)
