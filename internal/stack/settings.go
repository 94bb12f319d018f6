// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package stack

import (
	"os"
	"time"

	"github.com/testwatch/testwatch/internal/profile"
)

// Environment variables overriding profile configuration.
const (
	ElasticsearchHostEnv     = "TESTWATCH_ELASTICSEARCH_HOST"
	ElasticsearchUsernameEnv = "TESTWATCH_ELASTICSEARCH_USERNAME"
	ElasticsearchPasswordEnv = "TESTWATCH_ELASTICSEARCH_PASSWORD"
	KibanaHostEnv            = "TESTWATCH_KIBANA_HOST"
	CACertificateEnv         = "TESTWATCH_CA_CERT"
)

// Profile configuration keys, as used in config.yml.
const (
	configElasticsearchHost     = "stack.elasticsearch_host"
	configElasticsearchUsername = "stack.elasticsearch_username"
	configElasticsearchPassword = "stack.elasticsearch_password"
	configKibanaHost            = "stack.kibana_host"
	configCACert                = "stack.ca_cert"
	configJobIndex              = "job.index"
	configJobID                 = "job.id"
	configJobTimeField          = "job.time_field"
)

const (
	defaultElasticsearchHost = "http://localhost:9200"
	defaultKibanaHost        = "http://localhost:5601"
	defaultUsername          = "elastic"
	defaultPassword          = "changeme"

	// DefaultIndex is the index the test results are expected in.
	DefaultIndex = "test-results"

	// DefaultJobID identifies the anomaly detection job and, prefixed with
	// "datafeed-", its datafeed.
	DefaultJobID = "analyze_test_results"

	// DefaultTimeField is the date field the test results are indexed with.
	DefaultTimeField = "timestamp"

	// DefaultReadinessTimeout bounds the readiness polling loops.
	DefaultReadinessTimeout = 10 * time.Minute

	readinessPeriod = 5 * time.Second
)

// Settings encapsulate the settings required to connect to the Elastic stack.
type Settings struct {
	Elasticsearch struct {
		Host     string
		Username string
		Password string
	}
	Kibana struct {
		Host string
	}
	CACertFile string

	Job struct {
		Index     string
		ID        string
		TimeField string
	}
}

// CurrentSettings resolves connection settings from the given profile and the
// TESTWATCH_* environment variables, the latter taking precedence.
func CurrentSettings(p *profile.Profile) Settings {
	var s Settings

	s.Elasticsearch.Host = fromEnvOrProfile(ElasticsearchHostEnv, p, configElasticsearchHost, defaultElasticsearchHost)
	s.Elasticsearch.Username = fromEnvOrProfile(ElasticsearchUsernameEnv, p, configElasticsearchUsername, defaultUsername)
	s.Elasticsearch.Password = fromEnvOrProfile(ElasticsearchPasswordEnv, p, configElasticsearchPassword, defaultPassword)
	s.Kibana.Host = fromEnvOrProfile(KibanaHostEnv, p, configKibanaHost, defaultKibanaHost)
	s.CACertFile = fromEnvOrProfile(CACertificateEnv, p, configCACert, "")

	s.Job.Index = profileConfig(p, configJobIndex, DefaultIndex)
	s.Job.ID = profileConfig(p, configJobID, DefaultJobID)
	s.Job.TimeField = profileConfig(p, configJobTimeField, DefaultTimeField)

	return s
}

func fromEnvOrProfile(envName string, p *profile.Profile, configName, def string) string {
	if v := os.Getenv(envName); v != "" {
		return v
	}
	return profileConfig(p, configName, def)
}

func profileConfig(p *profile.Profile, name, def string) string {
	if p == nil {
		return def
	}
	return p.Config(name, def)
}
