// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package stack

import (
	"errors"

	"github.com/testwatch/testwatch/internal/elasticsearch"
	"github.com/testwatch/testwatch/internal/kibana"
)

// NewElasticsearchClient creates an Elasticsearch client for the given settings.
func NewElasticsearchClient(settings Settings, customOptions ...elasticsearch.ClientOption) (*elasticsearch.Client, error) {
	options := []elasticsearch.ClientOption{
		elasticsearch.OptionWithAddress(settings.Elasticsearch.Host),
		elasticsearch.OptionWithUsername(settings.Elasticsearch.Username),
		elasticsearch.OptionWithPassword(settings.Elasticsearch.Password),
		elasticsearch.OptionWithCertificateAuthority(settings.CACertFile),
	}
	options = append(options, customOptions...)
	client, err := elasticsearch.NewClient(options...)

	if errors.Is(err, elasticsearch.ErrUndefinedAddress) {
		return nil, UndefinedEnvError(ElasticsearchHostEnv)
	}

	return client, err
}

// NewKibanaClient creates a Kibana client for the given settings.
func NewKibanaClient(settings Settings, customOptions ...kibana.ClientOption) (*kibana.Client, error) {
	options := []kibana.ClientOption{
		kibana.Address(settings.Kibana.Host),
		kibana.Username(settings.Elasticsearch.Username),
		kibana.Password(settings.Elasticsearch.Password),
		kibana.CertificateAuthority(settings.CACertFile),
	}
	options = append(options, customOptions...)
	client, err := kibana.NewClient(options...)

	if errors.Is(err, kibana.ErrUndefinedHost) {
		return nil, UndefinedEnvError(KibanaHostEnv)
	}

	return client, err
}
