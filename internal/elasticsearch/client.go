// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package elasticsearch

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"

	"github.com/testwatch/testwatch/internal/certs"
)

// API contains the elasticsearch APIs.
type API = esapi.API

// ErrUndefinedAddress is returned when the Elasticsearch host is not configured.
var ErrUndefinedAddress = errors.New("missing elasticsearch host")

// clientOptions are used to configure a client.
type clientOptions struct {
	address  string
	username string
	password string

	certificateAuthority string
	skipTLSVerify        bool
}

// ClientOption is functional option modifying Elasticsearch client.
type ClientOption func(*clientOptions)

// OptionWithAddress sets the address to be used by the client.
func OptionWithAddress(address string) ClientOption {
	return func(opts *clientOptions) {
		opts.address = address
	}
}

// OptionWithUsername sets the username to be used by the client.
func OptionWithUsername(username string) ClientOption {
	return func(opts *clientOptions) {
		opts.username = username
	}
}

// OptionWithPassword sets the password to be used by the client.
func OptionWithPassword(password string) ClientOption {
	return func(opts *clientOptions) {
		opts.password = password
	}
}

// OptionWithCertificateAuthority sets the certificate authority to be used by the client.
func OptionWithCertificateAuthority(certificateAuthority string) ClientOption {
	return func(opts *clientOptions) {
		opts.certificateAuthority = certificateAuthority
	}
}

// OptionWithSkipTLSVerify disables TLS validation.
func OptionWithSkipTLSVerify() ClientOption {
	return func(opts *clientOptions) {
		opts.skipTLSVerify = true
	}
}

// Client is a wrapper over an Elasticsearch Client.
type Client struct {
	*elasticsearch.Client
}

// NewClient method creates new instance of the Elasticsearch client.
func NewClient(customOptions ...ClientOption) (*Client, error) {
	config, err := NewConfig(customOptions...)
	if err != nil {
		return nil, err
	}

	return NewClientWithConfig(config)
}

// NewConfig builds the configuration of the Elasticsearch client from options.
func NewConfig(customOptions ...ClientOption) (elasticsearch.Config, error) {
	var options clientOptions
	for _, option := range customOptions {
		option(&options)
	}

	if options.address == "" {
		return elasticsearch.Config{}, ErrUndefinedAddress
	}

	config := elasticsearch.Config{
		Addresses: []string{options.address},
		Username:  options.username,
		Password:  options.password,
	}
	if options.skipTLSVerify {
		config.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	} else if options.certificateAuthority != "" {
		rootCAs, err := certs.SystemPoolWithCACertificate(options.certificateAuthority)
		if err != nil {
			return elasticsearch.Config{}, fmt.Errorf("reading CA certificate: %w", err)
		}
		config.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{RootCAs: rootCAs},
		}
	}

	return config, nil
}

// NewClientWithConfig creates a new instance of the Elasticsearch client with the given configuration.
func NewClientWithConfig(config elasticsearch.Config) (*Client, error) {
	client, err := elasticsearch.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("can't create instance: %w", err)
	}
	return &Client{Client: client}, nil
}

// IsReady reports whether Elasticsearch answers API requests at all. A booting
// node refuses connections or responds with an error status code until its
// HTTP layer is up.
func (client *Client) IsReady(ctx context.Context) error {
	resp, err := client.Client.Info(client.Client.Info.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("could not reach Elasticsearch: %w", err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("unexpected status code %d returned by Elasticsearch", resp.StatusCode)
	}
	return nil
}

// Info contains the information returned by the Elasticsearch root endpoint.
type Info struct {
	ClusterName string `json:"cluster_name"`
	Version     struct {
		Number      string `json:"number"`
		BuildFlavor string `json:"build_flavor"`
	} `json:"version"`
}

// Info gets cluster information and metadata.
func (client *Client) Info(ctx context.Context) (*Info, error) {
	resp, err := client.Client.Info(client.Client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("error getting cluster info: %w", err)
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return nil, fmt.Errorf("error getting cluster info: %s", resp.String())
	}

	var info Info
	err = json.NewDecoder(resp.Body).Decode(&info)
	if err != nil {
		return nil, fmt.Errorf("error decoding cluster info: %w", err)
	}
	return &info, nil
}

// CheckHealth checks the health of the cluster.
func (client *Client) CheckHealth(ctx context.Context) error {
	resp, err := client.Cluster.Health(client.Cluster.Health.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("error checking cluster health: %w", err)
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return fmt.Errorf("error checking cluster health: %s", resp.String())
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading cluster health response: %w", err)
	}

	var clusterHealth struct {
		Status string `json:"status"`
	}
	err = json.Unmarshal(body, &clusterHealth)
	if err != nil {
		return fmt.Errorf("error decoding cluster health response: %w", err)
	}

	if status := clusterHealth.Status; status != "green" && status != "yellow" {
		if status != "red" {
			return fmt.Errorf("cluster in unhealthy state: %q", status)
		}
		cause, err := client.redHealthCause(ctx)
		if err != nil {
			return fmt.Errorf("cluster in unhealthy state, failed to identify cause: %w", err)
		}
		return fmt.Errorf("cluster in unhealthy state: %s", cause)
	}

	return nil
}

// redHealthCause tries to identify the cause of a cluster in red state.
func (client *Client) redHealthCause(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "/_internal/_health", nil)
	if err != nil {
		return "", fmt.Errorf("error creating internal health request: %w", err)
	}
	resp, err := client.Perform(req)
	if err != nil {
		return "", fmt.Errorf("error performing internal health request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading internal health response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("internal health request failed with status %d", resp.StatusCode)
	}

	var internalHealth struct {
		Status     string `json:"status"`
		Indicators map[string]struct {
			Status    string `json:"status"`
			Symptom   string `json:"symptom"`
			Diagnosis []struct {
				Cause string `json:"cause"`
			} `json:"diagnosis"`
		} `json:"indicators"`
	}
	err = json.Unmarshal(body, &internalHealth)
	if err != nil {
		return "", fmt.Errorf("error decoding internal health response: %w", err)
	}
	if internalHealth.Status != "red" {
		return "", errors.New("cluster not in red state")
	}

	var causes []string
	for _, indicator := range internalHealth.Indicators {
		if indicator.Status != "red" {
			continue
		}
		for _, diagnosis := range indicator.Diagnosis {
			causes = append(causes, diagnosis.Cause)
		}
	}
	if len(causes) == 0 {
		return "", errors.New("no causes found")
	}
	return strings.Join(causes, ", "), nil
}
