// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package kibana

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Masterminds/semver/v3"
)

// ServerlessFlavor is the build flavor reported by serverless Kibana.
const ServerlessFlavor = "serverless"

// VersionInfo is the version block of the Kibana status response.
type VersionInfo struct {
	Number        string `json:"number"`
	BuildFlavor   string `json:"build_flavor"`
	BuildSnapshot bool   `json:"build_snapshot"`
}

// Version method returns the version of Kibana (Elastic stack).
func (v VersionInfo) Version() string {
	if v.BuildSnapshot {
		return fmt.Sprintf("%s-SNAPSHOT", v.Number)
	}
	return v.Number
}

type statusType struct {
	Version VersionInfo `json:"version"`
}

// Version fetches the version of the connected Kibana. The response is
// memoized, later calls don't touch the API.
func (c *Client) Version(ctx context.Context) (VersionInfo, error) {
	if c.semver != nil {
		return c.versionInfo, nil
	}

	v, err := c.requestVersion(ctx)
	if err != nil {
		return VersionInfo{}, fmt.Errorf("failed to get Kibana version: %w", err)
	}
	c.versionInfo = v

	c.semver, err = semver.NewVersion(v.Number)
	if err != nil {
		return VersionInfo{}, fmt.Errorf("failed to parse Kibana version (%s): %w", v.Number, err)
	}

	return c.versionInfo, nil
}

func (c *Client) requestVersion(ctx context.Context) (VersionInfo, error) {
	statusCode, respBody, err := c.get(ctx, StatusAPI)
	if err != nil {
		return VersionInfo{}, fmt.Errorf("could not get status data (status code: %d): %w", statusCode, err)
	}
	if statusCode >= http.StatusMultipleChoices {
		return VersionInfo{}, fmt.Errorf("could not get status data, unexpected status code %d (body: %s)", statusCode, respBody)
	}

	var status statusType
	err = json.Unmarshal(respBody, &status)
	if err != nil {
		return VersionInfo{}, fmt.Errorf("unmarshalling response failed (body: \n%s): %w", respBody, err)
	}

	return status.Version, nil
}

// CheckHealth checks whether Kibana responds to API requests. Any response
// with a non-error status code counts as healthy, a booting Kibana answers
// 503 until all its services are available.
func (c *Client) CheckHealth(ctx context.Context) error {
	statusCode, respBody, err := c.get(ctx, StatusAPI)
	if err != nil {
		return fmt.Errorf("could not reach status endpoint: %w", err)
	}
	if statusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("status endpoint returned status code %d (body: %s)", statusCode, respBody)
	}
	return nil
}
