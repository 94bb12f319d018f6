// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// License describes the license installed in the cluster.
type License struct {
	Status             string `json:"status"`
	UID                string `json:"uid"`
	Type               string `json:"type"`
	IssueDateInMillis  int64  `json:"issue_date_in_millis"`
	ExpiryDateInMillis int64  `json:"expiry_date_in_millis"`
	MaxNodes           int    `json:"max_nodes"`
	IssuedTo           string `json:"issued_to"`
	Issuer             string `json:"issuer"`
}

// StartTrialResponse is the response to a license trial activation.
type StartTrialResponse struct {
	Acknowledged    bool   `json:"acknowledged"`
	TrialWasStarted bool   `json:"trial_was_started"`
	Type            string `json:"type"`
	ErrorMessage    string `json:"error_message"`
}

// StartTrial activates a 30-day trial license. Activating the trial on a
// cluster that already used it is not an error, the response reports
// TrialWasStarted false in that case.
func (client *Client) StartTrial(ctx context.Context) (*StartTrialResponse, error) {
	resp, err := client.License.PostStartTrial(
		client.License.PostStartTrial.WithContext(ctx),
		client.License.PostStartTrial.WithAcknowledge(true),
	)
	if err != nil {
		return nil, fmt.Errorf("error starting license trial: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading license trial response: %w", err)
	}

	if resp.IsError() {
		// An already activated trial is reported with an error status code.
		var trial StartTrialResponse
		if err := json.Unmarshal(body, &trial); err == nil && strings.Contains(trial.ErrorMessage, "already activated") {
			return &trial, nil
		}
		return nil, NewError(body)
	}

	var trial StartTrialResponse
	err = json.Unmarshal(body, &trial)
	if err != nil {
		return nil, fmt.Errorf("error decoding license trial response: %w", err)
	}
	return &trial, nil
}

// GetLicense returns the license currently installed in the cluster.
func (client *Client) GetLicense(ctx context.Context) (*License, error) {
	resp, err := client.License.Get(client.License.Get.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("error getting license: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading license response: %w", err)
	}
	if resp.IsError() {
		return nil, NewError(body)
	}

	var response struct {
		License License `json:"license"`
	}
	err = json.Unmarshal(body, &response)
	if err != nil {
		return nil, fmt.Errorf("error decoding license response: %w", err)
	}
	return &response.License, nil
}
