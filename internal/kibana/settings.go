// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package kibana

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/testwatch/testwatch/internal/logger"
)

const timeDefaultsSetting = "timepicker:timeDefaults"

// SetDefaultTimeRange sets the default time range of the Kibana time picker.
// Bounds can be absolute timestamps or relative expressions like "now-2w".
func (c *Client) SetDefaultTimeRange(ctx context.Context, from, to string) error {
	logger.Debugf("Set default time range: %s - %s", from, to)

	timeDefaults, err := json.Marshal(map[string]string{
		"from": from,
		"to":   to,
	})
	if err != nil {
		return fmt.Errorf("could not encode time defaults: %w", err)
	}

	// The settings API expects the setting value as a JSON-encoded string.
	reqBody, err := json.Marshal(map[string]any{
		"changes": map[string]string{
			timeDefaultsSetting: string(timeDefaults),
		},
	})
	if err != nil {
		return fmt.Errorf("could not encode settings request: %w", err)
	}

	statusCode, respBody, err := c.post(ctx, CoreAPI+"/settings", reqBody)
	if err != nil {
		return fmt.Errorf("could not update Kibana settings: %w", err)
	}
	if statusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("could not update Kibana settings, unexpected status code %d (body: %s)", statusCode, respBody)
	}
	return nil
}
