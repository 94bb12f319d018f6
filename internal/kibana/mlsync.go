// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package kibana

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/go-querystring/query"

	"github.com/testwatch/testwatch/internal/logger"
)

// SyncOptions specify the query parameters for the ML saved objects sync API.
type SyncOptions struct {
	Simulate bool `url:"simulate"`
}

// SyncResult describes the saved objects touched by a sync operation.
type SyncResult struct {
	SavedObjectsCreated map[string]json.RawMessage `json:"savedObjectsCreated"`
	SavedObjectsDeleted map[string]json.RawMessage `json:"savedObjectsDeleted"`
	DatafeedsAdded      map[string]json.RawMessage `json:"datafeedsAdded"`
	DatafeedsRemoved    map[string]json.RawMessage `json:"datafeedsRemoved"`
}

// SyncMachineLearningSavedObjects reconciles ML job metadata with its Kibana
// saved-object references. With Simulate set the operation only reports what
// a sync would change.
func (c *Client) SyncMachineLearningSavedObjects(ctx context.Context, options SyncOptions) (*SyncResult, error) {
	logger.Debugf("Sync ML saved objects (simulate: %t)", options.Simulate)

	parameters, err := query.Values(options)
	if err != nil {
		return nil, fmt.Errorf("could not encode options as query parameters: %w", err)
	}
	path := MachineLearningAPI + "/saved_objects/sync?" + parameters.Encode()

	statusCode, respBody, err := c.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("could not sync ML saved objects: %w", err)
	}
	if statusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("could not sync ML saved objects, unexpected status code %d (body: %s)", statusCode, respBody)
	}

	var result SyncResult
	err = json.Unmarshal(respBody, &result)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling response failed (body: \n%s): %w", respBody, err)
	}
	return &result, nil
}
