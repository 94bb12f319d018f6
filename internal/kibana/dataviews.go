// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package kibana

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/testwatch/testwatch/internal/logger"
)

// DataView corresponds to the Kibana data view saved object. It maps an
// index pattern to the field used as the time axis.
type DataView struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	TimeFieldName string `json:"timeFieldName"`
}

type dataViewAttributes struct {
	Title         string `json:"title"`
	TimeFieldName string `json:"timeFieldName"`
}

type savedObjectRequest struct {
	Attributes dataViewAttributes `json:"attributes"`
}

type savedObjectResponse struct {
	ID         string             `json:"id"`
	Attributes dataViewAttributes `json:"attributes"`
}

// CreateDataView creates a data view for the given index pattern and time
// field, and returns it with the identifier assigned by Kibana.
func (c *Client) CreateDataView(ctx context.Context, title, timeFieldName string) (*DataView, error) {
	logger.Debugf("Create data view %q (time field: %q)", title, timeFieldName)

	reqBody, err := json.Marshal(savedObjectRequest{
		Attributes: dataViewAttributes{
			Title:         title,
			TimeFieldName: timeFieldName,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not encode data view request: %w", err)
	}

	statusCode, respBody, err := c.post(ctx, SavedObjectsAPI+"/index-pattern", reqBody)
	if err != nil {
		return nil, fmt.Errorf("could not create data view: %w", err)
	}
	if statusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("could not create data view, unexpected status code %d (body: %s)", statusCode, respBody)
	}

	var savedObject savedObjectResponse
	err = json.Unmarshal(respBody, &savedObject)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling response failed (body: \n%s): %w", respBody, err)
	}
	if savedObject.ID == "" {
		return nil, fmt.Errorf("data view response did not contain an id (body: %s)", respBody)
	}

	return &DataView{
		ID:            savedObject.ID,
		Title:         savedObject.Attributes.Title,
		TimeFieldName: savedObject.Attributes.TimeFieldName,
	}, nil
}

// FindDataView looks up a data view by its index pattern title. It returns
// nil if no data view matches.
func (c *Client) FindDataView(ctx context.Context, title string) (*DataView, error) {
	path := fmt.Sprintf("%s/_find?type=index-pattern&search_fields=title&search=%s", SavedObjectsAPI, url.QueryEscape(title))
	statusCode, respBody, err := c.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("could not find data views: %w", err)
	}
	if statusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("could not find data views, unexpected status code %d (body: %s)", statusCode, respBody)
	}

	var response struct {
		SavedObjects []savedObjectResponse `json:"saved_objects"`
	}
	err = json.Unmarshal(respBody, &response)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling response failed (body: \n%s): %w", respBody, err)
	}

	for _, savedObject := range response.SavedObjects {
		if savedObject.Attributes.Title == title {
			return &DataView{
				ID:            savedObject.ID,
				Title:         savedObject.Attributes.Title,
				TimeFieldName: savedObject.Attributes.TimeFieldName,
			}, nil
		}
	}
	return nil, nil
}

// DeleteDataView removes the data view with the given identifier.
func (c *Client) DeleteDataView(ctx context.Context, id string) error {
	logger.Debugf("Delete data view %s", id)

	statusCode, respBody, err := c.delete(ctx, SavedObjectsAPI+"/index-pattern/"+id)
	if err != nil {
		return fmt.Errorf("could not delete data view: %w", err)
	}
	if statusCode == http.StatusNotFound {
		return nil
	}
	if statusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("could not delete data view, unexpected status code %d (body: %s)", statusCode, respBody)
	}
	return nil
}
