// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/elastic/go-elasticsearch/v7/esapi"

	"github.com/testwatch/testwatch/internal/elasticsearch"
	"github.com/testwatch/testwatch/internal/logger"
)

// Window is the time range spanned by the documents of an index. It bounds
// the datafeed run and the default time range shown in Kibana.
type Window struct {
	Start time.Time
	End   time.Time
}

// Bounds returns the window edges as UTC ISO 8601 strings at second precision.
func (w Window) Bounds() (start, end string) {
	return w.Start.UTC().Format(time.RFC3339), w.End.UTC().Format(time.RFC3339)
}

// DeriveWindow finds the earliest and latest values of a date field in an
// index, using two single-hit searches sorted each way on the field. Values
// are epoch milliseconds, as indexed.
func DeriveWindow(ctx context.Context, es *elasticsearch.Client, index, timeField string) (Window, error) {
	earliest, foundEarliest, err := timeFieldBound(ctx, es, index, timeField, "asc")
	if err != nil {
		return Window{}, err
	}
	latest, foundLatest, err := timeFieldBound(ctx, es, index, timeField, "desc")
	if err != nil {
		return Window{}, err
	}
	if !foundEarliest || !foundLatest {
		return Window{}, fmt.Errorf("no %q values found in index %q, check that documents are indexed and the field is mapped as a date", timeField, index)
	}

	window := Window{
		Start: time.UnixMilli(earliest).UTC(),
		End:   time.UnixMilli(latest).UTC(),
	}
	start, end := window.Bounds()
	logger.Debugf("Derived time window for index %q: %s to %s", index, start, end)
	return window, nil
}

// timeFieldBound returns the first value of the field when the index is
// sorted in the given order, or found false when there is no document with
// the field.
func timeFieldBound(ctx context.Context, es *elasticsearch.Client, index, timeField, order string) (int64, bool, error) {
	query, err := json.Marshal(map[string]interface{}{
		"size": 1,
		"sort": []map[string]interface{}{
			{timeField: map[string]interface{}{"order": order}},
		},
	})
	if err != nil {
		return 0, false, fmt.Errorf("marshalling search query failed: %w", err)
	}

	resp, err := esapi.SearchRequest{
		Index: []string{index},
		Body:  bytes.NewReader(query),
	}.Do(ctx, es)
	if err != nil {
		return 0, false, fmt.Errorf("searching index %q failed: %w", index, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, false, fmt.Errorf("reading search response failed: %w", err)
	}
	if resp.IsError() {
		return 0, false, fmt.Errorf("searching index %q failed: %w", index, elasticsearch.NewError(body))
	}

	var results struct {
		Hits struct {
			Hits []struct {
				Source map[string]json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	err = json.Unmarshal(body, &results)
	if err != nil {
		return 0, false, fmt.Errorf("decoding search response failed: %w", err)
	}
	if len(results.Hits.Hits) == 0 {
		return 0, false, nil
	}

	raw, found := results.Hits.Hits[0].Source[timeField]
	if !found {
		return 0, false, nil
	}
	var value int64
	err = json.Unmarshal(raw, &value)
	if err != nil {
		return 0, false, fmt.Errorf("field %q in index %q is not in epoch milliseconds: %w", timeField, index, err)
	}
	return value, true, nil
}
