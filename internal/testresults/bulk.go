// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package testresults

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/elastic/go-elasticsearch/v7/esutil"

	"github.com/testwatch/testwatch/internal/elasticsearch"
	"github.com/testwatch/testwatch/internal/logger"
)

// Bulk indexes the documents into the given index and returns the number of
// documents successfully indexed.
func Bulk(ctx context.Context, es *elasticsearch.Client, index string, docs []Document) (int64, error) {
	indexer, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client: es.Client,
		Index:  index,
	})
	if err != nil {
		return 0, fmt.Errorf("creating bulk indexer failed: %w", err)
	}

	var mtx sync.Mutex
	var itemErr error
	onFailure := func(ctx context.Context, item esutil.BulkIndexerItem, resp esutil.BulkIndexerResponseItem, err error) {
		mtx.Lock()
		defer mtx.Unlock()
		if itemErr != nil {
			return
		}
		if err != nil {
			itemErr = err
			return
		}
		itemErr = fmt.Errorf("%s: %s", resp.Error.Type, resp.Error.Reason)
	}

	for _, doc := range docs {
		body, err := json.Marshal(doc)
		if err != nil {
			return 0, fmt.Errorf("encoding document failed: %w", err)
		}
		err = indexer.Add(ctx, esutil.BulkIndexerItem{
			Action:    "index",
			Body:      bytes.NewReader(body),
			OnFailure: onFailure,
		})
		if err != nil {
			return 0, fmt.Errorf("adding document to bulk indexer failed: %w", err)
		}
	}

	err = indexer.Close(ctx)
	if err != nil {
		return 0, fmt.Errorf("flushing bulk indexer failed: %w", err)
	}

	stats := indexer.Stats()
	logger.Debugf("Bulk indexing finished: %d added, %d failed", stats.NumAdded, stats.NumFailed)
	if itemErr != nil {
		return int64(stats.NumIndexed), fmt.Errorf("indexing %d of %d documents failed, first failure: %w", stats.NumFailed, stats.NumAdded, itemErr)
	}
	if stats.NumFailed > 0 {
		return int64(stats.NumIndexed), fmt.Errorf("indexing %d of %d documents failed", stats.NumFailed, stats.NumAdded)
	}

	return int64(stats.NumIndexed), nil
}
