// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package stack

import (
	"context"
	"fmt"
	"time"

	"github.com/testwatch/testwatch/internal/elasticsearch"
	"github.com/testwatch/testwatch/internal/kibana"
	"github.com/testwatch/testwatch/internal/logger"
	"github.com/testwatch/testwatch/internal/wait"
)

// WaitForElasticsearch polls the Elasticsearch root endpoint until it answers
// with success, the timeout lapses or the context is cancelled.
func WaitForElasticsearch(ctx context.Context, client *elasticsearch.Client, timeout time.Duration) error {
	ready, err := wait.UntilTrue(ctx, func(ctx context.Context) (bool, error) {
		if err := client.IsReady(ctx); err != nil {
			logger.Debugf("Elasticsearch not ready yet: %v", err)
			return false, nil
		}
		return true, nil
	}, readinessPeriod, timeout)
	if err != nil {
		return fmt.Errorf("waiting for Elasticsearch failed: %w", err)
	}
	if !ready {
		return fmt.Errorf("Elasticsearch not ready after %s", timeout)
	}
	return nil
}

// WaitForKibana polls the Kibana status endpoint until it answers with
// success, the timeout lapses or the context is cancelled.
func WaitForKibana(ctx context.Context, client *kibana.Client, timeout time.Duration) error {
	ready, err := wait.UntilTrue(ctx, func(ctx context.Context) (bool, error) {
		if err := client.CheckHealth(ctx); err != nil {
			logger.Debugf("Kibana not ready yet: %v", err)
			return false, nil
		}
		return true, nil
	}, readinessPeriod, timeout)
	if err != nil {
		return fmt.Errorf("waiting for Kibana failed: %w", err)
	}
	if !ready {
		return fmt.Errorf("Kibana not ready after %s", timeout)
	}
	return nil
}
