// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package stack

import (
	"context"

	"github.com/dustin/go-humanize"

	"github.com/testwatch/testwatch/internal/elasticsearch"
	"github.com/testwatch/testwatch/internal/ml"
)

// ServiceStatus describes the status of a single service or resource.
type ServiceStatus struct {
	Name    string
	Version string
	Status  string
}

// Status checks every service and resource testwatch depends on or manages
// and returns one row per item. Individual failures are reported in the
// status column, they do not abort the whole check.
func Status(ctx context.Context, settings Settings) ([]ServiceStatus, error) {
	es, err := NewElasticsearchClient(settings)
	if err != nil {
		return nil, err
	}

	status := []ServiceStatus{
		elasticsearchStatus(ctx, settings),
		kibanaStatus(ctx, settings),
		licenseStatus(ctx, es),
		jobStatus(ctx, settings, es),
		datafeedStatus(ctx, settings, es),
	}
	return status, nil
}

func elasticsearchStatus(ctx context.Context, settings Settings) ServiceStatus {
	status := ServiceStatus{
		Name:    "elasticsearch",
		Version: "unknown",
	}
	client, err := NewElasticsearchClient(settings)
	if err != nil {
		status.Status = "unknown: failed to create client: " + err.Error()
		return status
	}

	err = client.CheckHealth(ctx)
	if err != nil {
		status.Status = "unhealthy: " + err.Error()
	} else {
		status.Status = "healthy"
	}

	info, err := client.Info(ctx)
	if err == nil {
		status.Version = info.Version.Number
	}

	return status
}

func kibanaStatus(ctx context.Context, settings Settings) ServiceStatus {
	status := ServiceStatus{
		Name:    "kibana",
		Version: "unknown",
	}
	client, err := NewKibanaClient(settings)
	if err != nil {
		status.Status = "unknown: failed to create client: " + err.Error()
		return status
	}

	err = client.CheckHealth(ctx)
	if err != nil {
		status.Status = "unhealthy: " + err.Error()
	} else {
		status.Status = "healthy"
	}

	versionInfo, err := client.Version(ctx)
	if err == nil {
		status.Version = versionInfo.Version()
	}

	return status
}

func licenseStatus(ctx context.Context, es *elasticsearch.Client) ServiceStatus {
	status := ServiceStatus{
		Name:    "license",
		Version: "-",
	}
	license, err := es.GetLicense(ctx)
	if err != nil {
		status.Status = "unknown: " + err.Error()
		return status
	}

	status.Version = license.Type
	status.Status = license.Status
	return status
}

func jobStatus(ctx context.Context, settings Settings, es *elasticsearch.Client) ServiceStatus {
	status := ServiceStatus{
		Name:    "job " + settings.Job.ID,
		Version: "-",
	}
	stats, err := ml.GetJobStats(ctx, es, settings.Job.ID)
	if err != nil {
		status.Status = "unknown: " + err.Error()
		return status
	}
	if stats == nil {
		status.Status = "missing"
		return status
	}

	status.Status = stats.State
	status.Version = humanize.Comma(stats.DataCounts.ProcessedRecordCount) + " records"
	return status
}

func datafeedStatus(ctx context.Context, settings Settings, es *elasticsearch.Client) ServiceStatus {
	datafeedID := ml.DatafeedID(settings.Job.ID)
	status := ServiceStatus{
		Name:    "datafeed " + datafeedID,
		Version: "-",
	}
	stats, err := ml.GetDatafeedStats(ctx, es, datafeedID)
	if err != nil {
		status.Status = "unknown: " + err.Error()
		return status
	}
	if stats == nil {
		status.Status = "missing"
		return status
	}

	status.Status = stats.State
	return status
}
