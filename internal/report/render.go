// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"
)

// Render returns the report as human readable tables.
func (r *Report) Render() string {
	var out strings.Builder

	summary := table.NewWriter()
	summary.SetStyle(table.StyleRounded)
	summary.SetTitle("anomalies of job %s", r.JobID)
	summary.SetColumnConfigs([]table.ColumnConfig{
		{
			Number: 2,
			Align:  text.AlignRight,
		},
	})
	summary.AppendRow(table.Row{"total", r.Summary.Total})
	summary.AppendRow(table.Row{"critical (score > 75)", r.Summary.Critical})
	summary.AppendRow(table.Row{"major (score > 50)", r.Summary.Major})
	summary.AppendRow(table.Row{"minor (score > 25)", r.Summary.Minor})
	summary.AppendRow(table.Row{"warning", r.Summary.Warning})
	out.WriteString(summary.Render() + "\n")

	if r.FromBuckets {
		out.WriteString("No anomaly records found, reporting bucket scores instead.\n")
	}

	if len(r.Top) > 0 {
		top := table.NewWriter()
		top.SetStyle(table.StyleRounded)
		top.SetTitle("top %d anomalies", len(r.Top))
		top.AppendHeader(table.Row{"test", "score", "severity", "time"})
		for _, anomaly := range r.Top {
			name := anomaly.TestName
			if name == "" {
				name = "-"
			}
			top.AppendRow(table.Row{
				name,
				fmt.Sprintf("%.1f", anomaly.Score),
				string(anomaly.Severity),
				anomaly.Time.Format(time.RFC3339),
			})
		}
		out.WriteString(top.Render() + "\n")
	}

	return out.String()
}

// JSON returns the report serialized for machine consumption.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
