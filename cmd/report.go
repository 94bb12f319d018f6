// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/testwatch/testwatch/internal/cobraext"
	"github.com/testwatch/testwatch/internal/logger"
	"github.com/testwatch/testwatch/internal/report"
	"github.com/testwatch/testwatch/internal/signal"
	"github.com/testwatch/testwatch/internal/stack"
)

const reportLongDescription = `Use this command to summarize the anomalies the job found: counts per severity and the top scored anomalies with the tests they belong to.

When the job has not produced anomaly records yet, the report falls back to bucket level scores.`

const (
	reportOutputTable = "table"
	reportOutputJSON  = "json"
)

func setupReportCommand() *cobraext.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize detected anomalies",
		Long:  reportLongDescription,
		Args:  cobra.NoArgs,
		RunE:  reportCommandAction,
	}
	cmd.Flags().String(cobraext.JobFlagName, "", cobraext.JobFlagDescription)
	cmd.Flags().Duration(cobraext.ReportSinceFlagName, 7*24*time.Hour, cobraext.ReportSinceFlagDescription)
	cmd.Flags().Float64(cobraext.ReportMinScoreFlagName, 0, cobraext.ReportMinScoreFlagDescription)
	cmd.Flags().String(cobraext.ReportTestNameFlagName, "", cobraext.ReportTestNameFlagDescription)
	cmd.Flags().Int(cobraext.ReportTopFlagName, 5, cobraext.ReportTopFlagDescription)
	cmd.Flags().String(cobraext.ReportOutputFlagName, reportOutputTable, cobraext.ReportOutputFlagDescription)

	return cobraext.NewCommand(cmd)
}

func reportCommandAction(cmd *cobra.Command, args []string) error {
	settings, err := settingsFromFlags(cmd)
	if err != nil {
		return err
	}

	since, err := cmd.Flags().GetDuration(cobraext.ReportSinceFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.ReportSinceFlagName)
	}
	minScore, err := cmd.Flags().GetFloat64(cobraext.ReportMinScoreFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.ReportMinScoreFlagName)
	}
	testName, err := cmd.Flags().GetString(cobraext.ReportTestNameFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.ReportTestNameFlagName)
	}
	top, err := cmd.Flags().GetInt(cobraext.ReportTopFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.ReportTopFlagName)
	}
	output, err := cmd.Flags().GetString(cobraext.ReportOutputFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.ReportOutputFlagName)
	}
	if output != reportOutputTable && output != reportOutputJSON {
		return fmt.Errorf("unsupported output format %q, expected %s or %s", output, reportOutputTable, reportOutputJSON)
	}

	es, err := stack.NewElasticsearchClient(settings)
	if err != nil {
		return fmt.Errorf("could not create Elasticsearch client: %w", err)
	}

	ctx, stop := signal.Enable(cmd.Context(), logger.Info)
	defer stop()

	anomalyReport, err := report.Generate(ctx, es, report.Options{
		JobID:    settings.Job.ID,
		Since:    since,
		MinScore: minScore,
		TestName: testName,
		Top:      top,
	})
	if err != nil {
		return err
	}

	if output == reportOutputJSON {
		out, err := anomalyReport.JSON()
		if err != nil {
			return err
		}
		cmd.Println(string(out))
		return nil
	}

	cmd.Print(anomalyReport.Render())
	return nil
}
