// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/testwatch/testwatch/internal/cobraext"
	"github.com/testwatch/testwatch/internal/logger"
	"github.com/testwatch/testwatch/internal/ml"
	"github.com/testwatch/testwatch/internal/multierror"
	"github.com/testwatch/testwatch/internal/signal"
	"github.com/testwatch/testwatch/internal/stack"
	"github.com/testwatch/testwatch/internal/tui"
)

const cleanLongDescription = `Use this command to tear down the resources created by setup: the datafeed is stopped and deleted, the anomaly detection job is closed and deleted, and the data view is removed from Kibana.

Resources that do not exist are skipped, so clean can be run repeatedly. The indexed test results are not touched.`

func setupCleanCommand() *cobraext.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the anomaly detection resources",
		Long:  cleanLongDescription,
		Args:  cobra.NoArgs,
		RunE:  cleanCommandAction,
	}
	cmd.Flags().String(cobraext.JobFlagName, "", cobraext.JobFlagDescription)
	cmd.Flags().Bool(cobraext.CleanYesFlagName, false, cobraext.CleanYesFlagDescription)

	return cobraext.NewCommand(cmd)
}

func cleanCommandAction(cmd *cobra.Command, args []string) error {
	cmd.Println("Clean up anomaly detection resources")

	settings, err := settingsFromFlags(cmd)
	if err != nil {
		return err
	}

	yes, err := cmd.Flags().GetBool(cobraext.CleanYesFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.CleanYesFlagName)
	}
	if !yes {
		var confirmed bool
		prompt := tui.NewConfirm(fmt.Sprintf("Delete job %q, its datafeed and the data view %q?", settings.Job.ID, settings.Job.Index), false)
		err := tui.AskOne(prompt, &confirmed)
		if err != nil {
			return err
		}
		if !confirmed {
			cmd.Println("Aborted")
			return nil
		}
	}

	es, err := stack.NewElasticsearchClient(settings)
	if err != nil {
		return fmt.Errorf("could not create Elasticsearch client: %w", err)
	}
	kibanaClient, err := stack.NewKibanaClient(settings)
	if err != nil {
		return fmt.Errorf("could not create Kibana client: %w", err)
	}

	ctx, stop := signal.Enable(cmd.Context(), logger.Info)
	defer stop()

	datafeedID := ml.DatafeedID(settings.Job.ID)

	// Order matters: a datafeed can only be deleted when stopped, a job
	// only when closed and no datafeed references it. Keep going on
	// errors so a partially removed setup can still be cleaned up.
	var errs multierror.Error
	err = ml.StopDatafeed(ctx, es, datafeedID, true)
	if err != nil {
		errs = append(errs, err)
	}
	err = ml.CloseJob(ctx, es, settings.Job.ID, true)
	if err != nil {
		errs = append(errs, err)
	}
	err = ml.DeleteDatafeed(ctx, es, datafeedID)
	if err != nil {
		errs = append(errs, err)
	}
	err = ml.DeleteJob(ctx, es, settings.Job.ID)
	if err != nil {
		errs = append(errs, err)
	} else {
		cmd.Printf("Job %q and its datafeed removed\n", settings.Job.ID)
	}

	dataView, err := kibanaClient.FindDataView(ctx, settings.Job.Index)
	if err != nil {
		errs = append(errs, err)
	} else if dataView != nil {
		err = kibanaClient.DeleteDataView(ctx, dataView.ID)
		if err != nil {
			errs = append(errs, err)
		} else {
			cmd.Printf("Data view %q removed\n", dataView.Title)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("clean failed:\n%w", errs)
	}

	cmd.Println("Done")
	return nil
}
