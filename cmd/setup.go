// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/testwatch/testwatch/internal/cobraext"
	"github.com/testwatch/testwatch/internal/elasticsearch"
	"github.com/testwatch/testwatch/internal/kibana"
	"github.com/testwatch/testwatch/internal/logger"
	"github.com/testwatch/testwatch/internal/ml"
	"github.com/testwatch/testwatch/internal/signal"
	"github.com/testwatch/testwatch/internal/stack"
)

const setupLongDescription = `Use this command to set up anomaly detection for an index with test results.

The command waits until Kibana answers API requests and then runs the whole setup sequence: it creates a data view over the index, derives the time window spanned by the indexed documents, sets the default Kibana time range to that window, creates the anomaly detection job and its datafeed, opens the job, starts the datafeed over the window and synchronizes the ML saved objects.

Running setup again with the same configuration is a no-op for resources that already exist as defined. If the existing anomaly detection job differs from the intended definition, the command fails and shows the difference.`

func setupSetupCommand() *cobraext.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Set up anomaly detection for test results",
		Long:  setupLongDescription,
		Args:  cobra.NoArgs,
		RunE:  setupCommandAction,
	}
	cmd.Flags().String(cobraext.IndexFlagName, "", cobraext.IndexFlagDescription)
	cmd.Flags().String(cobraext.JobFlagName, "", cobraext.JobFlagDescription)
	cmd.Flags().String(cobraext.TimeFieldFlagName, "", cobraext.TimeFieldFlagDescription)
	cmd.Flags().Duration(cobraext.TimeoutFlagName, stack.DefaultReadinessTimeout, cobraext.TimeoutFlagDescription)

	return cobraext.NewCommand(cmd)
}

func setupCommandAction(cmd *cobra.Command, args []string) error {
	cmd.Println("Set up anomaly detection")

	settings, err := settingsFromFlags(cmd)
	if err != nil {
		return err
	}
	timeout, err := cmd.Flags().GetDuration(cobraext.TimeoutFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.TimeoutFlagName)
	}

	kibanaClient, err := stack.NewKibanaClient(settings)
	if err != nil {
		return fmt.Errorf("could not create Kibana client: %w", err)
	}
	es, err := stack.NewElasticsearchClient(settings)
	if err != nil {
		return fmt.Errorf("could not create Elasticsearch client: %w", err)
	}

	ctx, stop := signal.Enable(cmd.Context(), logger.Info)
	defer stop()

	cmd.Printf("Waiting for Kibana at %s...\n", settings.Kibana.Host)
	err = stack.WaitForKibana(ctx, kibanaClient, timeout)
	if err != nil {
		return err
	}

	dataView, err := ensureDataView(ctx, kibanaClient, settings)
	if err != nil {
		return err
	}
	cmd.Printf("Data view %q ready (id: %s)\n", dataView.Title, dataView.ID)

	window, err := ml.DeriveWindow(ctx, es, settings.Job.Index, settings.Job.TimeField)
	if err != nil {
		return err
	}
	start, end := window.Bounds()
	cmd.Printf("Indexed test results span %s to %s\n", start, end)

	err = kibanaClient.SetDefaultTimeRange(ctx, start, end)
	if err != nil {
		return err
	}

	err = ensureJob(ctx, es, settings)
	if err != nil {
		return err
	}
	err = ensureDatafeed(ctx, es, settings)
	if err != nil {
		return err
	}

	err = ml.OpenJob(ctx, es, settings.Job.ID)
	if err != nil {
		return err
	}
	err = ml.StartDatafeed(ctx, es, ml.DatafeedID(settings.Job.ID), window)
	if err != nil {
		return err
	}
	cmd.Printf("Job %q opened, datafeed started over the derived window\n", settings.Job.ID)

	err = syncSavedObjects(ctx, kibanaClient)
	if err != nil {
		return err
	}
	cmd.Println("ML saved objects synchronized")

	cmd.Println("Done")
	return nil
}

// syncSavedObjects reconciles the ML saved objects, simulating first so the
// debug log shows what the real sync is about to change.
func syncSavedObjects(ctx context.Context, client *kibana.Client) error {
	for _, simulate := range []bool{true, false} {
		result, err := client.SyncMachineLearningSavedObjects(ctx, kibana.SyncOptions{Simulate: simulate})
		if err != nil {
			return err
		}
		logger.Debugf("ML saved objects sync (simulate: %t): %d created, %d datafeeds added",
			simulate, len(result.SavedObjectsCreated), len(result.DatafeedsAdded))
	}
	return nil
}

func ensureDataView(ctx context.Context, client *kibana.Client, settings stack.Settings) (*kibana.DataView, error) {
	dataView, err := client.FindDataView(ctx, settings.Job.Index)
	if err != nil {
		return nil, err
	}
	if dataView != nil {
		logger.Debugf("Data view %q already exists (id: %s)", dataView.Title, dataView.ID)
		return dataView, nil
	}
	return client.CreateDataView(ctx, settings.Job.Index, settings.Job.TimeField)
}

func ensureJob(ctx context.Context, es *elasticsearch.Client, settings stack.Settings) error {
	wanted := ml.DefaultJobConfig(settings.Job.ID, settings.Job.TimeField)

	existing, err := ml.GetJob(ctx, es, settings.Job.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ml.CreateJob(ctx, es, wanted)
	}

	diff, err := ml.DiffJobConfigs(*existing, wanted)
	if err != nil {
		return err
	}
	if diff != "" {
		return fmt.Errorf("job %q already exists with a different definition, delete it first (run clean) or use another job id:\n%s", settings.Job.ID, diff)
	}
	logger.Debugf("Job %q already exists as defined", settings.Job.ID)
	return nil
}

func ensureDatafeed(ctx context.Context, es *elasticsearch.Client, settings stack.Settings) error {
	datafeedID := ml.DatafeedID(settings.Job.ID)
	stats, err := ml.GetDatafeedStats(ctx, es, datafeedID)
	if err != nil {
		return err
	}
	if stats != nil {
		logger.Debugf("Datafeed %q already exists", datafeedID)
		return nil
	}
	return ml.CreateDatafeed(ctx, es, ml.DefaultDatafeedConfig(settings.Job.ID, settings.Job.Index))
}

// settingsFromFlags resolves the stack settings and applies the job related
// command line flags on top.
func settingsFromFlags(cmd *cobra.Command) (stack.Settings, error) {
	profile, err := cobraext.GetProfileFlag(cmd)
	if err != nil {
		return stack.Settings{}, err
	}
	settings := stack.CurrentSettings(profile)

	if flag := cmd.Flags().Lookup(cobraext.IndexFlagName); flag != nil && flag.Value.String() != "" {
		settings.Job.Index = flag.Value.String()
	}
	if flag := cmd.Flags().Lookup(cobraext.JobFlagName); flag != nil && flag.Value.String() != "" {
		settings.Job.ID = flag.Value.String()
	}
	if flag := cmd.Flags().Lookup(cobraext.TimeFieldFlagName); flag != nil && flag.Value.String() != "" {
		settings.Job.TimeField = flag.Value.String()
	}
	return settings, nil
}
