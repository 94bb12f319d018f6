// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/testwatch/testwatch/internal/cobraext"
	"github.com/testwatch/testwatch/internal/logger"
	"github.com/testwatch/testwatch/internal/signal"
	"github.com/testwatch/testwatch/internal/stack"
)

const bootstrapLongDescription = `Use this command to prepare a freshly deployed Elasticsearch for testwatch.

The command waits until Elasticsearch answers API requests and then activates the license trial that enables the machine learning features. Activating the trial on a cluster that already used it is reported, but it is not an error.`

func setupBootstrapCommand() *cobraext.Command {
	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Wait for Elasticsearch and start the license trial",
		Long:  bootstrapLongDescription,
		Args:  cobra.NoArgs,
		RunE:  bootstrapCommandAction,
	}
	cmd.Flags().Duration(cobraext.TimeoutFlagName, stack.DefaultReadinessTimeout, cobraext.TimeoutFlagDescription)

	return cobraext.NewCommand(cmd)
}

func bootstrapCommandAction(cmd *cobra.Command, args []string) error {
	cmd.Println("Bootstrap Elasticsearch for anomaly detection")

	timeout, err := cmd.Flags().GetDuration(cobraext.TimeoutFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.TimeoutFlagName)
	}

	profile, err := cobraext.GetProfileFlag(cmd)
	if err != nil {
		return err
	}
	settings := stack.CurrentSettings(profile)

	es, err := stack.NewElasticsearchClient(settings)
	if err != nil {
		return fmt.Errorf("could not create Elasticsearch client: %w", err)
	}

	ctx, stop := signal.Enable(cmd.Context(), logger.Info)
	defer stop()

	cmd.Printf("Waiting for Elasticsearch at %s...\n", settings.Elasticsearch.Host)
	err = stack.WaitForElasticsearch(ctx, es, timeout)
	if err != nil {
		return err
	}

	trial, err := es.StartTrial(ctx)
	if err != nil {
		return fmt.Errorf("starting license trial failed: %w", err)
	}
	if trial.TrialWasStarted {
		cmd.Println("License trial started")
	} else {
		cmd.Printf("License trial was not started: %s\n", trial.ErrorMessage)
	}

	cmd.Println("Done")
	return nil
}
