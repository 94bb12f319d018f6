// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package cmd

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/testwatch/testwatch/internal/cobraext"
	"github.com/testwatch/testwatch/internal/logger"
	"github.com/testwatch/testwatch/internal/signal"
	"github.com/testwatch/testwatch/internal/stack"
	"github.com/testwatch/testwatch/internal/testresults"
)

const seedLongDescription = `Use this command to index synthetic test result documents, so the anomaly detection flow can be tried without a real CI feeding the cluster.

Documents are spread evenly over the given window, ending now. Each test gets a stable base duration with some jitter and occasional slow outliers, so the job has anomalies to surface.`

func setupSeedCommand() *cobraext.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Index synthetic test results",
		Long:  seedLongDescription,
		Args:  cobra.NoArgs,
		RunE:  seedCommandAction,
	}
	cmd.Flags().String(cobraext.IndexFlagName, "", cobraext.IndexFlagDescription)
	cmd.Flags().Int(cobraext.SeedDocsFlagName, 1000, cobraext.SeedDocsFlagDescription)
	cmd.Flags().Int(cobraext.SeedTestsFlagName, 5, cobraext.SeedTestsFlagDescription)
	cmd.Flags().Duration(cobraext.SeedWindowFlagName, 24*time.Hour, cobraext.SeedWindowFlagDescription)
	cmd.Flags().Int64(cobraext.SeedSeedFlagName, 0, cobraext.SeedSeedFlagDescription)

	return cobraext.NewCommand(cmd)
}

func seedCommandAction(cmd *cobra.Command, args []string) error {
	cmd.Println("Seed synthetic test results")

	settings, err := settingsFromFlags(cmd)
	if err != nil {
		return err
	}

	docs, err := cmd.Flags().GetInt(cobraext.SeedDocsFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.SeedDocsFlagName)
	}
	tests, err := cmd.Flags().GetInt(cobraext.SeedTestsFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.SeedTestsFlagName)
	}
	window, err := cmd.Flags().GetDuration(cobraext.SeedWindowFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.SeedWindowFlagName)
	}
	seed, err := cmd.Flags().GetInt64(cobraext.SeedSeedFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.SeedSeedFlagName)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	es, err := stack.NewElasticsearchClient(settings)
	if err != nil {
		return fmt.Errorf("could not create Elasticsearch client: %w", err)
	}

	ctx, stop := signal.Enable(cmd.Context(), logger.Info)
	defer stop()

	documents := testresults.Generate(testresults.GeneratorSpec{
		Docs:   docs,
		Tests:  tests,
		Window: window,
		Seed:   seed,
	})

	indexed, err := testresults.Bulk(ctx, es, settings.Job.Index, documents)
	if err != nil {
		return err
	}
	cmd.Printf("Indexed %s test result documents into %q\n", humanize.Comma(indexed), settings.Job.Index)

	cmd.Println("Done")
	return nil
}
