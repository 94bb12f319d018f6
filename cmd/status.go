// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package cmd

import (
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/spf13/cobra"

	"github.com/testwatch/testwatch/internal/cobraext"
	"github.com/testwatch/testwatch/internal/logger"
	"github.com/testwatch/testwatch/internal/signal"
	"github.com/testwatch/testwatch/internal/stack"
)

const statusLongDescription = `Use this command to check the state of everything testwatch depends on or manages: Elasticsearch, Kibana, the license, the anomaly detection job and its datafeed.`

func setupStatusCommand() *cobraext.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show deployment and job status",
		Long:  statusLongDescription,
		Args:  cobra.NoArgs,
		RunE:  statusCommandAction,
	}
	cmd.Flags().String(cobraext.JobFlagName, "", cobraext.JobFlagDescription)

	return cobraext.NewCommand(cmd)
}

func statusCommandAction(cmd *cobra.Command, args []string) error {
	settings, err := settingsFromFlags(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.Enable(cmd.Context(), logger.Info)
	defer stop()

	servicesStatus, err := stack.Status(ctx, settings)
	if err != nil {
		return err
	}

	cmd.Println("Status of services and resources:")
	printStatus(cmd, servicesStatus)
	return nil
}

func printStatus(cmd *cobra.Command, servicesStatus []stack.ServiceStatus) {
	table := tablewriter.NewTable(cmd.OutOrStdout(),
		tablewriter.WithRenderer(renderer.NewColorized(defaultColorizedConfig())),
		tablewriter.WithConfig(defaultTableConfig),
	)
	table.Header([]string{"Service", "Version", "Status"})

	for _, service := range servicesStatus {
		table.Append([]string{service.Name, service.Version, service.Status})
	}
	table.Render()
}
