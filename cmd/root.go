// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package cmd

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/testwatch/testwatch/internal/cobraext"
	"github.com/testwatch/testwatch/internal/logger"
	"github.com/testwatch/testwatch/internal/version"
)

var commands = []*cobraext.Command{
	setupBootstrapCommand(),
	setupCleanCommand(),
	setupProfilesCommand(),
	setupReportCommand(),
	setupSeedCommand(),
	setupSetupCommand(),
	setupStatusCommand(),
	setupVersionCommand(),
}

// RootCmd creates and returns root cmd for testwatch
func RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "testwatch",
		Short:        "testwatch - Command line tool for anomaly detection on test results in the Elastic stack",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cobraext.ComposeCommandActions(cmd, args,
				processPersistentFlags,
				checkVersionUpdate,
			)
		},
	}
	rootCmd.PersistentFlags().CountP(cobraext.VerboseFlagName, cobraext.VerboseFlagShorthand, cobraext.VerboseFlagDescription)
	rootCmd.PersistentFlags().String(cobraext.LogFormatFlagName, logger.DefaultFormatLabel, cobraext.LogFormatFlagDescription)
	rootCmd.PersistentFlags().StringP(cobraext.ProfileFlagName, cobraext.ProfileFlagShorthand, "", cobraext.ProfileFlagDescription)

	for _, cmd := range commands {
		rootCmd.AddCommand(cmd.Command)
	}
	return rootCmd
}

// Commands returns the list of commands that have been setup for testwatch.
func Commands() []*cobraext.Command {
	sort.SliceStable(commands, func(i, j int) bool {
		return commands[i].Name() < commands[j].Name()
	})

	return commands
}

func processPersistentFlags(cmd *cobra.Command, args []string) error {
	verbosity, err := cmd.Flags().GetCount(cobraext.VerboseFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.VerboseFlagName)
	}

	logFormat, err := cmd.Flags().GetString(cobraext.LogFormatFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.LogFormatFlagName)
	}

	return logger.SetupLogger(logger.LoggerOptions{
		Verbosity: verbosity,
		LogFormat: logFormat,
	})
}

func checkVersionUpdate(cmd *cobra.Command, args []string) error {
	version.CheckUpdate(cmd.Context())
	return nil
}
