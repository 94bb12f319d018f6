// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/spf13/cobra"

	"github.com/testwatch/testwatch/internal/cobraext"
	"github.com/testwatch/testwatch/internal/configuration/locations"
	"github.com/testwatch/testwatch/internal/profile"
)

func setupProfilesCommand() *cobraext.Command {
	profilesLongDescription := `Use this command to add, remove, and manage multiple config profiles.

Individual user profiles appear in ~/.testwatch/profiles and contain the deployment endpoints, credentials and job defaults used by the other commands.
Once a new profile is created, it can be specified with the -p flag, or the ` + cobraext.ProfileNameEnv + ` environment variable.`

	profileCommand := &cobra.Command{
		Use:   "profiles",
		Short: "Manage configuration profiles",
		Long:  profilesLongDescription,
	}

	profileNewCommand := &cobra.Command{
		Use:   "create",
		Short: "Create a new profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			newProfileName := args[0]

			fromName, err := cmd.Flags().GetString(cobraext.ProfileFromFlagName)
			if err != nil {
				return cobraext.FlagParsingError(err, cobraext.ProfileFromFlagName)
			}
			options := profile.Options{
				Name:        newProfileName,
				FromProfile: fromName,
			}
			err = profile.CreateProfile(options)
			if err != nil {
				return fmt.Errorf("error creating profile %s from profile %s: %w", newProfileName, fromName, err)
			}

			cmd.Printf("Created profile %s from %s.\n", newProfileName, fromName)
			return nil
		},
	}
	profileNewCommand.Flags().String(cobraext.ProfileFromFlagName, "default", cobraext.ProfileFromFlagDescription)

	profileDeleteCommand := &cobra.Command{
		Use:   "delete",
		Short: "Delete a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profileName := args[0]

			err := profile.DeleteProfile(profileName)
			if err != nil {
				return fmt.Errorf("error deleting profile: %w", err)
			}

			cmd.Printf("Deleted profile %s\n", profileName)
			return nil
		},
	}

	profileListCommand := &cobra.Command{
		Use:   "list",
		Short: "List available profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := locations.NewLocationManager()
			if err != nil {
				return fmt.Errorf("error fetching profile path: %w", err)
			}
			profileList, err := profile.FetchAllProfiles(loc.ProfileDir())
			if err != nil {
				return fmt.Errorf("error listing all profiles: %w", err)
			}
			if len(profileList) == 0 {
				return errors.New("no profiles found")
			}

			table := tablewriter.NewTable(cmd.OutOrStdout(),
				tablewriter.WithRenderer(renderer.NewColorized(defaultColorizedConfig())),
				tablewriter.WithConfig(defaultTableConfig),
			)
			table.Header([]string{"Name", "Date Created", "Version"})
			for _, p := range profileList {
				table.Append([]string{p.Name, p.DateCreated.Format(time.RFC3339), p.Version})
			}
			table.Render()

			return nil
		},
	}

	profileCommand.AddCommand(profileNewCommand, profileDeleteCommand, profileListCommand)

	return cobraext.NewCommand(profileCommand)
}
