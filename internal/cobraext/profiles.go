// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package cobraext

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/testwatch/testwatch/internal/configuration/locations"
	"github.com/testwatch/testwatch/internal/profile"
)

// ProfileNameEnv overrides the profile selected with the --profile flag.
const ProfileNameEnv = "TESTWATCH_PROFILE"

// GetProfileFlag returns the profile selected by flag, environment or default.
func GetProfileFlag(cmd *cobra.Command) (*profile.Profile, error) {
	profileName, err := cmd.Flags().GetString(ProfileFlagName)
	if err != nil {
		return nil, FlagParsingError(err, ProfileFlagName)
	}
	if profileName == "" {
		profileName = os.Getenv(ProfileNameEnv)
	}
	if profileName == "" {
		profileName = profile.DefaultProfile
	}

	p, err := profile.LoadProfile(profileName)
	if errors.Is(err, profile.ErrNotAProfile) {
		list, err := availableProfilesAsAList()
		if err != nil {
			return nil, fmt.Errorf("error listing known profiles: %w", err)
		}
		if len(list) == 0 {
			return nil, fmt.Errorf("%s is not a valid profile", profileName)
		}
		return nil, fmt.Errorf("%s is not a valid profile, known profiles are: %s", profileName, strings.Join(list, ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("error loading profile: %w", err)
	}

	return p, nil
}

func availableProfilesAsAList() ([]string, error) {
	loc, err := locations.NewLocationManager()
	if err != nil {
		return []string{}, fmt.Errorf("error fetching profile path: %w", err)
	}

	profileNames := []string{}
	profileList, err := profile.FetchAllProfiles(loc.ProfileDir())
	if err != nil {
		return profileNames, fmt.Errorf("error fetching all profiles: %w", err)
	}
	for _, prof := range profileList {
		profileNames = append(profileNames, prof.Name)
	}

	return profileNames, nil
}
