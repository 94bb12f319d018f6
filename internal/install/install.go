// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package install

import (
	"fmt"
	"os"

	"github.com/testwatch/testwatch/internal/configuration/locations"
	"github.com/testwatch/testwatch/internal/profile"
)

// EnsureInstalled installs once the static resources required by testwatch,
// including the default profile.
func EnsureInstalled() error {
	loc, err := locations.NewLocationManager()
	if err != nil {
		return fmt.Errorf("failed locating the configuration directory: %w", err)
	}

	installed, err := checkIfAlreadyInstalled(loc)
	if err != nil {
		return err
	}
	if installed {
		return nil
	}

	err = createRootDirectory(loc)
	if err != nil {
		return fmt.Errorf("creating root directory failed: %w", err)
	}

	err = writeVersionFile(loc)
	if err != nil {
		return fmt.Errorf("writing version file failed: %w", err)
	}

	err = createDefaultProfile(loc)
	if err != nil {
		return fmt.Errorf("creating default profile failed: %w", err)
	}

	fmt.Fprintln(os.Stderr, "testwatch has been installed.")
	return nil
}

func checkIfAlreadyInstalled(loc *locations.LocationManager) (bool, error) {
	_, err := os.Stat(loc.ProfileDir())
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat file failed (path: %s): %w", loc.ProfileDir(), err)
	}
	return checkIfLatestVersionInstalled(loc)
}

func createRootDirectory(loc *locations.LocationManager) error {
	err := os.RemoveAll(loc.TempDir()) // remove in case of potential upgrade
	if err != nil {
		return fmt.Errorf("removing directory failed (path: %s): %w", loc.TempDir(), err)
	}

	err = os.MkdirAll(loc.RootDir(), 0755)
	if err != nil {
		return fmt.Errorf("creating directory failed (path: %s): %w", loc.RootDir(), err)
	}
	return nil
}

func createDefaultProfile(loc *locations.LocationManager) error {
	err := os.MkdirAll(loc.ProfileDir(), 0755)
	if err != nil {
		return fmt.Errorf("creating directory failed (path: %s): %w", loc.ProfileDir(), err)
	}

	options := profile.Options{
		ProfilesDirPath:   loc.ProfileDir(),
		Name:              profile.DefaultProfile,
		OverwriteExisting: false,
	}
	return profile.CreateProfile(options)
}

func writeStaticResource(err error, path, content string) error {
	if err != nil {
		return err
	}

	err = os.WriteFile(path, []byte(content), 0644)
	if err != nil {
		return fmt.Errorf("writing file failed (path: %s): %w", path, err)
	}
	return nil
}
