// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

// Package locations manages base file and directory locations used by testwatch.
package locations

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	testwatchDir = ".testwatch"
	profilesDir  = "profiles"
	temporaryDir = "tmp"
)

// testwatchRootEnv overrides the root configuration directory.
const testwatchRootEnv = "TESTWATCH_DATA_HOME"

// LocationManager maintains an instance of a config path location
type LocationManager struct {
	rootPath string
}

// NewLocationManager returns a new manager to track the configuration dir
func NewLocationManager() (*LocationManager, error) {
	cfg, err := configurationDir()
	if err != nil {
		return nil, fmt.Errorf("error getting config dir: %w", err)
	}

	return &LocationManager{rootPath: cfg}, nil
}

// RootDir returns the root testwatch dir
func (loc LocationManager) RootDir() string {
	return loc.rootPath
}

// ProfileDir returns the profile directory location
func (loc LocationManager) ProfileDir() string {
	return filepath.Join(loc.rootPath, profilesDir)
}

// TempDir returns the temp directory location
func (loc LocationManager) TempDir() string {
	return filepath.Join(loc.rootPath, temporaryDir)
}

// configurationDir returns the configuration directory location
// If a environment variable named as in testwatchRootEnv is present,
// the value is used as is, overriding the default of ~/.testwatch
func configurationDir() (string, error) {
	buildDir := os.Getenv(testwatchRootEnv)
	if buildDir != "" {
		return buildDir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("reading home dir failed: %w", err)
	}
	return filepath.Join(homeDir, testwatchDir), nil
}
