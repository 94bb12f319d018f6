// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package install

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/testwatch/testwatch/internal/configuration/locations"
	"github.com/testwatch/testwatch/internal/logger"
	"github.com/testwatch/testwatch/internal/version"
)

const versionFilename = "version"

func checkIfLatestVersionInstalled(loc *locations.LocationManager) (bool, error) {
	versionPath := filepath.Join(loc.RootDir(), versionFilename)
	versionFile, err := os.ReadFile(versionPath)
	if os.IsNotExist(err) {
		return false, nil // old install, no version file
	}
	if err != nil {
		return false, fmt.Errorf("reading version file failed: %w", err)
	}
	v := string(versionFile)
	if version.CommitHash == "undefined" && strings.Contains(v, "undefined") {
		logger.Warnf("CommitHash is undefined, in both %s and the compiled binary, config may be out of date.", versionPath)
	}
	return buildVersionFile(version.CommitHash, version.BuildTime) == v, nil
}

func writeVersionFile(loc *locations.LocationManager) error {
	return writeStaticResource(nil,
		filepath.Join(loc.RootDir(), versionFilename),
		buildVersionFile(version.CommitHash, version.BuildTime))
}

func buildVersionFile(commitHash, buildTime string) string {
	return fmt.Sprintf("%s-%s", commitHash, buildTime)
}
