// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package files

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/sh"
)

// CopyAll copies files from the source to the destination skipping empty directories.
func CopyAll(sourcePath, destinationPath string) error {
	return filepath.Walk(sourcePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relativePath, err := filepath.Rel(sourcePath, path)
		if err != nil {
			return err
		}

		if relativePath == "." {
			return nil
		}

		if info.IsDir() {
			return nil // skip empty directories, they are created for contained files.
		}

		err = os.MkdirAll(filepath.Join(destinationPath, filepath.Dir(relativePath)), 0o755)
		if err != nil {
			return err
		}
		return sh.Copy(
			filepath.Join(destinationPath, relativePath),
			path)
	})
}
