// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyAll(t *testing.T) {
	source := t.TempDir()
	destination := filepath.Join(t.TempDir(), "copy")

	require.NoError(t, os.MkdirAll(filepath.Join(source, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(source, "config.yml"), []byte("index: test-results\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(source, "nested", "notes.txt"), []byte("notes"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(source, "empty"), 0o755))

	err := CopyAll(source, destination)
	require.NoError(t, err)

	d, err := os.ReadFile(filepath.Join(destination, "config.yml"))
	require.NoError(t, err)
	assert.Equal(t, "index: test-results\n", string(d))

	d, err = os.ReadFile(filepath.Join(destination, "nested", "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "notes", string(d))

	_, err = os.Stat(filepath.Join(destination, "empty"))
	assert.True(t, os.IsNotExist(err))
}
