// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigDir_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATALAYER_CONFIG_DIR", dir)

	assert.Equal(t, dir, GetConfigDir())
	assert.Equal(t, filepath.Join(dir, "config.yaml"), GetConfigFile())
}

func TestGetConfigDir_DefaultEndsWithAppName(t *testing.T) {
	t.Setenv("DATALAYER_CONFIG_DIR", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dir := GetConfigDir()
	require.NotEmpty(t, dir)
	assert.Equal(t, AppName, filepath.Base(dir))
}

func TestValidatePath(t *testing.T) {
	assert.NoError(t, ValidatePath(""))
	assert.NoError(t, ValidatePath("reports/tagging plan.pdf"))

	err := ValidatePath("bad\x00path")
	require.Error(t, err)

	var pathErr *PathValidationError
	require.True(t, errors.As(err, &pathErr))
	assert.Equal(t, "contains null byte", pathErr.Reason)
}

