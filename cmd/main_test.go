// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"datalayer-extract/internal/loader"
	"datalayer-extract/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps config discovery away from the developer's own files
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("DATALAYER_CONFIG_DIR", filepath.Join(dir, "user-config"))
	t.Setenv("DATALAYER_DEBUG", "")
	return dir
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr, false)
	return code, stdout.String(), stderr.String()
}

func TestRun_ScannerModeTurkish(t *testing.T) {
	isolate(t)
	path := testutil.WritePDF(t, []string{
		"Etiketleme plani",
		"dataLayer.push({'event': 'purchase', 'value': 100})",
	})

	code, stdout, stderr := runCLI(t, path)
	require.Equal(t, 0, code, stderr)

	expected := "\n--- dataLayer.push #1 ---\n" +
		"{'event': 'purchase', 'value': 100}\n" +
		"Parametreler:\n" +
		"  event: 'purchase'\n" +
		"  value: 100\n"
	assert.Equal(t, expected, stdout)
	assert.Empty(t, stderr)
}

func TestRun_RegexModeEnglish(t *testing.T) {
	isolate(t)
	path := testutil.WritePDF(t, []string{"dataLayer.push({'event': 'purchase', 'value': 100})"})

	code, stdout, _ := runCLI(t, "-mode", "regex", "-lang", "en", "-file", path)
	require.Equal(t, 0, code)

	assert.Contains(t, stdout, "Parameters:\n")
	assert.Contains(t, stdout, "  'event': 'purchase'\n")
	assert.Contains(t, stdout, "  'value': 100\n")
}

func TestRun_NoPushes(t *testing.T) {
	isolate(t)
	path := testutil.WritePDF(t, []string{"Nothing to see here"})

	code, stdout, _ := runCLI(t, path)
	assert.Equal(t, 0, code)
	assert.Equal(t, "Hiç dataLayer.push bulunamadı.\n", stdout)
}

func TestRun_MissingFile(t *testing.T) {
	dir := isolate(t)

	code, stdout, stderr := runCLI(t, filepath.Join(dir, "missing.pdf"))
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error: failed to load")
}

func TestRun_InvalidFlagValues(t *testing.T) {
	isolate(t)

	code, _, stderr := runCLI(t, "-mode", "greedy", "x.pdf")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown extraction mode")

	code, _, stderr = runCLI(t, "-layout", "columns", "x.pdf")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown page layout")

	code, _, _ = runCLI(t, "a.pdf", "b.pdf")
	assert.Equal(t, 1, code)
}

func TestRun_ConfigFileAndFlagPrecedence(t *testing.T) {
	dir := isolate(t)
	path := testutil.WritePDF(t, []string{"dataLayer.push({event: 'login'})"})

	configYAML := "defaults:\n  file: " + path + "\n  language: en\nmessages:\n  en:\n    params_header: \"Fields:\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "datalayer.yaml"), []byte(configYAML), 0600))

	code, stdout, _ := runCLI(t)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Fields:\n  event: 'login'\n")

	code, stdout, _ = runCLI(t, "-lang", "tr")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Parametreler:\n")
}

func TestRun_BrokenConfigFallsBackToDefaults(t *testing.T) {
	dir := isolate(t)
	path := testutil.WritePDF(t, []string{"dataLayer.push({event: 'login'})"})
	configPath := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("defaults:\n  mode: greedy\n"), 0600))

	code, stdout, stderr := runCLI(t, "-config", configPath, path)
	require.Equal(t, 0, code)
	assert.Contains(t, stderr, "Warning: Error loading config file")
	assert.Contains(t, stderr, "Using default configuration")
	assert.Contains(t, stdout, "--- dataLayer.push #1 ---")
}

func TestRun_DebugFromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("DATALAYER_DEBUG", "1")
	path := testutil.WritePDF(t, []string{"dataLayer.push({event: 'login'})"})

	code, stdout, stderr := runCLI(t, path)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "--- dataLayer.push #1 ---")
	assert.Contains(t, stderr, "loader: load PDF text")
	assert.Contains(t, stderr, `"push_count":1`)
}

func TestRun_VersionAndHelp(t *testing.T) {
	isolate(t)

	code, stdout, _ := runCLI(t, "-version")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "datalayer-extract")

	code, stdout, _ = runCLI(t, "-help")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "USAGE:")

	code, stdout, _ = runCLI(t, "-help", "modes")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "scanner")

	code, stdout, _ = runCLI(t, "-help", "messages")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Hiç dataLayer.push bulunamadı.")

	code, _, _ = runCLI(t, "-help", "greedy")
	assert.Equal(t, 1, code)
}

func TestRun_FileFlagAndArgumentConflict(t *testing.T) {
	isolate(t)
	path := testutil.WritePDF(t, []string{"dataLayer.push({event: 'login'})"})

	code, stdout, stderr := runCLI(t, "-file", path, path)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "not both")
}

func TestRun_ArgumentOverridesConfigFile(t *testing.T) {
	dir := isolate(t)
	path := testutil.WritePDF(t, []string{"dataLayer.push({event: 'login'})"})
	configYAML := "defaults:\n  file: " + filepath.Join(dir, "missing.pdf") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "datalayer.yaml"), []byte(configYAML), 0600))

	code, stdout, _ := runCLI(t, path)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "event: 'login'")
}

func TestWarnFailedPages(t *testing.T) {
	var stderr bytes.Buffer
	warnFailedPages(&stderr, &loader.Document{EmptyPages: []int{2}})
	assert.Empty(t, stderr.String())

	warnFailedPages(&stderr, &loader.Document{EmptyPages: []int{2, 4}, FailedPages: []int{4}})
	assert.Equal(t, "Warning: could not extract text from pages [4]; they were treated as empty\n", stderr.String())
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
