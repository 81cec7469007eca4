// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory name used under the user configuration directory.
const AppName = "datalayer-extract"

// GetConfigDir returns the datalayer-extract configuration directory.
// DATALAYER_CONFIG_DIR overrides the platform default (XDG_CONFIG_HOME or
// ~/.config on Unix, %APPDATA% on Windows).
func GetConfigDir() string {
	if dir := os.Getenv("DATALAYER_CONFIG_DIR"); dir != "" {
		return dir
	}

	base, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, AppName)
}

// GetConfigFile returns the path to the main config file
func GetConfigFile() string {
	dir := GetConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// ValidatePath validates a path for the current platform
func ValidatePath(path string) error {
	if path == "" {
		return nil // Empty path is valid
	}

	if err := validateNullBytes(path); err != nil {
		return err
	}

	if runtime.GOOS == "windows" {
		return validateWindowsPath(path)
	}

	return nil
}

// validateWindowsPath validates a Windows path
func validateWindowsPath(path string) error {
	invalidChars := []rune{'<', '>', '"', '|', '?', '*'}
	for i, char := range path {
		if char == ':' && i != 1 {
			return &PathValidationError{Path: path, Reason: "contains invalid character: :"}
		}
		for _, invalid := range invalidChars {
			if char == invalid {
				return &PathValidationError{
					Path:   path,
					Reason: "contains invalid character: " + string(char),
				}
			}
		}
	}

	if len(path) > 32767 {
		return &PathValidationError{
			Path:   path,
			Reason: "path exceeds maximum length of 32,767 characters",
		}
	}

	return nil
}

// validateNullBytes rejects paths containing a null byte
func validateNullBytes(path string) error {
	for _, char := range path {
		if char == 0 {
			return &PathValidationError{
				Path:   path,
				Reason: "contains null byte",
			}
		}
	}

	return nil
}

// PathValidationError represents a path validation error
type PathValidationError struct {
	Path   string
	Reason string
}

func (e *PathValidationError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Reason
}
