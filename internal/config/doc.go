// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/phobos/config.cue (or the XDG equivalent on Linux,
// ~/Library/Application Support/phobos/config.cue on macOS, %APPDATA%\phobos\config.cue
// on Windows). Every key can be overridden through a PHOBOS_ prefixed environment
// variable, with dots replaced by underscores (PHOBOS_INJECTION_MODE).
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
