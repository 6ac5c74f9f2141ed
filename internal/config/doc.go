// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/unitfold/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/unitfold/config.cue on macOS, %APPDATA%\unitfold\config.cue
// on Windows), falling back to ./config.cue. It selects catalog sources, output
// formatting, the SSH calculator address and UI settings. UNITFOLD_* environment
// variables override file values.
//
// Files are validated against an embedded CUE schema (config_schema.cue); the
// decoded Config is then checked again with typed IsValid methods.
package config
