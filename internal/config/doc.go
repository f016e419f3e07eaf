// SPDX-License-Identifier: MPL-2.0

// Package config loads chandeploy settings using Viper.
//
// Settings come from defaults, then a config file, then CHANDEPLOY_* environment
// variables. The file is config.cue or config.toml in the platform config
// directory (~/.config/chandeploy on Linux). Both formats are validated against
// the embedded CUE schema (config_schema.cue) before they are merged.
package config
