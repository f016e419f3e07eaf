// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chandeploy/chandeploy/pkg/types"
)

const (
	// OutputText prints a styled human-readable summary.
	OutputText OutputFormat = "text"
	// OutputJSON prints the decoded result as JSON.
	OutputJSON OutputFormat = "json"
	// OutputYAML prints the decoded result as YAML.
	OutputYAML OutputFormat = "yaml"
	// OutputMarkdown prints a Markdown report rendered for the terminal.
	OutputMarkdown OutputFormat = "markdown"

	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"

	// FileFormatCUE is the default config file format.
	FileFormatCUE FileFormat = "cue"
	// FileFormatTOML is the alternative config file format.
	FileFormatTOML FileFormat = "toml"
)

var (
	// ErrInvalidOutputFormat is returned when an OutputFormat value is not recognized.
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidFileFormat is returned when a FileFormat value is not recognized.
	ErrInvalidFileFormat = errors.New("invalid config file format")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrInvalidLoadOptions is the sentinel error wrapped by InvalidLoadOptionsError.
	ErrInvalidLoadOptions = errors.New("invalid load options")
)

type (
	// OutputFormat selects how a deploy result is printed.
	OutputFormat string

	// LogLevel is the minimum level of diagnostics written to stderr.
	LogLevel string

	// FileFormat is the syntax of a config file.
	FileFormat string

	// InvalidValueError is returned when an enumerated config value is not recognized.
	// It wraps the sentinel of the value's type.
	InvalidValueError struct {
		Field    string
		Value    string
		Allowed  []string
		sentinel error
	}

	// Config holds the chandeploy configuration. Every field is optional in
	// config files; DefaultConfig supplies the fallbacks.
	Config struct {
		// FirebasePath is the deploy tool executable, resolved through PATH when bare.
		FirebasePath types.FilesystemPath `json:"firebase_path" mapstructure:"firebase_path" toml:"firebase_path"`
		// CredentialsFile is the service account key path handed to the tool.
		CredentialsFile types.FilesystemPath `json:"credentials_file,omitempty" mapstructure:"credentials_file" toml:"credentials_file,omitempty"`
		ProjectID       string               `json:"project_id,omitempty" mapstructure:"project_id" toml:"project_id,omitempty"`
		ChannelID       string               `json:"channel_id,omitempty" mapstructure:"channel_id" toml:"channel_id,omitempty"`
		// Expires is accepted for compatibility and never forwarded to the tool.
		Expires  string       `json:"expires,omitempty" mapstructure:"expires" toml:"expires,omitempty"`
		Output   OutputFormat `json:"output" mapstructure:"output" toml:"output"`
		LogLevel LogLevel     `json:"log_level" mapstructure:"log_level" toml:"log_level"`
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// InvalidLoadOptionsError is returned when LoadOptions has invalid paths.
	InvalidLoadOptionsError struct {
		FieldErrors []error
	}
)

// OutputFormats lists the accepted output formats.
func OutputFormats() []OutputFormat {
	return []OutputFormat{OutputText, OutputJSON, OutputYAML, OutputMarkdown}
}

// LogLevels lists the accepted log levels, most verbose first.
func LogLevels() []LogLevel {
	return []LogLevel{LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError}
}

func (f OutputFormat) String() string { return string(f) }

// Validate returns an *InvalidValueError if f is not a known format.
func (f OutputFormat) Validate() error {
	return validateEnum("output", f, OutputFormats(), ErrInvalidOutputFormat)
}

func (l LogLevel) String() string { return string(l) }

// Validate returns an *InvalidValueError if l is not a known level.
func (l LogLevel) Validate() error {
	return validateEnum("log_level", l, LogLevels(), ErrInvalidLogLevel)
}

func (f FileFormat) String() string { return string(f) }

// Validate returns an *InvalidValueError if f is not cue or toml.
func (f FileFormat) Validate() error {
	return validateEnum("format", f, []FileFormat{FileFormatCUE, FileFormatTOML}, ErrInvalidFileFormat)
}

func validateEnum[T ~string](field string, value T, allowed []T, sentinel error) error {
	names := make([]string, 0, len(allowed))
	for _, a := range allowed {
		if value == a {
			return nil
		}
		names = append(names, string(a))
	}
	return &InvalidValueError{Field: field, Value: string(value), Allowed: names, sentinel: sentinel}
}

// Error implements the error interface.
func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: %q is not one of %s", e.Field, e.Value, strings.Join(e.Allowed, ", "))
}

// Unwrap returns the sentinel for the value's type.
func (e *InvalidValueError) Unwrap() error { return e.sentinel }

// Validate checks every field and returns an *InvalidConfigError listing all problems.
func (c Config) Validate() error {
	var errs []error
	if err := c.FirebasePath.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("firebase_path: %w", err))
	}
	if c.CredentialsFile != "" {
		if err := c.CredentialsFile.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("credentials_file: %w", err))
		}
	}
	if err := c.Output.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.LogLevel.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s): %v", len(e.FieldErrors), errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig followed by the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Error implements the error interface.
func (e *InvalidLoadOptionsError) Error() string {
	return fmt.Sprintf("invalid load options: %d field error(s): %v", len(e.FieldErrors), errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidLoadOptions for errors.Is() compatibility.
func (e *InvalidLoadOptionsError) Unwrap() error { return ErrInvalidLoadOptions }

// DefaultConfig returns the configuration used when no file or override sets a value.
func DefaultConfig() *Config {
	return &Config{
		FirebasePath: "firebase",
		Output:       OutputText,
		LogLevel:     LogLevelInfo,
	}
}
