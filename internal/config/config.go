// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/chandeploy/chandeploy/internal/issue"
	"github.com/chandeploy/chandeploy/pkg/types"
)

const (
	// AppName is the application name.
	AppName = "chandeploy"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// EnvPrefix prefixes environment variables that override config keys,
	// e.g. CHANDEPLOY_PROJECT_ID overrides project_id.
	EnvPrefix = "CHANDEPLOY"
)

// ConfigDir returns the chandeploy configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Locate returns the config file that Load would read. found is false when
// no file exists; path is then where a CUE file would be created.
func Locate(opts LoadOptions) (path string, found bool, err error) {
	if err := opts.Validate(); err != nil {
		return "", false, err
	}
	if opts.ConfigFilePath != "" {
		p := string(opts.ConfigFilePath)
		return p, fileExists(p), nil
	}

	cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", false, err
	}

	cuePath := filepath.Join(cfgDir, ConfigFileName+"."+string(FileFormatCUE))
	if fileExists(cuePath) {
		return cuePath, true, nil
	}
	tomlPath := filepath.Join(cfgDir, ConfigFileName+"."+string(FileFormatTOML))
	if fileExists(tomlPath) {
		return tomlPath, true, nil
	}
	return cuePath, false, nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state. Precedence, lowest first: defaults, file, CHANDEPLOY_* env.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	path, found, err := Locate(opts)
	if err != nil {
		return nil, "", err
	}

	resolvedPath := ""
	switch {
	case found:
		if err := mergeFileIntoViper(v, path); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file matches the configuration schema").
				WithSuggestion("Run 'chandeploy config init --force' to start from defaults").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
		resolvedPath = path
	case opts.ConfigFilePath != "":
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(path).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Use 'chandeploy config show' to see the default configuration").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(fmt.Errorf("config file not found: %s", path)).
			BuildError()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check " + EnvPrefix + "_* environment variables for typos").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("firebase_path", d.FirebasePath.String())
	v.SetDefault("credentials_file", d.CredentialsFile.String())
	v.SetDefault("project_id", d.ProjectID)
	v.SetDefault("channel_id", d.ChannelID)
	v.SetDefault("expires", d.Expires)
	v.SetDefault("output", d.Output.String())
	v.SetDefault("log_level", d.LogLevel.String())
}

// mergeFileIntoViper validates a CUE or TOML file against the schema and
// merges its values into v. The format follows the file extension.
func mergeFileIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := checkFileSize(data, maxConfigFileSize, path); err != nil {
		return err
	}

	var configMap map[string]any
	switch formatOf(path) {
	case FileFormatTOML:
		configMap, err = decodeTOML(data, path)
	default:
		configMap, err = decodeCUE(data, path)
	}
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// formatOf picks the file format from the extension, defaulting to CUE.
func formatOf(path string) FileFormat {
	if strings.EqualFold(filepath.Ext(path), "."+string(FileFormatTOML)) {
		return FileFormatTOML
	}
	return FileFormatCUE
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath types.FilesystemPath) (string, error) {
	if configDirPath != "" {
		return string(configDirPath), nil
	}
	return ConfigDir()
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default configuration to dir (the config
// directory when empty) in the given format. An existing file is kept unless
// force is set; created reports whether a file was written.
func CreateDefaultConfig(dir string, format FileFormat, force bool) (path string, created bool, err error) {
	if err := format.Validate(); err != nil {
		return "", false, err
	}
	if dir == "" {
		if dir, err = ConfigDir(); err != nil {
			return "", false, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}

	path = filepath.Join(dir, ConfigFileName+"."+string(format))
	if !force && fileExists(path) {
		return path, false, nil
	}

	content, err := Generate(DefaultConfig(), format)
	if err != nil {
		return "", false, err
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}
	return path, true, nil
}

// Generate renders cfg in the given file format.
func Generate(cfg *Config, format FileFormat) ([]byte, error) {
	switch format {
	case FileFormatCUE:
		return []byte(GenerateCUE(cfg)), nil
	case FileFormatTOML:
		return GenerateTOML(cfg)
	default:
		return nil, format.Validate()
	}
}

// GenerateCUE generates a CUE representation of the configuration.
// Optional fields are written only when set.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// chandeploy configuration file\n\n")
	fmt.Fprintf(&sb, "firebase_path: %q\n", cfg.FirebasePath)
	if cfg.CredentialsFile != "" {
		fmt.Fprintf(&sb, "credentials_file: %q\n", cfg.CredentialsFile)
	}
	if cfg.ProjectID != "" {
		fmt.Fprintf(&sb, "project_id: %q\n", cfg.ProjectID)
	}
	if cfg.ChannelID != "" {
		fmt.Fprintf(&sb, "channel_id: %q\n", cfg.ChannelID)
	}
	if cfg.Expires != "" {
		fmt.Fprintf(&sb, "expires: %q\n", cfg.Expires)
	}

	sb.WriteString("\n// text | json | yaml | markdown\n")
	fmt.Fprintf(&sb, "output: %q\n", cfg.Output)
	sb.WriteString("\n// debug | info | warn | error\n")
	fmt.Fprintf(&sb, "log_level: %q\n", cfg.LogLevel)

	return sb.String()
}
