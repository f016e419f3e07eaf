// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chandeploy/chandeploy/internal/config"
	"github.com/chandeploy/chandeploy/pkg/types"
)

// newConfigCommand creates the `chandeploy config` command tree.
func newConfigCommand(app *App, root *rootOptions) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage chandeploy configuration",
		Long: `Manage chandeploy configuration.

Configuration is read from config.cue or config.toml in:
  - Linux: ~/.config/chandeploy/
  - macOS: ~/Library/Application Support/chandeploy/
  - Windows: %APPDATA%\chandeploy\

Every key can be overridden with a ` + config.EnvPrefix + `_<KEY> environment variable.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), cmd, root)
			if err != nil {
				return err
			}
			path, found, err := config.Locate(loadOptions(root))
			if err != nil {
				return err
			}
			return showConfig(app, s.cfg, path, found)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _, err := config.Locate(loadOptions(root))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(app.stdout, path)
			return err
		},
	})

	var initFormat string
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := config.FileFormat(initFormat)
			if err := format.Validate(); err != nil {
				return newUsageError(err)
			}
			path, created, err := config.CreateDefaultConfig("", format, force)
			if err != nil {
				return err
			}
			if !created {
				fmt.Fprintf(app.stdout, "%s Configuration already exists at %s (use --force to overwrite)\n", WarningStyle.Render("!"), path)
				return nil
			}
			fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	}
	initCmd.Flags().StringVar(&initFormat, "format", string(config.FileFormatCUE), "file format: cue or toml")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cfgCmd.AddCommand(initCmd)

	var dumpFormat string
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the effective configuration as CUE or TOML",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := config.FileFormat(dumpFormat)
			if err := format.Validate(); err != nil {
				return newUsageError(err)
			}
			s, err := app.newSession(cmd.Context(), cmd, root)
			if err != nil {
				return err
			}
			content, err := config.Generate(s.cfg, format)
			if err != nil {
				return err
			}
			_, err = app.stdout.Write(content)
			return err
		},
	}
	dumpCmd.Flags().StringVar(&dumpFormat, "format", string(config.FileFormatCUE), "file format: cue or toml")
	cfgCmd.AddCommand(dumpCmd)

	return cfgCmd
}

func loadOptions(root *rootOptions) config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: types.FilesystemPath(root.configPath)}
}

func showConfig(app *App, cfg *config.Config, path string, found bool) error {
	w := app.stdout

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	source := path
	if !found {
		source = SubtitleStyle.Render("(using defaults)")
	}
	fmt.Fprintf(w, "%s: %s\n\n", CmdStyle.Render("Config file"), source)

	rows := []struct {
		key   string
		value string
	}{
		{"firebase_path", cfg.FirebasePath.String()},
		{"credentials_file", cfg.CredentialsFile.String()},
		{"project_id", cfg.ProjectID},
		{"channel_id", cfg.ChannelID},
		{"expires", cfg.Expires},
		{"output", cfg.Output.String()},
		{"log_level", cfg.LogLevel.String()},
	}
	for _, row := range rows {
		value := SuccessStyle.Render(row.value)
		if row.value == "" {
			value = SubtitleStyle.Render("(not set)")
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render(row.key), value); err != nil {
			return err
		}
	}
	return nil
}
