// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// newChannelCommand creates `chandeploy channel`, which prints the channel id
// a pull request deploy would use.
func newChannelCommand(app *App, root *rootOptions) *cobra.Command {
	var pr prOptions

	cmd := &cobra.Command{
		Use:   "channel",
		Short: "Print the preview channel id derived from a pull request",
		Example: `  chandeploy channel --pr 42
  chandeploy channel --pr 42 --branch feature/login`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if pr.number <= 0 {
				return newUsageError(errors.New("--pr must be a positive pull request number"))
			}

			s, err := app.newSession(cmd.Context(), cmd, root)
			if err != nil {
				return err
			}

			// The derived id goes through the same sanitizing as a deploy.
			channel, err := resolveChannel(app, s, "", pr)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(app.stdout, channel)
			return err
		},
	}

	cmd.Flags().IntVar(&pr.number, "pr", 0, "pull request number")
	cmd.Flags().StringVar(&pr.branch, "branch", "", "pull request branch (default: current Git branch)")
	return cmd
}
