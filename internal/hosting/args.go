// SPDX-License-Identifier: MPL-2.0

package hosting

const (
	// ChannelDeployCommand is the deploy tool subcommand for preview channels.
	ChannelDeployCommand = "hosting:channel:deploy"
	// CredentialsEnvVar points the deploy tool at the service account key file.
	CredentialsEnvVar = "GOOGLE_APPLICATION_CREDENTIALS"
)

// BuildArgs returns the deploy tool arguments for cfg:
//
//	hosting:channel:deploy <channel> [--project <project>] --json
//
// Expires is deliberately absent; the tool is not told about it.
func BuildArgs(cfg DeployConfig) []string {
	args := []string{ChannelDeployCommand, cfg.ChannelID}
	if cfg.ProjectID != "" {
		args = append(args, "--project", cfg.ProjectID)
	}
	return append(args, "--json")
}
