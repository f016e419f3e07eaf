// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the chandeploy command tree.
//
// Commands are built from an App (the composition root) so tests can replace
// the config provider, process runner and branch lookup.
package cmd
