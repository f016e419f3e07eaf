// SPDX-License-Identifier: MPL-2.0

// Package hosting deploys a hosting site to a preview channel by running the
// Firebase CLI (`firebase hosting:channel:deploy <channel> --json`) and decoding
// the JSON document it prints on stdout.
//
// The deployer owns the invocation only: it builds the argument list, points
// GOOGLE_APPLICATION_CREDENTIALS at the supplied key file, records stdout in
// write order, and decodes the result. Result decoding is strict: the status
// discriminant selects a branch and every field that branch requires must be
// present, otherwise a *DecodeError is returned.
//
// The package also carries the helpers the CLI builds around a deployment:
// channel id derivation for pull requests, materialising inline service
// account JSON into a key file, and summarising a successful result.
package hosting
