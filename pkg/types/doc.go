// SPDX-License-Identifier: MPL-2.0

// Package types holds small validated value types shared by the chandeploy
// packages: filesystem paths handed to the deploy tool and process exit codes.
package types
