// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/chandeploy/chandeploy/cmd/chandeploy"

func main() {
	cmd.Execute()
}
