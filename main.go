// SPDX-License-Identifier: MPL-2.0

// Command create-phobos scaffolds a React project from composable modules.
package main

import cmd "github.com/adrianoanschau/create-phobos/cmd/create-phobos"

func main() {
	cmd.Execute()
}
