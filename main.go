// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/asrrun/asrrun/cmd/asrrun"

func main() {
	cmd.Execute()
}
