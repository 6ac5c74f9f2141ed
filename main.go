// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/unitfold/unitfold/cmd/unitfold"

func main() {
	cmd.Execute()
}
