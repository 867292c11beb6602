// SPDX-License-Identifier: MPL-2.0

// Command dolpack packages Degrees of Lewdity mods for the ModLoader.
package main

import cmd "github.com/Meow0x7E/DoL-Mods/cmd/dolpack"

func main() {
	cmd.Execute()
}
