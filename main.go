/*
Copyright © 2025 Alchemy Migrator Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package main

import "github.com/nbbaier/alchemy-migrator/cmd"

func main() {
	cmd.Execute()
}
