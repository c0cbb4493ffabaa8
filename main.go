// The main package for the menu-pipeline executable.
package main

import (
	"github.com/dishcovery/menu-pipeline/cmd"
)

func main() {
	cmd.Execute()
}
