package main

import (
	"fmt"
	"os"

	"github.com/marmos91/volcat/cmd/volcat/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "volcat: %v\n", err)
		os.Exit(1)
	}
}
