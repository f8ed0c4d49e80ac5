package main

import (
	"fmt"
	"os"

	"github.com/ByLCY/cardcraft/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "cardcraft: %v\n", err)
		os.Exit(1)
	}
}
