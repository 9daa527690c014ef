package main

import (
	"os"

	"github.com/quantfold/stratsim/cmd/stratsim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
