package main

import (
	"fmt"
	"os"

	"github.com/planora/planora/internal/cmd"
	"github.com/planora/planora/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "planora: %v\n", err)
		if errors.IsConfiguration(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
