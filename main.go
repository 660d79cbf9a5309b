package main

import (
	"os"

	"github.com/manav03panchal/medtrack/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
