package main

import (
	"os"

	"github.com/docwalk/docwalk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
