package main

import (
	"os"

	"github.com/dashpi/displayd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
