package main

import (
	"os"

	"github.com/pond-exchange/pond/cmd/pondd/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
