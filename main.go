// Package main is the entry point for the wizql command-line tool.
package main

import (
	"os"

	"github.com/Norgate-AV/wizql/cmd"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
