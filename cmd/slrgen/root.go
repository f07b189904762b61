package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "slrgen",
	Short:         "slrgen compiles context-free grammars into SLR(1) parsing tables and drives them",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func execute() error {
	return rootCmd.Execute()
}
