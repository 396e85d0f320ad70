package main

import (
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			printInfo("segpool %s\n", version)
			printInfo("  commit: %s\n", commit)
			printInfo("  built: %s\n", date)
		},
	}
}
