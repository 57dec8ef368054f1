package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/trmc"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of trmc",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "trmc version %s\n", strings.TrimSpace(trmc.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
