package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/jsonview"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of jsonview",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "jsonview version %s\n", strings.TrimSpace(jsonview.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
