package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the airframe version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("airframe v%s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
