package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const appVersion = "0.3.0"

var build = "unknown"

// SetBuild sets the build string from main
func SetBuild(b string) {
	build = b
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("shopmate %s (%s)\n", appVersion, build)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
