package main

import (
	"fmt"

	"github.com/iafnetworkspa/elsevier-mcp/pkg/version"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVarP(&versionM, "module", "m", false, "module version information")
}

var versionM bool
var versionCmd = &cobra.Command{
	Use:   "version [-m]",
	Short: "Show the version of elsevier-mcp",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if versionM {
			fmt.Println(version.Modules())
		} else {
			fmt.Printf("%s %s\n", serverName, version.String())
		}
	},
}
