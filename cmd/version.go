package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dankeboy36/ardunno-cli-gen/lib/consts"
)

func getCmdVersion(gs *globalState) *cobra.Command {
	// versionCmd represents the version command.
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show application version",
		Long:  `Show the application version and build details.`,
		Run: func(_ *cobra.Command, _ []string) {
			printToStdout(gs, fmt.Sprintf("%s v%s\n", consts.AppName, consts.FullVersion()))
		},
	}
	return versionCmd
}
