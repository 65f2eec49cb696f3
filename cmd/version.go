package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version number",
		Run: func(cmd *cobra.Command, args []string) {
			// Defaults to master
			version := "master"
			goVersion := ""

			if info, ok := debug.ReadBuildInfo(); ok {
				for _, setting := range info.Settings {
					if setting.Key == "vcs.revision" {
						version = setting.Value
					}
					if setting.Key == "vcs.modified" && setting.Value == "true" {
						version += " (modified)"
					}
				}
				goVersion = info.GoVersion
			}

			fmt.Fprintln(cmd.OutOrStdout(), "launch-analyzer", version)
			fmt.Fprintln(cmd.OutOrStdout(), "- go/version:", goVersion)
		},
	}
}
