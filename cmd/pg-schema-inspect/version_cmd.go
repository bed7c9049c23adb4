package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

func buildVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Get the version of pg-schema-inspect",
	}
	cmd.RunE = func(_ *cobra.Command, _ []string) error {
		buildInfo, ok := debug.ReadBuildInfo()
		if !ok {
			return fmt.Errorf("build information not available")
		}
		cmdPrintf(cmd, "version=%s\n", buildInfo.Main.Version)
		cmdPrintf(cmd, "go=%s\n", buildInfo.GoVersion)

		return nil
	}
	return cmd
}
