package main

import (
	"context"
	"fmt"
	rtdebug "runtime/debug"

	"github.com/urfave/cli/v3"
)

const version = "v0.1.0-dev"

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			fmt.Fprintf(cmd.Root().Writer, "qnn %s\n", version)
			if info, ok := rtdebug.ReadBuildInfo(); ok {
				fmt.Fprintf(cmd.Root().Writer, "go:  %s\n", info.GoVersion)
			}
			return nil
		},
	}
}
