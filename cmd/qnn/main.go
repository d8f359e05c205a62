// Package main provides the qnn CLI: lower quantized softmax graphs to
// integer arithmetic and evaluate them with the reference interpreter.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:      "qnn",
		Usage:     "Integer-only lowering of quantized softmax",
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Flags:     globalFlags(),
		Before:    setup,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			lowerCmd(),
			evalCmd(),
			opsCmd(),
			versionCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
