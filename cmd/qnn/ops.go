package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/born-ml/qnn/internal/operators"
)

func opsCmd() *cli.Command {
	return &cli.Command{
		Name:  "ops",
		Usage: "List registered operators",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			tw := tabwriter.NewWriter(cmd.Root().Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tINPUTS\tLOWERED\tDESCRIPTION")
			for _, op := range operators.NewRegistry().Ops() {
				lowered := "-"
				if op.NonComputational {
					lowered = "yes"
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", op.Name, op.NumInputs, lowered, op.Description)
			}
			return tw.Flush()
		},
	}
}
