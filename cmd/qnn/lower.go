package main

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"github.com/born-ml/qnn/internal/ir"
	"github.com/born-ml/qnn/internal/logger"
	"github.com/born-ml/qnn/internal/operators"
	"github.com/born-ml/qnn/internal/pass"
)

func lowerCmd() *cli.Command {
	return &cli.Command{
		Name:  "lower",
		Usage: "Lower qnn.softmax to integer arithmetic and print the graph",
		Flags: append(quantFlags(),
			&cli.StringFlag{Name: "format", Usage: "output format (text, json)", Value: "text"},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format := cfg.Output
			if cmd.IsSet("format") {
				format = cmd.String("format")
			}
			if format != "text" && format != "json" {
				return errors.Errorf("unknown format %q", format)
			}

			shapes, err := parseShapes(cmd.StringSlice("shape"))
			if err != nil {
				return err
			}
			p := paramsFromFlags(cmd)
			fns := make([]*ir.Function, len(shapes))
			for i, s := range shapes {
				fns[i] = softmaxFunction(s, p)
			}

			log := logger.FromContext(ctx)
			lowered, err := pass.NewCanonicalizer(operators.NewRegistry(), log).RunAll(ctx, fns, cfg.Workers)
			if err != nil {
				return err
			}
			for _, fn := range lowered {
				if err := printFunction(cmd, fn, format); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func printFunction(cmd *cli.Command, fn *ir.Function, format string) error {
	w := cmd.Root().Writer
	if format == "json" {
		data, err := json.Marshal(fn)
		if err != nil {
			return errors.Wrap(err, "encode graph")
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	_, err := fmt.Fprint(w, fn.String())
	return err
}
