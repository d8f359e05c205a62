package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"github.com/born-ml/qnn/internal/interp"
	"github.com/born-ml/qnn/internal/logger"
	"github.com/born-ml/qnn/internal/operators"
	"github.com/born-ml/qnn/internal/pass"
	"github.com/born-ml/qnn/internal/tensor"
)

func evalCmd() *cli.Command {
	return &cli.Command{
		Name:  "eval",
		Usage: "Lower qnn.softmax and run it on int8 input values",
		Flags: append(quantFlags(),
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "comma separated int8 values in row-major order",
				Required: true,
			},
			&cli.BoolFlag{Name: "dequantize", Usage: "also print the real-valued probabilities"},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			shapes, err := parseShapes(cmd.StringSlice("shape"))
			if err != nil {
				return err
			}
			if len(shapes) != 1 {
				return errors.New("eval takes exactly one --shape")
			}
			values, err := parseInt8s(cmd.String("input"))
			if err != nil {
				return err
			}
			input, err := tensor.FromInt64s(values, shapes[0], tensor.Int8)
			if err != nil {
				return errors.Wrap(err, "--input")
			}

			p := paramsFromFlags(cmd)
			log := logger.FromContext(ctx)
			fn, err := pass.NewCanonicalizer(operators.NewRegistry(), log).Run(softmaxFunction(shapes[0], p))
			if err != nil {
				return err
			}
			out, err := interp.New().Evaluate(fn, map[string]*tensor.RawTensor{"data": input})
			if err != nil {
				return errors.Wrap(err, "evaluate")
			}

			w := cmd.Root().Writer
			fmt.Fprintln(w, out)
			if cmd.Bool("dequantize") {
				probs := lo.Map(out.Int64s(), func(q int64, _ int) string {
					return strconv.FormatFloat(p.outScale*float64(q-p.outZeroPoint), 'f', 4, 64)
				})
				fmt.Fprintf(w, "[%s]\n", strings.Join(probs, " "))
			}
			return nil
		},
	}
}

func parseInt8s(text string) ([]int64, error) {
	fields := strings.Split(text, ",")
	values := make([]int64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 8)
		if err != nil {
			return nil, errors.Wrapf(err, "--input element %d", i)
		}
		values[i] = v
	}
	return values, nil
}
