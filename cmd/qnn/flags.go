package main

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"github.com/born-ml/qnn/internal/config"
	"github.com/born-ml/qnn/internal/logger"
)

var (
	configPath string
	logLevel   string
	logFormat  string
	debug      bool

	// cfg is the loaded configuration with flag overrides applied.
	cfg = config.Default()
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml",
			Value:       config.Path(),
			Destination: &configPath,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (text, json)",
			Value:       "text",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

// quantFlags are the operands of the softmax being lowered.
func quantFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "shape",
			Usage: "input shape, e.g. 2,8 or ?,8 (repeat to lower several graphs)",
			Value: []string{"3"},
		},
		&cli.IntFlag{Name: "axis", Usage: "reduction axis, negative counts from the end", Value: -1},
		&cli.FloatFlag{Name: "scale", Usage: "input scale", Value: 1.0 / 256},
		&cli.IntFlag{Name: "zero-point", Usage: "input zero point", Value: 0},
		&cli.FloatFlag{Name: "out-scale", Usage: "output scale", Value: 1.0 / 256},
		&cli.IntFlag{Name: "out-zero-point", Usage: "output zero point", Value: -128},
	}
}

// setup loads the config file and installs the logger. Flags given on the
// command line win over config values.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	loaded, err := config.Load(configPath)
	if err != nil {
		return ctx, err
	}
	if cmd.IsSet("log-level") {
		loaded.LogLevel = logLevel
	}
	if debug {
		loaded.LogLevel = "debug"
	}
	if cmd.IsSet("log-format") {
		loaded.LogFormat = logFormat
	}
	if err := loaded.Validate(); err != nil {
		return ctx, errors.Wrap(err, "flags")
	}
	cfg = loaded

	log := logger.Configure(os.Stderr, cfg.LogFormat, cfg.LogLevel)
	log.Debug("configuration loaded", "path", configPath, "workers", cfg.Workers)
	return logger.WithContext(ctx, log), nil
}
