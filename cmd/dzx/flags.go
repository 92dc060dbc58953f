package main

import (
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/dzx/pkg/dzx"
)

var (
	configFile string
	logLevel   string
	logFormat  string
	debug      bool
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml (default: user config dir)",
			Destination: &configFile,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func inFlag(dst *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "in",
		Aliases:     []string{"i"},
		Usage:       "path to a .dzr or .dzs file",
		Destination: dst,
		Required:    true,
	}
}

func typeFlag(dst *string, required bool) cli.Flag {
	return &cli.StringFlag{
		Name:        "type",
		Aliases:     []string{"t"},
		Usage:       "logical chunk type (ACTR, TRES, SCOB, PLYR, ...)",
		Destination: dst,
		Required:    required,
	}
}

func layerFlag(dst *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "layer",
		Aliases:     []string{"l"},
		Usage:       "layer 0-11 (or a/b); \"none\" for layerless chunks",
		Destination: dst,
	}
}

func catalogFlag(dst *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "catalog",
		Usage:       "path to the catalog database",
		Destination: dst,
	}
}

// stdout is the root command's writer, so tests can capture output.
func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

// parseLayerFlag returns nil when the flag was left empty.
func parseLayerFlag(s string) (*dzx.Layer, error) {
	if s == "" {
		return nil, nil
	}
	l, err := dzx.ParseLayer(s)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
