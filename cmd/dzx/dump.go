package main

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/dzx/pkg/dzx"
)

func dumpCmd() *cli.Command {
	var (
		inPath  string
		typ     string
		layer   string
		compact bool
	)

	return &cli.Command{
		Name:  "dump",
		Usage: "Print a container, or the records of one type, as JSON",
		Flags: []cli.Flag{
			inFlag(&inPath),
			typeFlag(&typ, false),
			layerFlag(&layer),
			&cli.BoolFlag{Name: "compact", Usage: "print JSON on one line", Destination: &compact},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			c, err := dzx.Open(inPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: open %s: %v", inPath, err), 1)
			}
			l, err := parseLayerFlag(layer)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			var v any = c
			switch {
			case typ != "" && l != nil:
				v = nonNil(c.RecordsByTypeAndLayer(dzx.Type(typ), *l))
			case typ != "":
				v = nonNil(c.RecordsByType(dzx.Type(typ)))
			case l != nil:
				return cli.Exit("error: --layer requires --type", 1)
			}
			return writeJSON(cmd, v, compact)
		},
	}
}

func nonNil(rs []dzx.Record) []dzx.Record {
	if rs == nil {
		return []dzx.Record{}
	}
	return rs
}

func writeJSON(cmd *cli.Command, v any, compact bool) error {
	var (
		data []byte
		err  error
	)
	if compact {
		data, err = json.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout(cmd), string(data))
	return err
}
