package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/dzx/internal/logger"
	"github.com/samcharles93/dzx/pkg/dzx"
)

func appendCmd() *cli.Command {
	var (
		inPath  string
		outPath string
		typ     string
		layer   string
		fields  string
	)

	return &cli.Command{
		Name:  "append",
		Usage: "Append a record to a container and save it",
		Flags: []cli.Flag{
			inFlag(&inPath),
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output path (default: overwrite --in)",
				Destination: &outPath,
			},
			typeFlag(&typ, true),
			layerFlag(&layer),
			&cli.StringFlag{
				Name:        "json",
				Usage:       "record fields as a JSON object, or @file to read them from a file",
				Value:       "{}",
				Destination: &fields,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			body := []byte(fields)
			if name, ok := strings.CutPrefix(fields, "@"); ok {
				data, err := os.ReadFile(name)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				body = data
			}
			l, err := parseLayerFlag(layer)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			target := dzx.NoLayer
			if l != nil {
				target = *l
			}

			scratch, ok := dzx.NewRecord(dzx.Type(typ))
			if !ok {
				return cli.Exit(fmt.Sprintf("error: %v: %s", dzx.ErrUnregisteredType, typ), 1)
			}
			if err := dzx.DecodeRecordJSON(scratch, body); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if err := dzx.Validate(scratch); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			c, err := dzx.Open(inPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: open %s: %v", inPath, err), 1)
			}
			r, err := c.Append(dzx.Type(typ), target)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if err := dzx.DecodeRecordJSON(r, body); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			if outPath == "" {
				outPath = inPath
			}
			if err := c.Save(outPath); err != nil {
				return cli.Exit(fmt.Sprintf("error: save %s: %v", outPath, err), 1)
			}
			log.Info("record appended", "path", outPath, "type", typ, "layer", target, "offset", r.Offset())
			return writeJSON(cmd, r, true)
		},
	}
}
