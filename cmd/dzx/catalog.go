package main

import (
	"context"
	"fmt"
	"runtime"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/dzx/internal/catalog"
	"github.com/samcharles93/dzx/internal/logger"
	"github.com/samcharles93/dzx/internal/metrics"
	"github.com/samcharles93/dzx/pkg/dzx"
)

func openCatalog(ctx context.Context, flag string) (*catalog.Catalog, error) {
	path, err := catalogPath(flag)
	if err != nil {
		return nil, err
	}
	return catalog.Open(ctx, path, catalog.Options{
		Logger:  logger.FromContext(ctx),
		Metrics: metrics.New(),
	})
}

func indexCmd() *cli.Command {
	var (
		dbPath  string
		workers int
	)

	return &cli.Command{
		Name:      "index",
		Usage:     "Index containers into the catalog",
		ArgsUsage: "PATH...",
		Flags: []cli.Flag{
			catalogFlag(&dbPath),
			&cli.IntFlag{
				Name:        "workers",
				Aliases:     []string{"j"},
				Usage:       "files indexed in parallel (default: config or NumCPU)",
				Destination: &workers,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				return cli.Exit("error: at least one path is required", 1)
			}
			if !cmd.IsSet("workers") {
				workers = cfg.Workers(runtime.NumCPU())
			}

			cat, err := openCatalog(ctx, dbPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: open catalog: %v", err), 1)
			}
			defer func() { _ = cat.Close() }()

			res, err := cat.Scan(ctx, paths, workers)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: scan: %v", err), 1)
			}
			_, _ = fmt.Fprintf(stdout(cmd), "indexed %d, skipped %d, failed %d\n", res.Indexed, res.Skipped, res.Failed)
			return nil
		},
	}
}

func findCmd() *cli.Command {
	var (
		dbPath string
		typ    string
		name   string
		layer  string
		limit  int
		asJSON bool
	)

	return &cli.Command{
		Name:  "find",
		Usage: "Search the catalog for records",
		Flags: []cli.Flag{
			catalogFlag(&dbPath),
			typeFlag(&typ, false),
			&cli.StringFlag{
				Name:        "name",
				Aliases:     []string{"n"},
				Usage:       "record name, glob patterns allowed (e.g. 'Salv*')",
				Destination: &name,
			},
			layerFlag(&layer),
			&cli.IntFlag{Name: "limit", Usage: "maximum rows (0 = no limit)", Destination: &limit},
			&cli.BoolFlag{Name: "json", Usage: "print JSON", Destination: &asJSON},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			l, err := parseLayerFlag(layer)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			cat, err := openCatalog(ctx, dbPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: open catalog: %v", err), 1)
			}
			defer func() { _ = cat.Close() }()

			entries, err := cat.Find(ctx, catalog.Query{Type: dzx.Type(typ), Name: name, Layer: l, Limit: limit})
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: find: %v", err), 1)
			}
			if asJSON {
				if entries == nil {
					entries = []catalog.Entry{}
				}
				return writeJSON(cmd, entries, false)
			}

			tw := tabwriter.NewWriter(stdout(cmd), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "PATH\tCHUNK\tTYPE\tLAYER\tIDX\tNAME\tPARAMS")
			for _, e := range entries {
				params := "-"
				if e.Params != nil {
					params = fmt.Sprintf("%#08x", *e.Params)
				}
				_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%d\t%s\t%s\n", e.Path, e.Chunk, e.Type, e.Layer, e.Index, e.Name, params)
			}
			return tw.Flush()
		},
	}
}
