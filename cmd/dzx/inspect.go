package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/dzx/internal/catalog"
	"github.com/samcharles93/dzx/internal/logger"
	"github.com/samcharles93/dzx/pkg/dzx"
)

func inspectCmd() *cli.Command {
	var inPath string

	return &cli.Command{
		Name:  "inspect",
		Usage: "Print the chunk directory of a container",
		Flags: []cli.Flag{inFlag(&inPath)},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			digest, size, err := catalog.HashFile(inPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			c, err := dzx.Open(inPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: open %s: %v", inPath, err), 1)
			}

			w := stdout(cmd)
			_, _ = fmt.Fprintf(w, "file:    %s\n", inPath)
			_, _ = fmt.Fprintf(w, "size:    %d bytes\n", size)
			_, _ = fmt.Fprintf(w, "blake3:  %s\n", digest)
			_, _ = fmt.Fprintf(w, "chunks:  %d\n\n", len(c.Chunks()))

			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "#\tCODE\tTYPE\tLAYER\tCOUNT\tOFFSET\tSIZE")
			for _, ch := range c.Summary() {
				recSize := "?"
				if ch.Known {
					recSize = fmt.Sprintf("%#x", ch.RecordSize)
				}
				_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%#x\t%s\n",
					ch.Index, ch.Code, ch.Type, ch.Layer, ch.Count, ch.FirstOffset, recSize)
				if !ch.Known {
					log.Warn("chunk has no registered schema; file cannot be re-encoded",
						"code", ch.Code, "count", ch.Count)
				}
			}
			return tw.Flush()
		},
	}
}
