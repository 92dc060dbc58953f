package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/dzx/internal/logger"
	"github.com/samcharles93/dzx/pkg/dzx"
)

func roundtripCmd() *cli.Command {
	var inPath string

	return &cli.Command{
		Name:  "roundtrip",
		Usage: "Decode and re-encode a container and compare the bytes",
		Flags: []cli.Flag{inFlag(&inPath)},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			orig, err := os.ReadFile(inPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			c, err := dzx.Decode(orig)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: decode %s: %v", inPath, err), 1)
			}
			out, err := c.Encode()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: encode %s: %v", inPath, err), 1)
			}

			switch off, res := compareEncoded(orig, out); res {
			case roundtripDifferent:
				log.Debug("roundtrip mismatch", "path", inPath, "offset", off)
				return cli.Exit(fmt.Sprintf("%s: different (first mismatch at %#x, %d vs %d bytes)",
					inPath, off, len(orig), len(out)), 1)
			case roundtripPadded:
				log.Debug("padding normalised", "path", inPath, "from", len(orig), "to", len(out))
				_, _ = fmt.Fprintf(stdout(cmd), "%s: identical (padded, %d -> %d bytes, %d chunks)\n",
					inPath, len(orig), len(out), len(c.Chunks()))
			default:
				_, _ = fmt.Fprintf(stdout(cmd), "%s: identical (%d bytes, %d chunks)\n", inPath, len(out), len(c.Chunks()))
			}
			return nil
		},
	}
}

type roundtripResult int

const (
	roundtripIdentical roundtripResult = iota
	// roundtripPadded means the bytes agree up to the shorter length and the
	// rest of the longer one is all padding.
	roundtripPadded
	roundtripDifferent
)

// compareEncoded compares a file with its re-encoding. Encode pads to a
// multiple of dzx.Alignment with dzx.PadByte, so a tail of padding on either
// side is normalisation rather than a difference.
func compareEncoded(orig, out []byte) (int, roundtripResult) {
	off, same := firstDiff(orig, out)
	if same {
		return 0, roundtripIdentical
	}
	n := min(len(orig), len(out))
	if off < n || len(out)%dzx.Alignment != 0 {
		return off, roundtripDifferent
	}
	tail := out[n:]
	if len(orig) > len(out) {
		tail = orig[n:]
	}
	for i, b := range tail {
		if b != dzx.PadByte {
			return n + i, roundtripDifferent
		}
	}
	return 0, roundtripPadded
}

// firstDiff returns the first offset where a and b differ.
func firstDiff(a, b []byte) (int, bool) {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i, false
		}
	}
	if len(a) != len(b) {
		return n, false
	}
	return 0, true
}
