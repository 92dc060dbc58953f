package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/dzx/pkg/dzx"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	app.ExitErrHandler = func(context.Context, *cli.Command, error) {}

	argv := append([]string{
		"dzx",
		"--config", filepath.Join(t.TempDir(), "missing.yaml"),
		"--log-format", "text",
	}, args...)
	err := app.Run(context.Background(), argv)
	return out.String(), err
}

func writeRoom(t *testing.T) string {
	t.Helper()
	c := dzx.New()
	r, err := c.Append(dzx.TypeActor, dzx.NoLayer)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	r.(*dzx.Actor).Name = "item"
	r, err = c.Append(dzx.TypeActor, 3)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	r.(*dzx.Actor).Name = "kamome"
	r, err = c.Append(dzx.TypeExit, dzx.NoLayer)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	r.(*dzx.Exit).DestStageName = "sea"

	path := filepath.Join(t.TempDir(), "Room0.dzr")
	if err := c.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	return path
}

func TestRoundtrip(t *testing.T) {
	path := writeRoom(t)
	out, err := runApp(t, "roundtrip", "--in", path)
	if err != nil {
		t.Fatalf("roundtrip: %v", err)
	}
	if !strings.Contains(out, "identical") {
		t.Fatalf("unexpected output: %q", out)
	}
}

// unpaddedExit is a valid one-exit container with no trailing padding.
func unpaddedExit() []byte {
	b := make([]byte, 28)
	binary.BigEndian.PutUint32(b[0:], 1)
	copy(b[4:8], "SCLS")
	binary.BigEndian.PutUint32(b[8:], 1)
	binary.BigEndian.PutUint32(b[12:], 16)
	copy(b[16:24], "sea")
	b[24] = 2
	return b
}

func TestRoundtripUnpadded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Room1.dzr")
	if err := os.WriteFile(path, unpaddedExit(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := runApp(t, "roundtrip", "--in", path)
	if err != nil {
		t.Fatalf("roundtrip: %v", err)
	}
	if !strings.Contains(out, "identical (padded, 28 -> 32 bytes") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestCompareEncoded(t *testing.T) {
	orig := unpaddedExit()
	padded := append(bytes.Clone(orig), 0xFF, 0xFF, 0xFF, 0xFF)
	overPadded := append(bytes.Clone(padded), bytes.Repeat([]byte{0xFF}, 32)...)
	badTail := append(bytes.Clone(orig), 0xFF, 0x00, 0xFF, 0xFF)
	changed := bytes.Clone(padded)
	changed[17] = 'x'

	tests := []struct {
		name string
		orig []byte
		out  []byte
		want roundtripResult
		off  int
	}{
		{"identical", padded, padded, roundtripIdentical, 0},
		{"padded", orig, padded, roundtripPadded, 0},
		{"over-padded input", overPadded, padded, roundtripPadded, 0},
		{"non-pad tail", badTail, padded, roundtripDifferent, 29},
		{"changed byte", changed, padded, roundtripDifferent, 17},
		{"unaligned output", orig[:24], orig, roundtripDifferent, 24},
	}
	for _, tc := range tests {
		off, got := compareEncoded(tc.orig, tc.out)
		if got != tc.want || off != tc.off {
			t.Errorf("%s: got (%d, %d), want (%d, %d)", tc.name, off, got, tc.off, tc.want)
		}
	}
}

func TestRoundtripUnknownChunk(t *testing.T) {
	b := make([]byte, 32)
	binary.BigEndian.PutUint32(b[0:], 1)
	copy(b[4:8], "MULT")
	binary.BigEndian.PutUint32(b[8:], 0)
	binary.BigEndian.PutUint32(b[12:], 16)
	path := filepath.Join(t.TempDir(), "odd.dzr")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	// A zero-count unknown chunk still has no schema to write with.
	if _, err := runApp(t, "roundtrip", "--in", path); err == nil {
		t.Fatal("expected roundtrip to fail for unknown chunk")
	}
}

func TestInspect(t *testing.T) {
	path := writeRoom(t)
	out, err := runApp(t, "inspect", "--in", path)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"blake3:", "chunks:  3", "ACT3", "SCLS"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}
}

func TestAppendAndDump(t *testing.T) {
	path := writeRoom(t)
	outPath := filepath.Join(t.TempDir(), "edited.dzr")

	out, err := runApp(t, "append",
		"--in", path, "--out", outPath,
		"--type", "ACTR", "--layer", "b",
		"--json", `{"name":"Bitem","x":5}`,
	)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if !strings.Contains(out, `"name":"Bitem"`) {
		t.Fatalf("append output: %q", out)
	}

	out, err = runApp(t, "dump", "--in", outPath, "--type", "ACTR", "--layer", "11", "--compact")
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if !strings.Contains(out, `"name":"Bitem"`) || strings.Contains(out, "kamome") {
		t.Fatalf("dump layer 11: %q", out)
	}

	out, err = runApp(t, "dump", "--in", outPath, "--type", "ACTR", "--layer", "none", "--compact")
	if err != nil {
		t.Fatalf("dump layerless: %v", err)
	}
	if !strings.Contains(out, `"name":"item"`) || strings.Contains(out, "Bitem") {
		t.Fatalf("dump layerless: %q", out)
	}

	out, err = runApp(t, "dump", "--in", outPath)
	if err != nil {
		t.Fatalf("dump container: %v", err)
	}
	if !strings.Contains(out, `"ACTb"`) {
		t.Fatalf("container dump missing ACTb chunk:\n%s", out)
	}

	// The source file is untouched when --out is given.
	orig, err := dzx.Open(path)
	if err != nil {
		t.Fatalf("reopen source: %v", err)
	}
	if orig.Chunk(dzx.TypeActor, 11) != nil {
		t.Fatal("append modified the input file")
	}
}

func TestAppendRejects(t *testing.T) {
	path := writeRoom(t)
	cases := [][]string{
		{"append", "--in", path, "--type", "ZZZZ"},
		{"append", "--in", path, "--type", "PLYR", "--layer", "2"},
		{"append", "--in", path, "--type", "ACTR", "--layer", "12"},
		{"append", "--in", path, "--type", "ACTR", "--json", "{"},
		{"append", "--in", path, "--type", "ACTR", "--json", `{"name":"much_too_long_name"}`},
		{"append", "--in", path, "--type", "RPPN", "--json", `{"raw":"AAE="}`},
	}
	for _, args := range cases {
		if _, err := runApp(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
	out, err := runApp(t, "roundtrip", "--in", path)
	if err != nil || !strings.Contains(out, "identical") {
		t.Fatalf("input changed after rejected appends: %q %v", out, err)
	}
}

func TestIndexAndFind(t *testing.T) {
	path := writeRoom(t)
	db := filepath.Join(t.TempDir(), "cat", "catalog.db")

	out, err := runApp(t, "index", "--catalog", db, "--workers", "2", filepath.Dir(path))
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	if !strings.Contains(out, "indexed 1, skipped 0, failed 0") {
		t.Fatalf("index output: %q", out)
	}

	out, err = runApp(t, "find", "--catalog", db, "--name", "kam*")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !strings.Contains(out, "kamome") || strings.Contains(out, "item") {
		t.Fatalf("find output:\n%s", out)
	}

	out, err = runApp(t, "find", "--catalog", db, "--type", "SCLS", "--json")
	if err != nil {
		t.Fatalf("find json: %v", err)
	}
	if !strings.Contains(out, `"sea"`) {
		t.Fatalf("find json output:\n%s", out)
	}

	if _, err := runApp(t, "index", "--catalog", db); err == nil {
		t.Fatal("index without paths should fail")
	}
}

func TestFirstDiff(t *testing.T) {
	if off, same := firstDiff([]byte{1, 2, 3}, []byte{1, 2, 3}); !same || off != 0 {
		t.Fatalf("equal slices: %d %v", off, same)
	}
	if off, same := firstDiff([]byte{1, 2, 3}, []byte{1, 9, 3}); same || off != 1 {
		t.Fatalf("mismatch: %d %v", off, same)
	}
	if off, same := firstDiff([]byte{1, 2}, []byte{1, 2, 3}); same || off != 2 {
		t.Fatalf("length mismatch: %d %v", off, same)
	}
}

func TestVersion(t *testing.T) {
	out, err := runApp(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "version:") {
		t.Fatalf("version output: %q", out)
	}
}

func TestBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("index_workers: [\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	app := newApp()
	app.Writer = &bytes.Buffer{}
	app.ErrWriter = &bytes.Buffer{}
	app.ExitErrHandler = func(context.Context, *cli.Command, error) {}
	if err := app.Run(context.Background(), []string{"dzx", "--config", path, "version"}); err == nil {
		t.Fatal("expected malformed config to fail")
	}
}
