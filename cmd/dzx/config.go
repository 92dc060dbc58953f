package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/dzx/internal/config"
	"github.com/samcharles93/dzx/internal/logger"
)

// cfg is the loaded config file. Flags explicitly set on the command line
// take precedence over it.
var cfg config.Config

func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := configFile
	if path == "" {
		path = config.Path()
	}
	loaded, err := config.Load(path)
	if err != nil {
		return ctx, cli.Exit(fmt.Sprintf("error: load config: %v", err), 1)
	}
	cfg = loaded

	if cfg.LogLevel != "" && !cmd.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !cmd.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
	if debug {
		logLevel = "debug"
	}

	log, err := logger.Setup(logFormat, logLevel, stderr(cmd))
	if err != nil {
		return ctx, cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	return logger.WithContext(ctx, log), nil
}

// catalogPath resolves the catalog location from the flag, the config file
// or the default, and makes sure its directory exists.
func catalogPath(flag string) (string, error) {
	path := flag
	switch {
	case path != "":
	case cfg.CatalogPath != "":
		path = cfg.CatalogPath
	default:
		path = config.DefaultCatalogPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	return path, nil
}
