package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/zeebo/clingy"

	configpkg "github.com/minhyannv/addharness/pkg/config"
	"github.com/minhyannv/addharness/pkg/harness"
	loggerpkg "github.com/minhyannv/addharness/pkg/logger"
	"github.com/minhyannv/addharness/pkg/manifest"
)

type cmdRun struct {
	defaults configpkg.Config

	// nil means the process streams
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	verbose      bool
	manifestPath string
	bufferSize   int
}

func (c *cmdRun) Setup(params clingy.Parameters) {
	c.verbose = params.Flag("verbose", "log loop activity to stderr", c.defaults.Verbose,
		clingy.Boolean,
		clingy.Short('v'),
		clingy.Transform(strconv.ParseBool),
	).(bool)

	c.manifestPath = params.Flag("manifest", "write a YAML symbol manifest to this path", c.defaults.ManifestPath).(string)

	c.bufferSize = params.Flag("buffer-size", "input line buffer capacity in bytes", c.defaults.BufferSize,
		clingy.Transform(strconv.Atoi),
	).(int)
}

func (c *cmdRun) Execute(ctx context.Context) error {
	cfg := c.config()
	appLogger := loggerpkg.NewWriterLogger(c.errOut())
	h := harness.New(cfg,
		harness.WithLogger(appLogger),
		harness.WithOutput(c.out()),
	)

	if cfg.ManifestPath != "" {
		if err := manifest.Write(cfg.ManifestPath, h.Manifest()); err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}
		loggerpkg.Info(appLogger, "manifest written", map[string]any{
			"path": cfg.ManifestPath,
		})
	}

	return h.Run(c.in())
}

// config merges parsed flags over the defaults.
func (c *cmdRun) config() configpkg.Config {
	cfg := c.defaults
	cfg.Verbose = c.verbose
	cfg.ManifestPath = c.manifestPath
	cfg.BufferSize = c.bufferSize
	return configpkg.Normalize(cfg)
}

func (c *cmdRun) in() io.Reader {
	if c.stdin == nil {
		return os.Stdin
	}
	return c.stdin
}

func (c *cmdRun) out() io.Writer {
	if c.stdout == nil {
		return os.Stdout
	}
	return c.stdout
}

func (c *cmdRun) errOut() io.Writer {
	if c.stderr == nil {
		return os.Stderr
	}
	return c.stderr
}
