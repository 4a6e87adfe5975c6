package harness

import (
	"io"

	loggerpkg "github.com/minhyannv/addharness/pkg/logger"
)

// Option configures optional runtime dependencies for Harness.
type Option func(*harnessDeps)

type harnessDeps struct {
	logger loggerpkg.Logger
	out    io.Writer
}

// WithLogger injects a logger dependency.
func WithLogger(l loggerpkg.Logger) Option {
	return func(d *harnessDeps) {
		d.logger = l
	}
}

// WithOutput redirects the prompt and result lines. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(d *harnessDeps) {
		d.out = w
	}
}
