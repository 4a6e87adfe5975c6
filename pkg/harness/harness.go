// Package harness implements the interactive add harness: it reports the
// entry address of Add and then calls it with operands read from input
// until told to exit.
package harness

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"runtime"
	"strings"

	configpkg "github.com/minhyannv/addharness/pkg/config"
	"github.com/minhyannv/addharness/pkg/linereader"
	loggerpkg "github.com/minhyannv/addharness/pkg/logger"
	"github.com/minhyannv/addharness/pkg/manifest"
)

const exitCommand = "exit"

// Outcome is what the loop does with one input line.
type Outcome int

const (
	// OutcomeSkip ignores the line and prompts again.
	OutcomeSkip Outcome = iota
	// OutcomeCall calls Add with the parsed operands.
	OutcomeCall
	// OutcomeExit ends the loop.
	OutcomeExit
)

// String returns the lowercase outcome name used in logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeSkip:
		return "skip"
	case OutcomeCall:
		return "call"
	case OutcomeExit:
		return "exit"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Harness holds the command loop state.
type Harness struct {
	config configpkg.Config
	out    io.Writer
	logger loggerpkg.Logger
}

// New builds a Harness from cfg.
func New(cfg configpkg.Config, opts ...Option) *Harness {
	cfg = configpkg.Normalize(cfg)
	deps := harnessDeps{logger: loggerpkg.NopLogger{}, out: os.Stdout}
	for _, opt := range opts {
		if opt != nil {
			opt(&deps)
		}
	}
	if deps.out == nil {
		deps.out = io.Discard
	}
	return &Harness{
		config: cfg,
		out:    deps.out,
		logger: deps.logger,
	}
}

// Add returns a1+a2 with int32 wraparound and prints the result line.
//
//go:noinline
func (h *Harness) Add(a1, a2 int32) int32 {
	res := a1 + a2
	_, _ = fmt.Fprintf(h.out, " result = %d\n", res)
	return res
}

// AddAddr returns the entry address of Add. The receiver is the first
// argument in the Go internal calling convention.
func AddAddr() uintptr {
	return reflect.ValueOf((*Harness).Add).Pointer()
}

// FormatAddr renders an address the way %p does.
func FormatAddr(addr uintptr) string {
	return fmt.Sprintf("0x%x", addr)
}

// Manifest describes this process and its Add entry point.
func (h *Harness) Manifest() manifest.Manifest {
	addr := AddAddr()
	symbol := ""
	if fn := runtime.FuncForPC(addr); fn != nil {
		symbol = fn.Name()
	}
	return manifest.Manifest{
		PID:  os.Getpid(),
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
		Functions: []manifest.Function{{
			Name:       "add",
			Symbol:     symbol,
			Address:    FormatAddr(addr),
			Convention: "go-abi-internal",
			Params:     []string{"receiver", "int32", "int32"},
			Result:     "int32",
		}},
	}
}

// Run prints the Add address and serves lines from in until "exit" or end
// of input, both of which return nil.
func (h *Harness) Run(in io.Reader) error {
	if in == nil {
		return errors.New("input reader is required")
	}

	addr := AddAddr()
	_, _ = fmt.Fprintf(h.out, "add_addr = %s\n", FormatAddr(addr))
	loggerpkg.Debug(h.config.Verbose, h.logger, "harness start", map[string]any{
		"add_addr":    FormatAddr(addr),
		"buffer_size": h.config.BufferSize,
	})

	lines := linereader.New(in, h.config.BufferSize)
	for {
		_, _ = fmt.Fprint(h.out, "> ")
		line, err := lines.ReadLine()
		if errors.Is(err, io.EOF) {
			loggerpkg.Debug(h.config.Verbose, h.logger, "end of input", nil)
			return nil
		}
		if errors.Is(err, linereader.ErrLineTooLong) {
			loggerpkg.Debug(h.config.Verbose, h.logger, "line rejected", map[string]any{
				"reason":   err.Error(),
				"capacity": lines.Cap(),
			})
			continue
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		outcome := h.Dispatch(line)
		loggerpkg.Debug(h.config.Verbose, h.logger, "line dispatched", map[string]any{
			"bytes":   len(line),
			"outcome": outcome.String(),
		})
		if outcome == OutcomeExit {
			return nil
		}
	}
}

// Dispatch handles one line: "exit" ends the loop, two comma separated
// fields call Add, anything else is skipped.
func (h *Harness) Dispatch(line []byte) Outcome {
	text := string(line)
	if text == exitCommand {
		return OutcomeExit
	}
	s1, s2, ok := splitOperands(text)
	if !ok {
		return OutcomeSkip
	}
	h.Add(Atoi(s1), Atoi(s2))
	return OutcomeCall
}

// splitOperands returns the first two comma separated fields. Fields may
// be empty; anything after a second comma is ignored.
func splitOperands(line string) (string, string, bool) {
	fields := strings.SplitN(line, ",", 3)
	if len(fields) < 2 {
		return "", "", false
	}
	return fields[0], fields[1], true
}
