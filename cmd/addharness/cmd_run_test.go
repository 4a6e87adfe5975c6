package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	configpkg "github.com/minhyannv/addharness/pkg/config"
	"github.com/minhyannv/addharness/pkg/manifest"
)

type cliResult struct {
	ok     bool
	stdout string
	stderr string
}

func runCLI(t *testing.T, input string, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := &cmdRun{
		defaults: configpkg.DefaultConfig(),
		stdin:    strings.NewReader(input),
		stdout:   &stdout,
		stderr:   &stderr,
	}
	ok := run(cmd, args)
	return cliResult{ok: ok, stdout: stdout.String(), stderr: stderr.String()}
}

func TestCmdRunConfigNormalizes(t *testing.T) {
	c := &cmdRun{
		defaults:     configpkg.DefaultConfig(),
		verbose:      true,
		manifestPath: "  out.yaml ",
		bufferSize:   0,
	}
	cfg := c.config()
	if !cfg.Verbose {
		t.Fatal("expected verbose flag to apply")
	}
	if cfg.ManifestPath != "out.yaml" {
		t.Fatalf("unexpected manifest path %q", cfg.ManifestPath)
	}
	if cfg.BufferSize != configpkg.DefaultBufferSize {
		t.Fatalf("expected default buffer size, got %d", cfg.BufferSize)
	}
}

func TestLoadDefaultsReadsEnv(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("ADDHARNESS_BUFFER_SIZE", "32")
	cfg := loadDefaults()
	if cfg.BufferSize != 32 {
		t.Fatalf("expected buffer size from env, got %d", cfg.BufferSize)
	}
}

func TestRunWithoutFlags(t *testing.T) {
	res := runCLI(t, "1,2\nexit\n")
	if !res.ok {
		t.Fatalf("expected success, stderr:\n%s", res.stderr)
	}
	if !strings.HasPrefix(res.stdout, "add_addr = 0x") || !strings.Contains(res.stdout, " result = 3\n") {
		t.Fatalf("unexpected stdout:\n%q", res.stdout)
	}
	if res.stderr != "" {
		t.Fatalf("expected quiet stderr, got:\n%s", res.stderr)
	}
}

func TestRunVerboseFlag(t *testing.T) {
	for _, args := range [][]string{{"-v"}, {"--verbose"}, {"--verbose=true"}} {
		res := runCLI(t, "1,2\n", args...)
		if !res.ok {
			t.Fatalf("%v: expected success, stderr:\n%s", args, res.stderr)
		}
		if !strings.Contains(res.stdout, " result = 3\n") {
			t.Fatalf("%v: unexpected stdout:\n%q", args, res.stdout)
		}
		if !strings.Contains(res.stderr, "DEBUG") {
			t.Fatalf("%v: expected debug logs, got:\n%s", args, res.stderr)
		}
	}
}

func TestRunVerboseFalse(t *testing.T) {
	res := runCLI(t, "1,2\n", "--verbose=false")
	if !res.ok {
		t.Fatalf("expected success, stderr:\n%s", res.stderr)
	}
	if strings.Contains(res.stderr, "DEBUG") {
		t.Fatalf("expected no debug logs, got:\n%s", res.stderr)
	}
}

func TestRunBufferSizeFlag(t *testing.T) {
	// capacity 4 holds three bytes of content
	res := runCLI(t, "12345,1\n1,2\n", "--buffer-size", "4")
	if !res.ok {
		t.Fatalf("expected success, stderr:\n%s", res.stderr)
	}
	if strings.Contains(res.stdout, " result = 12346\n") {
		t.Fatalf("overlong line should be rejected:\n%q", res.stdout)
	}
	if !strings.Contains(res.stdout, " result = 3\n") {
		t.Fatalf("expected short line to be processed:\n%q", res.stdout)
	}
}

func TestRunBufferSizeRejectsGarbage(t *testing.T) {
	res := runCLI(t, "1,2\n", "--buffer-size", "abc")
	if res.ok {
		t.Fatal("expected failure for non-numeric buffer size")
	}
	if strings.Contains(res.stdout, " result = ") {
		t.Fatalf("harness should not run:\n%q", res.stdout)
	}
}

func TestRunWritesManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "harness.yaml")
	res := runCLI(t, "exit\n", "--manifest", path)
	if !res.ok {
		t.Fatalf("expected success, stderr:\n%s", res.stderr)
	}

	m, err := manifest.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	fn, ok := m.Lookup("add")
	if !ok {
		t.Fatal("expected add in manifest")
	}
	if !strings.Contains(res.stdout, "add_addr = "+fn.Address+"\n") {
		t.Fatalf("manifest address %s not printed:\n%q", fn.Address, res.stdout)
	}
	if !strings.Contains(res.stderr, "manifest written") {
		t.Fatalf("expected manifest log, got:\n%s", res.stderr)
	}
}

func TestRunManifestWriteFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "harness.yaml")
	res := runCLI(t, "1,2\n", "--manifest", path)
	if res.ok {
		t.Fatal("expected failure for unwritable manifest")
	}
	if !strings.Contains(res.stderr, "ERROR") || !strings.Contains(res.stderr, "write manifest") {
		t.Fatalf("expected logged error, got:\n%s", res.stderr)
	}
	if strings.Contains(res.stdout, "add_addr") {
		t.Fatalf("harness should not start:\n%q", res.stdout)
	}
}
