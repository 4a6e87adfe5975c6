// Package main runs the interactive add harness.
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/zeebo/clingy"

	configpkg "github.com/minhyannv/addharness/pkg/config"
	loggerpkg "github.com/minhyannv/addharness/pkg/logger"
)

// main is the program entry point.
func main() {
	if !run(&cmdRun{defaults: loadDefaults()}, os.Args[1:]) {
		os.Exit(1)
	}
}

// run executes cmd as the root command and reports whether it succeeded.
// Errors are logged to the command's stderr.
func run(cmd *cmdRun, args []string) bool {
	ok, err := clingy.Environment{
		Root: cmd,
		Name: "addharness",
		Args: args,
	}.Run(context.Background(), func(clingy.Commands) {})
	if err != nil {
		loggerpkg.Error(loggerpkg.NewWriterLogger(cmd.errOut()), "addharness failed", map[string]any{
			"error": err.Error(),
		})
	}
	return ok && err == nil
}

// loadDefaults layers .env and ADDHARNESS_* variables over the built-in defaults.
func loadDefaults() configpkg.Config {
	_ = godotenv.Load()
	return configpkg.FromEnv(configpkg.DefaultConfig(), os.Getenv)
}
