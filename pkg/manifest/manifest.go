// Package manifest describes the callable entry points a running harness
// exposes, so an external caller can locate the process and the function
// address without scraping stdout.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Function is one callable entry point.
type Function struct {
	Name       string   `yaml:"name"`
	Symbol     string   `yaml:"symbol"`
	Address    string   `yaml:"address"`
	Convention string   `yaml:"convention"`
	Params     []string `yaml:"params"`
	Result     string   `yaml:"result"`
}

// Manifest is the document written at startup.
type Manifest struct {
	PID       int        `yaml:"pid"`
	OS        string     `yaml:"os"`
	Arch      string     `yaml:"arch"`
	Functions []Function `yaml:"functions"`
}

// Lookup returns the function with the given name.
func (m Manifest) Lookup(name string) (Function, bool) {
	for _, fn := range m.Functions {
		if fn.Name == name {
			return fn, true
		}
	}
	return Function{}, false
}

// ParseAddress decodes the hex address of fn.
func (fn Function) ParseAddress() (uintptr, error) {
	s := strings.TrimPrefix(strings.TrimSpace(fn.Address), "0x")
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("parse address %q: %w", fn.Address, err)
	}
	return uintptr(v), nil
}

// Write marshals m to path, replacing any existing file.
func Write(path string, m Manifest) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("manifest path is required")
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	// rename so a polling reader never sees a partial document
	tmp, err := os.CreateTemp(filepath.Dir(path), ".manifest-*.yaml")
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close manifest: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rename manifest: %w", err)
	}
	return nil
}

// Load reads a manifest written by Write.
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return m, nil
}
