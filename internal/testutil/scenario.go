// Package testutil provides shared helpers for golox tests.
package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ScenariosDir is the relative path from the module root to the conformance
// scenario manifests.
const ScenariosDir = "testdata/scenarios"

// Scenario is one end-to-end conformance case loaded from a YAML manifest:
// a Lox source text plus the expected observable outcome.
type Scenario struct {
	Name   string   `yaml:"name"`
	Source string   `yaml:"source"`
	Expect Expected `yaml:"expect"`
}

// Expected describes the observable outcome of running a scenario. Stdout is
// compared exactly (including output produced before a runtime error halts
// the program). StaticError and RuntimeError are substring matches against
// the reported error; at most one of them should be set.
type Expected struct {
	Stdout       string `yaml:"stdout,omitempty"`
	StaticError  string `yaml:"staticError,omitempty"`
	RuntimeError string `yaml:"runtimeError,omitempty"`
}

// LoadScenario loads a single scenario manifest.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &s, nil
}

// ListScenarios returns the manifest paths under root, sorted by name.
func ListScenarios(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		paths = append(paths, filepath.Join(root, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
