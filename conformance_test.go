package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/loxkit/golox/internal/testutil"
	"github.com/loxkit/golox/pkg/evaluator"
	"github.com/loxkit/golox/pkg/runtime"
)

// TestConformance runs every scenario manifest under testdata/scenarios
// through the full pipeline and checks stdout and error expectations.
func TestConformance(t *testing.T) {
	paths, err := testutil.ListScenarios(testutil.ScenariosDir)
	if err != nil {
		t.Fatalf("failed to list scenarios: %v", err)
	}
	if len(paths) == 0 {
		t.Fatalf("no scenarios found under %s", testutil.ScenariosDir)
	}

	for _, path := range paths {
		scenario, err := testutil.LoadScenario(path)
		if err != nil {
			t.Fatalf("failed to load scenario %s: %v", path, err)
		}

		t.Run(scenario.Name, func(t *testing.T) {
			var stdout bytes.Buffer
			rt := runtime.New(runtime.WithStdout(&stdout))
			runErr := rt.Run(scenario.Source)

			switch {
			case scenario.Expect.StaticError != "":
				var diagErr *runtime.DiagnosticError
				if !errors.As(runErr, &diagErr) {
					t.Fatalf("expected static error containing %q, got %v", scenario.Expect.StaticError, runErr)
				}
				if !strings.Contains(runErr.Error(), scenario.Expect.StaticError) {
					t.Errorf("static error should contain %q, got: %s", scenario.Expect.StaticError, runErr.Error())
				}
				// Static errors suppress execution entirely.
				if stdout.Len() != 0 {
					t.Errorf("no output expected before execution, got: %s", stdout.String())
				}
				return

			case scenario.Expect.RuntimeError != "":
				var rtErr *evaluator.RuntimeError
				if !errors.As(runErr, &rtErr) {
					t.Fatalf("expected runtime error containing %q, got %v", scenario.Expect.RuntimeError, runErr)
				}
				if !strings.Contains(runErr.Error(), scenario.Expect.RuntimeError) {
					t.Errorf("runtime error should contain %q, got: %s", scenario.Expect.RuntimeError, runErr.Error())
				}

			default:
				if runErr != nil {
					t.Fatalf("unexpected error: %v", runErr)
				}
			}

			if got := stdout.String(); got != scenario.Expect.Stdout {
				t.Errorf("stdout mismatch:\n  got:  %q\n  want: %q", got, scenario.Expect.Stdout)
			}
		})
	}
}
