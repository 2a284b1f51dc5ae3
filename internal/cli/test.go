package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/condition/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // scenario filter (glob pattern)
	Golden string // golden directory
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run scenario suites against golden snapshots",
		Long: `Run every scenario in a directory.

Each scenario builds its specification, checks the expected WHERE
clause, arguments, selected rows or error, and compares its snapshot
with the golden file named after the scenario. Without a golden file
only the expectations are checked.

Golden files live in ../golden relative to the scenarios directory
unless --golden is given.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  condition test ./testdata/scenarios
  condition test ./testdata/scenarios --filter "*between*"
  condition test ./testdata/scenarios --update
  condition test ./testdata/scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")
	cmd.Flags().StringVar(&opts.Golden, "golden", "", "golden directory (default <scenarios-dir>/../golden)")

	return cmd
}

func runTests(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	info, err := os.Stat(scenariosDir)
	if err != nil || !info.IsDir() {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosDir))
	}
	goldenDir := opts.Golden
	if goldenDir == "" {
		goldenDir = filepath.Join(scenariosDir, "..", "golden")
	}

	scenarioFiles, err := findScenarioFiles(scenariosDir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	w := cmd.OutOrStdout()
	if len(scenarioFiles) == 0 {
		if opts.Format == "json" {
			return outputTestJSON(out, TestResult{Scenarios: []ScenarioResult{}})
		}
		fmt.Fprintln(w, "No scenarios found.")
		return nil
	}

	r := &scenarioRunner{
		opts:      opts,
		harness:   harness.New(harness.WithLogger(out.Logger())),
		goldenDir: goldenDir,
		w:         w,
	}
	if opts.Format == "json" {
		r.w = io.Discard
	}

	result := TestResult{
		Scenarios: make([]ScenarioResult, 0, len(scenarioFiles)),
		Total:     len(scenarioFiles),
	}
	for _, scenarioFile := range scenarioFiles {
		scenResult := r.run(cmd.Context(), scenarioFile)
		result.Scenarios = append(result.Scenarios, scenResult)

		if scenResult.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if opts.Format == "json" {
		return outputTestJSON(out, result)
	}
	return outputTestText(w, result)
}

// findScenarioFiles finds all YAML scenario files in a directory.
func findScenarioFiles(dir string, filter string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

// scenarioRunner executes scenarios and reports progress lines.
type scenarioRunner struct {
	opts      *TestOptions
	harness   *harness.Harness
	goldenDir string
	w         io.Writer
}

func (r *scenarioRunner) fail(name string, errs ...string) ScenarioResult {
	fmt.Fprintf(r.w, "✗ %s\n", name)
	for _, e := range errs {
		fmt.Fprintf(r.w, "  %s\n", e)
	}
	return ScenarioResult{Name: name, Pass: false, Errors: errs}
}

func (r *scenarioRunner) pass(name, note string) ScenarioResult {
	fmt.Fprintf(r.w, "✓ %s%s\n", name, note)
	return ScenarioResult{Name: name, Pass: true}
}

// run executes a single scenario and returns the result.
func (r *scenarioRunner) run(ctx context.Context, scenarioFile string) ScenarioResult {
	scenario, err := harness.LoadScenario(scenarioFile)
	if err != nil {
		return r.fail(filepath.Base(scenarioFile), fmt.Sprintf("failed to load scenario: %v", err))
	}

	result, err := r.harness.Run(ctx, scenario)
	if err != nil {
		return r.fail(scenario.Name, fmt.Sprintf("execution failed: %v", err))
	}

	snapshot := harness.Snapshot{ScenarioName: scenario.Name, Result: result}
	data, err := snapshot.Marshal()
	if err != nil {
		return r.fail(scenario.Name, fmt.Sprintf("failed to marshal snapshot: %v", err))
	}
	goldenPath := filepath.Join(r.goldenDir, scenario.Name+".golden")

	if r.opts.Update {
		if err := writeGoldenFile(goldenPath, data); err != nil {
			return r.fail(scenario.Name, fmt.Sprintf("failed to update golden file: %v", err))
		}
		if !result.Pass {
			return r.fail(scenario.Name, result.Errors...)
		}
		return r.pass(scenario.Name, " (golden updated)")
	}

	golden, err := os.ReadFile(goldenPath)
	switch {
	case os.IsNotExist(err):
		// No golden file: expectations only
	case err != nil:
		return r.fail(scenario.Name, fmt.Sprintf("failed to read golden file: %v", err))
	case !bytes.Equal(golden, data):
		return r.fail(scenario.Name, "snapshot does not match golden file (run with --update to regenerate)")
	}

	if !result.Pass {
		return r.fail(scenario.Name, result.Errors...)
	}
	return r.pass(scenario.Name, "")
}

// writeGoldenFile writes a snapshot, creating the golden directory.
func writeGoldenFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// outputTestJSON outputs the test result as JSON.
func outputTestJSON(out *OutputFormatter, result TestResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if result.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_TEST_FAILED",
			Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
		}
	}

	if err := out.encode(response); err != nil {
		return err
	}
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}

// outputTestText outputs the test summary as text.
func outputTestText(w io.Writer, result TestResult) error {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}

	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}
