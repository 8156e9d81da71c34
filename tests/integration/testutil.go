// Package integration runs the haras binary end to end against isolated
// config and data directories.
package integration

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mesh-intelligence/haras/pkg/types"
)

var (
	// harasBin is the path to the built haras binary.
	harasBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// SetHarasBin sets the path to the haras binary (called from TestMain).
func SetHarasBin(path string) {
	harasBin = path
}

// SetBuildErr sets the build error (called from TestMain).
func SetBuildErr(err error) {
	buildErr = err
}

// TestEnv is an isolated installation with its own config and data directory.
type TestEnv struct {
	t         *testing.T
	TempDir   string
	Config    string
	DataDir   string
	ExportDir string
	Env       []string
}

// NewTestEnv writes a config.yaml for backend and returns the environment.
func NewTestEnv(t *testing.T, backend string) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build haras: %v", buildErr)
	}
	if harasBin == "" {
		t.Fatal("haras binary not built (harasBin is empty)")
	}

	tempDir := t.TempDir()
	env := &TestEnv{
		t:         t,
		TempDir:   tempDir,
		Config:    filepath.Join(tempDir, "config"),
		DataDir:   filepath.Join(tempDir, "data"),
		ExportDir: filepath.Join(tempDir, "backups"),
	}

	if err := os.MkdirAll(env.Config, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	configContent := "backend: " + backend + "\n" +
		"data_dir: " + env.DataDir + "\n" +
		"export:\n  target: fs\n  dir: " + env.ExportDir + "\n"
	if err := os.WriteFile(filepath.Join(env.Config, "config.yaml"), []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return env
}

// CmdResult holds the result of a haras command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunHaras executes the haras CLI with the given arguments. The data
// directory comes from config.yaml.
func (e *TestEnv) RunHaras(args ...string) CmdResult {
	e.t.Helper()
	return e.RunHarasStdin("", args...)
}

// RunHarasStdin is RunHaras with stdin fed from input.
func (e *TestEnv) RunHarasStdin(input string, args ...string) CmdResult {
	e.t.Helper()

	allArgs := append([]string{"--config-dir", e.Config}, args...)
	cmd := exec.Command(harasBin, allArgs...)
	cmd.Env = append(os.Environ(), e.Env...)
	cmd.Stdin = strings.NewReader(input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run haras: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRunHaras executes the haras CLI and fails the test if it returns non-zero.
func (e *TestEnv) MustRunHaras(args ...string) CmdResult {
	e.t.Helper()
	result := e.RunHaras(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("haras %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// AddHorse registers a horse and returns it as stored.
func (e *TestEnv) AddHorse(args ...string) types.Horse {
	e.t.Helper()
	result := e.MustRunHaras(append([]string{"--json", "add"}, args...)...)
	return ParseJSON[types.Horse](e.t, result.Stdout)
}

// ListHorses returns the collection sorted by name.
func (e *TestEnv) ListHorses() []types.Horse {
	e.t.Helper()
	result := e.MustRunHaras("--json", "list")
	return ParseJSON[[]types.Horse](e.t, result.Stdout)
}

// ParseJSON parses JSON output into the target type.
func ParseJSON[T any](t *testing.T, jsonStr string) T {
	t.Helper()
	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", jsonStr, err)
	}
	return result
}

// ReadJSONLFile reads a JSONL file (one JSON object per line) and returns a slice.
func ReadJSONLFile[T any](t *testing.T, path string) []T {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open JSONL file %s: %v", path, err)
	}
	defer f.Close()

	var results []T
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var record T
		if err := json.Unmarshal(line, &record); err != nil {
			t.Fatalf("failed to parse JSONL line in %s: %v", path, err)
		}
		results = append(results, record)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("failed to scan JSONL file %s: %v", path, err)
	}
	return results
}
