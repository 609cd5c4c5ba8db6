package cmd

import (
	"bytes"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/lockfiles/internal/configs"
	"github.com/fatih/color"
)

// testPassword is the password used by CLI tests that pass -P.
const testPassword = "correct horse"

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	outputChan := make(chan string)
	errorChan := make(chan string)

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stdoutReader); err != nil {
			log.Fatalf("Failed to copy stdout: %s", err)
		}
		outputChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stderrReader); err != nil {
			log.Fatalf("Failed to copy stderr: %s", err)
		}
		errorChan <- buf.String()
	}()

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	stdout := <-outputChan
	stderr := <-errorChan

	return stdout + stderr, err
}

// noPrompt fails every password prompt so a test never blocks on a terminal.
func noPrompt(string) ([]byte, error) {
	return nil, errors.New("no terminal in tests")
}

// executeCLI runs the root command with args from a clean flag state and
// returns everything it printed. The config file location points into an
// empty temp directory unless args carry --config.
func executeCLI(t *testing.T, prompt func(string) ([]byte, error), args ...string) (string, error) {
	t.Helper()

	ResetGlobalState()
	if prompt == nil {
		prompt = noPrompt
	}
	promptFunc = prompt
	color.NoColor = true
	t.Setenv(configs.ConfigEnvVar, filepath.Join(t.TempDir(), "config.toml"))

	RootCmd.SetArgs(args)
	t.Cleanup(func() { RootCmd.SetArgs(nil) })

	return captureOutput(RootCmd.Execute)
}

// runCLI is executeCLI without a password prompt.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeCLI(t, nil, args...)
}

// writeFiles creates each name under dir with its contents, making parent
// directories as needed.
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
}

// readFile returns the contents of dir/name, failing the test if it cannot.
func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
	if err != nil {
		t.Fatalf("Failed to read %s: %v", name, err)
	}
	return string(data)
}

// exists reports whether dir/name exists.
func exists(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name)))
	return err == nil
}
