package main

import (
	"os"
	"path/filepath"
	"testing"
)

// getBinaryPath returns the path to the sitevision binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "sitevision"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", binaryName)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'make build'", binaryPath)
	}

	return binaryPath
}

// envWithoutKeys returns the current environment with the named
// variables forced empty, so tests do not pick up real credentials
// from the developer's .env.
func envWithoutKeys(keys ...string) []string {
	env := os.Environ()
	for _, key := range keys {
		env = append(env, key+"=")
	}
	return env
}
