package config_test

import (
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/foodgram-app/foodgram/internal/platform/config"
)

// Exitf terminates the process, so the assertion runs against a child test
// process re-invoked with FOODGRAM_EXITF_CHILD set.
func TestExitfWritesStderrAndExits(t *testing.T) {
	if os.Getenv("FOODGRAM_EXITF_CHILD") == "1" {
		config.Exitf("parse config: %s", "missing secret")
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestExitfWritesStderrAndExits$")
	cmd.Env = append(os.Environ(), "FOODGRAM_EXITF_CHILD=1")

	out, err := cmd.CombinedOutput()

	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected *exec.ExitError, got %T: %v", err, err)
	}
	if exitErr.ExitCode() != 1 {
		t.Fatalf("exit code = %d, want 1", exitErr.ExitCode())
	}
	if !strings.Contains(string(out), "parse config: missing secret") {
		t.Fatalf("stderr = %q, want the formatted message", string(out))
	}
}
