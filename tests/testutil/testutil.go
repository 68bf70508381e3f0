package testutil

import (
	"os"
	"testing"
)

// RequireTestEnvironment fails the test unless GO_ENV is "test". It guards
// suites that touch the shared config singletons against running with a
// development or production environment loaded.
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	if env := os.Getenv("GO_ENV"); env != "test" {
		t.Fatalf("Tests must run with GO_ENV=test, got %q. Run: GO_ENV=test go test ./...", env)
	}
}

// RequireTestEnvironmentOrSkip skips the test instead of failing when GO_ENV
// is not "test". Use it for optional tests that depend on test-only setup.
func RequireTestEnvironmentOrSkip(t *testing.T) {
	t.Helper()

	if env := os.Getenv("GO_ENV"); env != "test" {
		t.Skipf("Skipping: GO_ENV must be 'test', got %q", env)
	}
}

// MustSetTestEnvironment forces GO_ENV to "test" for the current process.
// Use it in TestMain or suite setup so config.Load picks .env.test and the
// safety guards elsewhere in the tree pass.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	if err := os.Setenv("GO_ENV", "test"); err != nil {
		t.Fatalf("Failed to set GO_ENV=test: %v", err)
	}
}
