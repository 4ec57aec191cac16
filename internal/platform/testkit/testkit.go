// Package testkit holds helpers shared by the package tests
package testkit

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"zhkh/internal/platform/store/lite"
)

var seamMu sync.Mutex

// Swap replaces a package-level seam for the duration of the test
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	orig := *target
	*target = replacement
	t.Cleanup(func() { *target = orig })
}

// Serial holds a global lock until the test ends, for tests that share seams
func Serial(t *testing.T) {
	t.Helper()
	seamMu.Lock()
	t.Cleanup(seamMu.Unlock)
}

// Lite opens a private in-memory sqlite database closed with the test
func Lite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := lite.Open(context.Background(), lite.Config{Path: lite.Memory})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// MustPanic fails unless fn panics
func MustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic, got none")
		}
	}()
	fn()
}

// MustNotPanic fails if fn panics
func MustNotPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	fn()
}

// MustContain fails unless haystack contains needle; long output lands in a temp file
func MustContain(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		return
	}
	if len(haystack) < 512 {
		t.Fatalf("expected %q in %q", needle, haystack)
	}
	out := filepath.Join(t.TempDir(), "output.txt")
	_ = os.WriteFile(out, []byte(haystack), 0o600)
	t.Fatalf("expected output to contain %q, full output in %s", needle, out)
}
