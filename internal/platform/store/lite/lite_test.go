package lite

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDSN_Pragmas(t *testing.T) {
	dsn := DSN(Config{Path: "data/c.db", BusyTimeout: 2 * time.Second})
	for _, want := range []string{"file:data/c.db?", "busy_timeout%282000%29", "journal_mode%28WAL%29", "_txlock=immediate"} {
		if !strings.Contains(dsn, want) {
			t.Fatalf("dsn %q missing %q", dsn, want)
		}
	}
	if !strings.Contains(DSN(Config{Path: "x.db"}), "busy_timeout%285000%29") {
		t.Fatal("default busy timeout not applied")
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open(context.Background(), Config{Path: "  "}); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "complaints.db")
	db, err := Open(context.Background(), Config{Path: path})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE t (id INTEGER PRIMARY KEY)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("db file not created: %v", err)
	}

	var mode string
	if err := db.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatalf("pragma: %v", err)
	}
	if !strings.EqualFold(mode, "wal") {
		t.Fatalf("journal_mode = %q", mode)
	}
}

func TestOpen_Memory(t *testing.T) {
	db, err := Open(context.Background(), Config{Path: Memory})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	if s := db.Stats(); s.MaxOpenConnections != 1 {
		t.Fatalf("max open = %d", s.MaxOpenConnections)
	}
}
