package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestSQLite(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache", "feedcache.db")
	st, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st, path
}

func TestFileStore_WriteReadStat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "alice.json")
	var st FileStore

	before := time.Now().Add(-time.Second)
	if err := st.Write(path, []byte("first")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := st.Write(path, []byte("2nd")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := st.Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "2nd" {
		t.Errorf("read = %q, want full overwrite %q", got, "2nd")
	}

	mod, err := st.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if mod.Before(before) {
		t.Errorf("mod time %v before write time %v", mod, before)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want 1 (temp files left behind?)", len(entries))
	}
}

func TestFileStore_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	var st FileStore

	if _, err := st.Stat(path); !errors.Is(err, ErrNotFound) {
		t.Errorf("stat err = %v, want ErrNotFound", err)
	}
	if _, err := st.Read(path); !errors.Is(err, ErrNotFound) {
		t.Errorf("read err = %v, want ErrNotFound", err)
	}
}

func TestFileStore_EmptyLocation(t *testing.T) {
	var st FileStore
	if _, err := st.Stat(""); err == nil {
		t.Error("expected stat error for empty location")
	}
	if _, err := st.Read(" "); err == nil {
		t.Error("expected read error for empty location")
	}
	if err := st.Write("", []byte("x")); err == nil {
		t.Error("expected write error for empty location")
	}
}

func TestFileStore_StatDirectory(t *testing.T) {
	var st FileStore
	if _, err := st.Stat(t.TempDir()); err == nil {
		t.Fatal("expected error for directory location")
	}
}

func TestFileStore_WriteIntoFileParent(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	var st FileStore
	if err := st.Write(filepath.Join(blocker, "alice.json"), []byte("data")); err == nil {
		t.Fatal("expected error when parent is a regular file")
	}
}

func schemaVersionOf(t *testing.T, db *sql.DB) int {
	t.Helper()
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("read schema version: %v", err)
	}
	return version
}

func TestOpenSQLite_CreatesSchema(t *testing.T) {
	st, path := openTestSQLite(t)

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("db file not created: %v", err)
	}
	if got := schemaVersionOf(t, st.db); got != schemaVersion() {
		t.Fatalf("schema version = %d, want %d", got, schemaVersion())
	}
}

func TestOpenSQLite_ReopenKeepsEntries(t *testing.T) {
	st, path := openTestSQLite(t)
	if err := st.Write("alice", []byte("kept")); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = st.Close()

	again, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = again.Close() }()

	got, err := again.Read("alice")
	if err != nil {
		t.Fatalf("read after reopen: %v", err)
	}
	if string(got) != "kept" {
		t.Errorf("read = %q, want kept", got)
	}
}

func TestOpenSQLite_UpgradesUnversionedDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedcache.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if _, err := db.Exec("CREATE TABLE notes (body TEXT)"); err != nil {
		t.Fatalf("create unrelated table: %v", err)
	}
	_ = db.Close()

	st, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = st.Close() }()

	if got := schemaVersionOf(t, st.db); got != schemaVersion() {
		t.Errorf("schema version = %d, want %d", got, schemaVersion())
	}
	if err := st.Write("alice", []byte("x")); err != nil {
		t.Errorf("write after upgrade: %v", err)
	}
	var notes int
	if err := st.db.QueryRow("SELECT COUNT(*) FROM notes").Scan(&notes); err != nil {
		t.Errorf("unrelated table lost: %v", err)
	}
}

func TestOpenSQLite_NewerSchema(t *testing.T) {
	st, path := openTestSQLite(t)
	if _, err := st.db.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = st.Close()

	if _, err := OpenSQLite(path); err == nil {
		t.Fatal("expected error for newer schema version")
	}
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	if _, err := OpenSQLite(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestSQLiteStore_WriteReadStat(t *testing.T) {
	st, _ := openTestSQLite(t)
	written := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	st.now = func() time.Time { return written }

	if err := st.Write("alice", []byte("one")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := st.Write("alice", []byte("two")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := st.Write("bob", []byte("bob's")); err != nil {
		t.Fatalf("write bob: %v", err)
	}

	got, err := st.Read("alice")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, []byte("two")) {
		t.Errorf("read = %q, want %q", got, "two")
	}

	mod, err := st.Stat("alice")
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !mod.Equal(written) {
		t.Errorf("stat = %v, want %v", mod, written)
	}

	var rows int
	if err := st.db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM cache_entries").Scan(&rows); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if rows != 2 {
		t.Errorf("rows = %d, want 2", rows)
	}
}

func TestSQLiteStore_Missing(t *testing.T) {
	st, _ := openTestSQLite(t)

	if _, err := st.Stat("nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("stat err = %v, want ErrNotFound", err)
	}
	if _, err := st.Read("nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("read err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_Uninitialized(t *testing.T) {
	var st *SQLiteStore
	if _, err := st.Stat("x"); err == nil {
		t.Error("expected stat error")
	}
	if _, err := st.Read("x"); err == nil {
		t.Error("expected read error")
	}
	if err := st.Write("x", nil); err == nil {
		t.Error("expected write error")
	}
	if err := st.Close(); err != nil {
		t.Errorf("close nil store: %v", err)
	}
}

func TestOpen_Backends(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		want    string
		wantErr bool
	}{
		{"default", "", "store.FileStore", false},
		{"file", "file", "store.FileStore", false},
		{"sqlite", "SQLite", "*store.SQLiteStore", false},
		{"unknown", "redis", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbPath := filepath.Join(t.TempDir(), "feedcache.db")
			st, closeFn, err := Open(tt.backend, dbPath)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer func() { _ = closeFn() }()

			got := typeName(st)
			if got != tt.want {
				t.Errorf("type = %s, want %s", got, tt.want)
			}
		})
	}
}

func typeName(st Store) string {
	switch st.(type) {
	case FileStore:
		return "store.FileStore"
	case *SQLiteStore:
		return "*store.SQLiteStore"
	default:
		return "unknown"
	}
}
