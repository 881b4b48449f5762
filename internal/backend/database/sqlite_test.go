package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) DatabaseService {
	t.Helper()

	ds, err := NewSQLiteDatabase(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteDatabase error: %v", err)
	}
	if err := ds.CreateDatabase(context.Background()); err != nil {
		t.Fatalf("CreateDatabase error: %v", err)
	}
	t.Cleanup(func() { _ = ds.Close() })
	return ds
}

func TestSQLite_Contract(t *testing.T) {
	runDatabaseContract(t, newTestDB)
}

func TestSQLite_CreatesDirectoryAndPersists(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "nested", "db", "similarity_game.db")

	ds, err := NewDatabase(ctx, TypeSQLite, dbPath, Options{})
	if err != nil {
		t.Fatalf("NewDatabase error: %v", err)
	}
	if err := ds.CreatePair(ctx, &ImagePair{ID: "p1", Img1: "a.png", Img2: "b.png", Similarity: 7}); err != nil {
		t.Fatalf("CreatePair error: %v", err)
	}
	if err := ds.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected database file at %s: %v", dbPath, err)
	}

	reopened, err := NewDatabase(ctx, TypeSQLite, dbPath, Options{})
	if err != nil {
		t.Fatalf("reopen NewDatabase error: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.GetPairByID(ctx, "p1")
	if err != nil {
		t.Fatalf("GetPairByID after reopen error: %v", err)
	}
	if got.Img1 != "a.png" || got.Img2 != "b.png" || got.Similarity != 7 {
		t.Fatalf("unexpected pair after reopen: %+v", got)
	}
}

func TestNewDatabase_UnsupportedType(t *testing.T) {
	_, err := NewDatabase(context.Background(), "postgres", "", Options{})
	if err == nil {
		t.Fatalf("expected error for unsupported database type, got nil")
	}
}
