package docstore

import (
	"testing"

	"shelf/internal/errs"
	"shelf/internal/storage"
)

func TestJoinPath(t *testing.T) {
	tests := []struct {
		name     string
		segments []string
		want     string
	}{
		{name: "plain", segments: []string{"a", "b"}, want: "a/b"},
		{name: "trailing and leading separators", segments: []string{"a/", "/b"}, want: "a/b"},
		{name: "trailing on both", segments: []string{"a/", "b/"}, want: "a/b"},
		{name: "empty prefix", segments: []string{"", "b"}, want: "b"},
		{name: "empty key", segments: []string{"a", ""}, want: "a"},
		{name: "collapses duplicate separators", segments: []string{"a//b", "c"}, want: "a/b/c"},
		{name: "all empty", segments: []string{"", ""}, want: ""},
		{name: "separators only", segments: []string{"/", "//"}, want: ""},
		{name: "three segments", segments: []string{"app/", "/data/", "users"}, want: "app/data/users"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := joinPath(tt.segments...); got != tt.want {
				t.Fatalf("joinPath(%v) = %q, want %q", tt.segments, got, tt.want)
			}
		})
	}
}

func TestEnsureDocumentExtension(t *testing.T) {
	if got := ensureDocumentExtension("k"); got != "k.json" {
		t.Fatalf("extension mismatch: got %q", got)
	}
	if got := ensureDocumentExtension("k.json"); got != "k.json" {
		t.Fatalf("extension must not double up: got %q", got)
	}
	once := ensureDocumentExtension("users/1")
	if twice := ensureDocumentExtension(once); twice != once {
		t.Fatalf("expected idempotence: %q vs %q", once, twice)
	}
}

func TestDocumentAndObjectPaths(t *testing.T) {
	store, err := New(Config{
		Backend: storage.NewLocalClient(t.TempDir()),
		Bucket:  "media",
		Prefix:  "app/data/",
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	path, err := store.documentPath("users/1")
	if err != nil {
		t.Fatalf("document path failed: %v", err)
	}
	if path != "app/data/users/1.json" {
		t.Fatalf("document path mismatch: got %q", path)
	}

	same, err := store.documentPath("/users/1.json")
	if err != nil {
		t.Fatalf("document path failed: %v", err)
	}
	if same != path {
		t.Fatalf("extension and separator handling diverged: %q vs %q", same, path)
	}

	raw, err := store.objectPath("blobs/archive.gz")
	if err != nil {
		t.Fatalf("object path failed: %v", err)
	}
	if raw != "app/data/blobs/archive.gz" {
		t.Fatalf("object path mismatch: got %q", raw)
	}

	if _, err := store.documentPath("//"); !errs.IsValidation(err) {
		t.Fatalf("expected validation error for empty key, got: %v", err)
	}
	if _, err := store.objectPath(""); !errs.IsValidation(err) {
		t.Fatalf("expected validation error for empty key, got: %v", err)
	}
}

func TestListBoundaryIncludesSeparator(t *testing.T) {
	store, err := New(Config{
		Backend: storage.NewLocalClient(t.TempDir()),
		Bucket:  "media",
		Prefix:  "app",
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if got := store.listBoundary("users"); got != "app/users/" {
		t.Fatalf("boundary mismatch: got %q", got)
	}
	if got := store.listBoundary(""); got != "app/" {
		t.Fatalf("boundary mismatch: got %q", got)
	}

	unscoped, err := New(Config{
		Backend: storage.NewLocalClient(t.TempDir()),
		Bucket:  "media",
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if got := unscoped.listBoundary(""); got != "" {
		t.Fatalf("boundary mismatch: got %q", got)
	}
	if got := unscoped.listBoundary("users/"); got != "users/" {
		t.Fatalf("boundary mismatch: got %q", got)
	}
}
