package storage

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"shelf/internal/errs"
)

func TestLocalClientPathSafety(t *testing.T) {
	c := NewLocalClient(t.TempDir())

	if _, err := c.objectPath("bucket", "../escape"); err == nil {
		t.Fatal("expected error for parent traversal key")
	}
	if _, err := c.objectPath("bucket", filepath.Join(string(filepath.Separator), "abs")); err == nil {
		t.Fatal("expected error for absolute key")
	}
	if _, err := c.objectPath("bucket", ""); err == nil {
		t.Fatal("expected error for empty key")
	}
	if _, err := c.objectPath("bad/bucket", "key"); err == nil {
		t.Fatal("expected error for bucket containing separator")
	}
	if _, err := c.objectPath("..", "key"); err == nil {
		t.Fatal("expected error for traversal bucket name")
	}
}

func TestLocalClientPutGetHeadDelete(t *testing.T) {
	ctx := context.Background()
	c := NewLocalClient(t.TempDir())

	if err := c.PutObject(ctx, "docs", "a/file1", []byte("1"), PutOptions{}); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, err := c.GetObject(ctx, "docs", "a/file1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(got) != "1" {
		t.Fatalf("unexpected object body: %q", string(got))
	}

	if err := c.HeadObject(ctx, "docs", "a/file1"); err != nil {
		t.Fatalf("head failed: %v", err)
	}
	if err := c.HeadObject(ctx, "docs", "a/absent"); !errs.IsNotFound(err) {
		t.Fatalf("expected not-found from head, got: %v", err)
	}

	if _, err := c.GetObject(ctx, "docs", "a/absent"); !errs.IsNotFound(err) {
		t.Fatalf("expected not-found from get, got: %v", err)
	}

	if err := c.DeleteObject(ctx, "docs", "a/file1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := c.DeleteObject(ctx, "docs", "a/file1"); err != nil {
		t.Fatalf("second delete must succeed, got: %v", err)
	}
	if err := c.HeadObject(ctx, "docs", "a/file1"); !errs.IsNotFound(err) {
		t.Fatalf("expected not-found after delete, got: %v", err)
	}
}

func TestLocalClientBucketsAreIsolated(t *testing.T) {
	ctx := context.Background()
	c := NewLocalClient(t.TempDir())

	if err := c.PutObject(ctx, "first", "shared", []byte("one"), PutOptions{}); err != nil {
		t.Fatalf("put first: %v", err)
	}
	if err := c.PutObject(ctx, "second", "shared", []byte("two"), PutOptions{}); err != nil {
		t.Fatalf("put second: %v", err)
	}

	got, err := c.GetObject(ctx, "second", "shared")
	if err != nil {
		t.Fatalf("get second: %v", err)
	}
	if string(got) != "two" {
		t.Fatalf("bucket isolation broken: got %q", string(got))
	}

	page, err := c.ListObjectsPage(ctx, "first", "", "")
	if err != nil {
		t.Fatalf("list first: %v", err)
	}
	if want := []string{"shared"}; !reflect.DeepEqual(page.Keys, want) {
		t.Fatalf("keys mismatch: got %v want %v", page.Keys, want)
	}
}

func TestLocalClientListFiltersByPrefix(t *testing.T) {
	ctx := context.Background()
	c := NewLocalClient(t.TempDir())

	for _, key := range []string{"app/a", "app/b/c", "other/d"} {
		if err := c.PutObject(ctx, "docs", key, []byte("x"), PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}

	page, err := c.ListObjectsPage(ctx, "docs", "app/", "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	want := []string{"app/a", "app/b/c"}
	if !reflect.DeepEqual(page.Keys, want) {
		t.Fatalf("keys mismatch: got %v want %v", page.Keys, want)
	}
	if page.Truncated {
		t.Fatal("expected single page")
	}
}

func TestLocalClientListMissingBucketIsEmpty(t *testing.T) {
	c := NewLocalClient(t.TempDir())

	page, err := c.ListObjectsPage(context.Background(), "ghost", "", "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page.Keys) != 0 || page.Truncated {
		t.Fatalf("expected empty page, got %#v", page)
	}
}

func TestLocalClientListPaginates(t *testing.T) {
	ctx := context.Background()
	c := NewLocalClient(t.TempDir())
	c.pageSize = 2

	for _, key := range []string{"k1", "k2", "k3", "k4", "k5"} {
		if err := c.PutObject(ctx, "docs", key, []byte("x"), PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}

	var all []string
	token := ""
	pages := 0
	for {
		page, err := c.ListObjectsPage(ctx, "docs", "", token)
		if err != nil {
			t.Fatalf("list page %d: %v", pages, err)
		}
		all = append(all, page.Keys...)
		pages++
		if !page.Truncated {
			break
		}
		if page.NextToken == "" {
			t.Fatal("truncated page must carry a continuation token")
		}
		token = page.NextToken
	}

	want := []string{"k1", "k2", "k3", "k4", "k5"}
	if !reflect.DeepEqual(all, want) {
		t.Fatalf("keys mismatch: got %v want %v", all, want)
	}
	if pages != 3 {
		t.Fatalf("expected 3 pages, got %d", pages)
	}
}

func TestLocalClientCopyObject(t *testing.T) {
	ctx := context.Background()
	c := NewLocalClient(t.TempDir())

	if err := c.PutObject(ctx, "docs", "src", []byte("payload"), PutOptions{}); err != nil {
		t.Fatalf("put src: %v", err)
	}
	if err := c.CopyObject(ctx, "docs", "src", "nested/dst"); err != nil {
		t.Fatalf("copy failed: %v", err)
	}

	got, err := c.GetObject(ctx, "docs", "nested/dst")
	if err != nil {
		t.Fatalf("get dst: %v", err)
	}
	if string(got) != "payload" {
		t.Fatalf("unexpected copy body: %q", string(got))
	}

	if err := c.CopyObject(ctx, "docs", "absent", "dst2"); !errs.IsNotFound(err) {
		t.Fatalf("expected not-found copying absent source, got: %v", err)
	}
}
