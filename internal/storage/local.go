package storage

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"shelf/internal/errs"
)

const localPageSize = 1000

// LocalClient stores objects as files under rootDir/<bucket>/<key>.
// Listing walks the bucket directory in sorted order and emulates
// continuation tokens with start-after semantics.
type LocalClient struct {
	rootDir  string
	pageSize int
}

func NewLocalClient(rootDir string) *LocalClient {
	return &LocalClient{rootDir: rootDir, pageSize: localPageSize}
}

func (c *LocalClient) PutObject(_ context.Context, bucket, key string, data []byte, _ PutOptions) error {
	fullPath, err := c.objectPath(bucket, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return errs.Wrap(errs.KindBackend, "put object", err)
	}
	if err := os.WriteFile(fullPath, data, 0o600); err != nil {
		return errs.Wrap(errs.KindBackend, "put object", err)
	}
	return nil
}

func (c *LocalClient) GetObject(_ context.Context, bucket, key string) ([]byte, error) {
	fullPath, err := c.objectPath(bucket, key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.KindNotFound, "get object", err)
		}
		return nil, errs.Wrap(errs.KindBackend, "get object", err)
	}
	return data, nil
}

func (c *LocalClient) DeleteObject(_ context.Context, bucket, key string) error {
	fullPath, err := c.objectPath(bucket, key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return errs.Wrap(errs.KindBackend, "delete object", err)
	}
	return nil
}

func (c *LocalClient) HeadObject(_ context.Context, bucket, key string) error {
	fullPath, err := c.objectPath(bucket, key)
	if err != nil {
		return err
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return errs.Wrap(errs.KindNotFound, "head object", err)
		}
		return errs.Wrap(errs.KindBackend, "head object", err)
	}
	if info.IsDir() {
		return errs.New(errs.KindNotFound, "head object")
	}
	return nil
}

func (c *LocalClient) ListObjectsPage(_ context.Context, bucket, prefix, token string) (Page, error) {
	if err := validBucket(bucket); err != nil {
		return Page{}, err
	}

	bucketDir := filepath.Join(c.rootDir, bucket)
	if _, err := os.Stat(bucketDir); err != nil {
		if os.IsNotExist(err) {
			return Page{}, nil
		}
		return Page{}, errs.Wrap(errs.KindBackend, "list objects", err)
	}

	keys := make([]string, 0)
	err := filepath.WalkDir(bucketDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(bucketDir, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if prefix == "" || strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return Page{}, errs.Wrap(errs.KindBackend, "list objects", err)
	}
	sort.Strings(keys)

	start := 0
	if token != "" {
		start = sort.SearchStrings(keys, token)
		if start < len(keys) && keys[start] == token {
			start++
		}
	}

	pageSize := c.pageSize
	if pageSize <= 0 {
		pageSize = localPageSize
	}

	end := start + pageSize
	if end >= len(keys) {
		return Page{Keys: keys[start:]}, nil
	}
	return Page{
		Keys:      keys[start:end],
		NextToken: keys[end-1],
		Truncated: true,
	}, nil
}

func (c *LocalClient) CopyObject(ctx context.Context, bucket, srcKey, dstKey string) error {
	data, err := c.GetObject(ctx, bucket, srcKey)
	if err != nil {
		return err
	}
	return c.PutObject(ctx, bucket, dstKey, data, PutOptions{})
}

func (c *LocalClient) objectPath(bucket, key string) (string, error) {
	if err := validBucket(bucket); err != nil {
		return "", err
	}
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if cleaned == "." || filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") {
		return "", errs.Newf(errs.KindValidation, "invalid object key %q", key)
	}
	return filepath.Join(c.rootDir, bucket, cleaned), nil
}

func validBucket(bucket string) error {
	if bucket == "" || bucket == "." || bucket == ".." ||
		strings.ContainsAny(bucket, `/\`) {
		return errs.Newf(errs.KindValidation, "invalid bucket name %q", bucket)
	}
	return nil
}
