package docstore

import (
	"context"
	"strings"

	"shelf/internal/errs"
)

// List returns the relative key of every document stored under the
// given sub path, across however many backend pages that takes. Keys
// come back with the listing prefix and the document extension
// stripped; order follows the backend, which need not be sorted.
func (s *Store) List(ctx context.Context, subPath string) ([]string, error) {
	return s.list(ctx, subPath, true)
}

// ListRaw is List without the document extension stripping, for blob
// keys stored verbatim.
func (s *Store) ListRaw(ctx context.Context, subPath string) ([]string, error) {
	return s.list(ctx, subPath, false)
}

func (s *Store) list(ctx context.Context, subPath string, documents bool) ([]string, error) {
	boundary := s.listBoundary(subPath)

	keys := []string{}
	token := ""
	for {
		page, err := s.backend.ListObjectsPage(ctx, s.bucket, boundary, token)
		if err != nil {
			return nil, err
		}
		for _, objectKey := range page.Keys {
			// Backends match bare string prefixes, so "users_old/1"
			// can come back from a listing under "users/". The
			// boundary comparison drops those, along with the marker
			// object at the boundary itself.
			if !strings.HasPrefix(objectKey, boundary) || len(objectKey) <= len(boundary) {
				continue
			}
			rel := objectKey[len(boundary):]
			if documents {
				rel = strings.TrimSuffix(rel, documentExtension)
			}
			keys = append(keys, rel)
		}
		if !page.Truncated {
			return keys, nil
		}
		if page.NextToken == "" {
			return nil, errs.New(errs.KindBackend, "list objects: truncated page without continuation token")
		}
		token = page.NextToken
	}
}
