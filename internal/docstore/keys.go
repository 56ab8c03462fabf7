package docstore

import (
	"strings"

	"shelf/internal/errs"
)

const documentExtension = ".json"

// joinPath joins path segments with single separators, collapsing any
// run of separators contributed by the segments themselves. Empty
// segments disappear, so joinPath("", "b") == "b" and
// joinPath("a/", "/b") == "a/b".
func joinPath(segments ...string) string {
	var parts []string
	for _, segment := range segments {
		for _, part := range strings.Split(segment, "/") {
			if part != "" {
				parts = append(parts, part)
			}
		}
	}
	return strings.Join(parts, "/")
}

// ensureDocumentExtension appends the document suffix unless the key
// already carries it. Applying it twice is the same as applying it
// once.
func ensureDocumentExtension(key string) string {
	if strings.HasSuffix(key, documentExtension) {
		return key
	}
	return key + documentExtension
}

// documentPath resolves a relative document key to the fully-qualified
// storage path, applying the extension policy exactly once.
func (s *Store) documentPath(key string) (string, error) {
	rel := joinPath(key)
	if rel == "" {
		return "", errs.New(errs.KindValidation, "document key must not be empty")
	}
	return joinPath(s.prefix, ensureDocumentExtension(rel)), nil
}

// objectPath resolves a relative raw key to the fully-qualified storage
// path with no extension policy.
func (s *Store) objectPath(key string) (string, error) {
	rel := joinPath(key)
	if rel == "" {
		return "", errs.New(errs.KindValidation, "object key must not be empty")
	}
	return joinPath(s.prefix, rel), nil
}

// listBoundary returns the fully-qualified listing prefix with its
// trailing separator, or "" for an unscoped store listed at the root.
// Comparing against the separator-terminated form keeps near-miss keys
// like "users_old/1" out of a listing under "users".
func (s *Store) listBoundary(subPath string) string {
	full := joinPath(s.prefix, subPath)
	if full == "" {
		return ""
	}
	return full + "/"
}
