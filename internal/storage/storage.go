// Package storage provides the object-store drivers behind the document
// store: AWS S3, MinIO-compatible endpoints, a local filesystem client,
// and an encrypting decorator. All drivers classify failures with
// errs.Kind so callers never inspect backend-specific codes.
package storage

import "context"

// Page is one page of a listing. NextToken carries the backend's
// continuation cursor when Truncated is true.
type Page struct {
	Keys      []string
	NextToken string
	Truncated bool
}

// PutOptions carries optional write parameters.
type PutOptions struct {
	// SSEKMSKeyID requests server-side encryption with the given KMS key.
	SSEKMSKeyID string
}

// ObjectStore is the primitive contract the document store runs on.
// Implementations must return errs.KindNotFound from GetObject and
// HeadObject when the key is absent, and treat DeleteObject of an
// absent key as success.
type ObjectStore interface {
	PutObject(ctx context.Context, bucket, key string, data []byte, opts PutOptions) error
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	DeleteObject(ctx context.Context, bucket, key string) error
	HeadObject(ctx context.Context, bucket, key string) error
	ListObjectsPage(ctx context.Context, bucket, prefix, token string) (Page, error)
	CopyObject(ctx context.Context, bucket, srcKey, dstKey string) error
}
