package storage

import (
	"context"
	"errors"

	"shelf/internal/crypto"
	"shelf/internal/errs"
)

// EncryptedStore wraps another ObjectStore and encrypts object bodies
// client-side with AES-GCM. The first key is used for writes; every key
// is tried on reads so older objects stay readable after a key rotation.
// Keys, listing, and metadata pass through untouched.
type EncryptedStore struct {
	inner ObjectStore
	keys  [][]byte
}

func NewEncryptedStore(inner ObjectStore, keys [][]byte) (*EncryptedStore, error) {
	if inner == nil {
		return nil, errors.New("inner object store is required")
	}
	if len(keys) == 0 {
		return nil, errors.New("at least one encryption key is required")
	}
	return &EncryptedStore{inner: inner, keys: keys}, nil
}

func (s *EncryptedStore) PutObject(ctx context.Context, bucket, key string, data []byte, opts PutOptions) error {
	sealed, err := crypto.EncryptBytes(s.keys[0], data)
	if err != nil {
		return errs.Wrap(errs.KindBackend, "encrypt object", err)
	}
	return s.inner.PutObject(ctx, bucket, key, sealed, opts)
}

func (s *EncryptedStore) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	sealed, err := s.inner.GetObject(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	plain, err := crypto.DecryptBytesWithAnyKey(s.keys, sealed)
	if err != nil {
		return nil, errs.Wrap(errs.KindBackend, "decrypt object", err)
	}
	return plain, nil
}

func (s *EncryptedStore) DeleteObject(ctx context.Context, bucket, key string) error {
	return s.inner.DeleteObject(ctx, bucket, key)
}

func (s *EncryptedStore) HeadObject(ctx context.Context, bucket, key string) error {
	return s.inner.HeadObject(ctx, bucket, key)
}

func (s *EncryptedStore) ListObjectsPage(ctx context.Context, bucket, prefix, token string) (Page, error) {
	return s.inner.ListObjectsPage(ctx, bucket, prefix, token)
}

func (s *EncryptedStore) CopyObject(ctx context.Context, bucket, srcKey, dstKey string) error {
	return s.inner.CopyObject(ctx, bucket, srcKey, dstKey)
}
