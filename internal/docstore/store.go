// Package docstore maps logical keys to JSON documents and raw blobs
// stored as individual objects under a bucket prefix. Document keys get
// a .json suffix and JSON shaping; raw keys pass through untouched. The
// store holds no mutable state, so one instance is safe for concurrent
// use.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"shelf/internal/errs"
	"shelf/internal/storage"

	"github.com/rs/zerolog"
)

// Store is a key-value facade over a single bucket. All operations
// resolve keys against the configured prefix before touching the
// backend.
type Store struct {
	backend  storage.ObjectStore
	bucket   string
	prefix   string
	kmsKeyID string
	log      zerolog.Logger
}

// Config carries the collaborators and identity of a Store. Backend and
// Bucket are required; an empty Prefix scopes the store to the bucket
// root. When KMSKeyID is set every put requests server-side encryption
// with that key.
type Config struct {
	Backend  storage.ObjectStore
	Bucket   string
	Prefix   string
	KMSKeyID string
	Logger   zerolog.Logger
}

func New(cfg Config) (*Store, error) {
	if cfg.Backend == nil {
		return nil, errs.New(errs.KindValidation, "object backend is required")
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errs.New(errs.KindValidation, "bucket is required")
	}
	return &Store{
		backend:  cfg.Backend,
		bucket:   cfg.Bucket,
		prefix:   joinPath(cfg.Prefix),
		kmsKeyID: cfg.KMSKeyID,
		log:      cfg.Logger,
	}, nil
}

// Put serializes value as JSON and stores it under the document key,
// overwriting unconditionally. Last writer wins.
func (s *Store) Put(ctx context.Context, key string, value any, opts ...PutOption) error {
	var o putOptions
	for _, opt := range opts {
		opt(&o)
	}

	path, err := s.documentPath(key)
	if err != nil {
		return err
	}
	data, err := marshalDocument(value, o.pretty)
	if err != nil {
		return errs.Wrap(errs.KindValidation, fmt.Sprintf("encode document %q", path), err)
	}
	if err := s.backend.PutObject(ctx, s.bucket, path, data, s.writeOptions()); err != nil {
		return err
	}
	s.log.Debug().Str("op", "put").Str("key", path).Msg("stored document")
	return nil
}

// Get reads the document at key into out. A missing document is a
// not-found error unless AllowMissing is given, in which case out is
// left untouched and Get returns nil.
func (s *Store) Get(ctx context.Context, key string, out any, opts ...ReadOption) error {
	var o readOptions
	for _, opt := range opts {
		opt(&o)
	}

	path, err := s.documentPath(key)
	if err != nil {
		return err
	}
	data, err := s.backend.GetObject(ctx, s.bucket, path)
	if err != nil {
		if o.allowMissing && errs.IsNotFound(err) {
			return nil
		}
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errs.Wrap(errs.KindParse, fmt.Sprintf("decode document %q", path), err)
	}
	return nil
}

// GetString returns the stored text of the document at key without
// decoding it.
func (s *Store) GetString(ctx context.Context, key string) (string, error) {
	path, err := s.documentPath(key)
	if err != nil {
		return "", err
	}
	data, err := s.backend.GetObject(ctx, s.bucket, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Update shallow-merges fields over the document at key and writes the
// result back. An absent document merges into an empty one. Top-level
// fields overwrite wholesale; nested values are replaced, not merged.
// The read and the write are two independent round trips, so a
// concurrent writer in between is silently overwritten.
func (s *Store) Update(ctx context.Context, key string, fields map[string]any) error {
	path, err := s.documentPath(key)
	if err != nil {
		return err
	}

	current := map[string]any{}
	data, err := s.backend.GetObject(ctx, s.bucket, path)
	switch {
	case errs.IsNotFound(err):
	case err != nil:
		return err
	default:
		if err := json.Unmarshal(data, &current); err != nil {
			return errs.Wrap(errs.KindParse, fmt.Sprintf("decode document %q", path), err)
		}
	}

	for k, v := range fields {
		current[k] = v
	}

	out, err := json.Marshal(current)
	if err != nil {
		return errs.Wrap(errs.KindValidation, fmt.Sprintf("encode document %q", path), err)
	}
	if err := s.backend.PutObject(ctx, s.bucket, path, out, s.writeOptions()); err != nil {
		return err
	}
	s.log.Debug().Str("op", "update").Str("key", path).Msg("merged document")
	return nil
}

// Delete removes the document at key. Deleting an absent document is a
// success.
func (s *Store) Delete(ctx context.Context, key string) error {
	path, err := s.documentPath(key)
	if err != nil {
		return err
	}
	if err := s.backend.DeleteObject(ctx, s.bucket, path); err != nil {
		return err
	}
	s.log.Debug().Str("op", "delete").Str("key", path).Msg("deleted document")
	return nil
}

// Exists reports whether a document is stored at key. Absence is a
// false, not an error; backend failures still propagate.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	path, err := s.documentPath(key)
	if err != nil {
		return false, err
	}
	return s.probe(ctx, path)
}

// PutRaw stores data verbatim under key with no extension policy.
func (s *Store) PutRaw(ctx context.Context, key string, data []byte) error {
	path, err := s.objectPath(key)
	if err != nil {
		return err
	}
	if err := s.backend.PutObject(ctx, s.bucket, path, data, s.writeOptions()); err != nil {
		return err
	}
	s.log.Debug().Str("op", "put").Str("key", path).Msg("stored blob")
	return nil
}

// GetRaw returns the bytes stored at key. With AllowMissing a missing
// object yields (nil, nil).
func (s *Store) GetRaw(ctx context.Context, key string, opts ...ReadOption) ([]byte, error) {
	var o readOptions
	for _, opt := range opts {
		opt(&o)
	}

	path, err := s.objectPath(key)
	if err != nil {
		return nil, err
	}
	data, err := s.backend.GetObject(ctx, s.bucket, path)
	if err != nil {
		if o.allowMissing && errs.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// DeleteRaw removes the object at key; absent objects are a success.
func (s *Store) DeleteRaw(ctx context.Context, key string) error {
	path, err := s.objectPath(key)
	if err != nil {
		return err
	}
	if err := s.backend.DeleteObject(ctx, s.bucket, path); err != nil {
		return err
	}
	s.log.Debug().Str("op", "delete").Str("key", path).Msg("deleted blob")
	return nil
}

// ExistsRaw reports whether an object is stored at key.
func (s *Store) ExistsRaw(ctx context.Context, key string) (bool, error) {
	path, err := s.objectPath(key)
	if err != nil {
		return false, err
	}
	return s.probe(ctx, path)
}

func (s *Store) probe(ctx context.Context, path string) (bool, error) {
	err := s.backend.HeadObject(ctx, s.bucket, path)
	if err == nil {
		return true, nil
	}
	if errs.IsNotFound(err) {
		return false, nil
	}
	return false, err
}

func (s *Store) writeOptions() storage.PutOptions {
	return storage.PutOptions{SSEKMSKeyID: s.kmsKeyID}
}

func marshalDocument(value any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(value, "", "  ")
	}
	return json.Marshal(value)
}
