package docstore

import (
	"context"
	"fmt"

	"shelf/internal/errs"
)

// Copy duplicates the document at srcKey to dstKey. Both keys go
// through the extension policy and the store's prefix.
func (s *Store) Copy(ctx context.Context, srcKey, dstKey string) error {
	src, err := s.documentPath(srcKey)
	if err != nil {
		return err
	}
	dst, err := s.documentPath(dstKey)
	if err != nil {
		return err
	}
	return s.CopyFullyQualified(ctx, src, dst)
}

// Move relocates the document at srcKey to dstKey.
func (s *Store) Move(ctx context.Context, srcKey, dstKey string) error {
	src, err := s.documentPath(srcKey)
	if err != nil {
		return err
	}
	dst, err := s.documentPath(dstKey)
	if err != nil {
		return err
	}
	return s.MoveFullyQualified(ctx, src, dst)
}

// CopyFullyQualified duplicates one object to another complete storage
// path, bypassing the store's prefix and extension handling. The source
// is probed first so a missing source fails before any mutating call;
// the probe cannot guard against a concurrent delete.
func (s *Store) CopyFullyQualified(ctx context.Context, srcPath, dstPath string) error {
	if joinPath(srcPath) == "" || joinPath(dstPath) == "" {
		return errs.New(errs.KindValidation, "source and destination paths must not be empty")
	}

	err := s.backend.HeadObject(ctx, s.bucket, srcPath)
	if errs.IsNotFound(err) {
		return errs.Newf(errs.KindSourceNotFound, "source object %q does not exist", srcPath)
	}
	if err != nil {
		return err
	}

	if err := s.backend.CopyObject(ctx, s.bucket, srcPath, dstPath); err != nil {
		return err
	}
	s.log.Debug().Str("op", "copy").Str("source", srcPath).Str("destination", dstPath).Msg("copied object")
	return nil
}

// MoveFullyQualified copies srcPath to dstPath and deletes the source.
// The two steps are independent round trips: if the delete fails the
// object exists at both paths, and that state is surfaced as an error
// rather than rolled back.
func (s *Store) MoveFullyQualified(ctx context.Context, srcPath, dstPath string) error {
	if err := s.CopyFullyQualified(ctx, srcPath, dstPath); err != nil {
		return err
	}
	if err := s.backend.DeleteObject(ctx, s.bucket, srcPath); err != nil {
		s.log.Warn().Str("source", srcPath).Str("destination", dstPath).Err(err).Msg("move left source object behind")
		return fmt.Errorf("delete source %q after copy (object now exists at both paths): %w", srcPath, err)
	}
	s.log.Debug().Str("op", "move").Str("source", srcPath).Str("destination", dstPath).Msg("moved object")
	return nil
}
