package docstore

import "context"

// Older verb names kept so long-lived callers keep compiling. Each one
// delegates to its canonical counterpart.

// Deprecated: use Put.
func (s *Store) Save(ctx context.Context, key string, value any, opts ...PutOption) error {
	return s.Put(ctx, key, value, opts...)
}

// Deprecated: use Get.
func (s *Store) Load(ctx context.Context, key string, out any, opts ...ReadOption) error {
	return s.Get(ctx, key, out, opts...)
}

// Deprecated: use GetString.
func (s *Store) LoadString(ctx context.Context, key string) (string, error) {
	return s.GetString(ctx, key)
}

// Deprecated: use Update.
func (s *Store) Merge(ctx context.Context, key string, fields map[string]any) error {
	return s.Update(ctx, key, fields)
}

// Deprecated: use Delete.
func (s *Store) Remove(ctx context.Context, key string) error {
	return s.Delete(ctx, key)
}

// Deprecated: use List.
func (s *Store) Keys(ctx context.Context, subPath string) ([]string, error) {
	return s.List(ctx, subPath)
}

// Deprecated: use Exists.
func (s *Store) Has(ctx context.Context, key string) (bool, error) {
	return s.Exists(ctx, key)
}
