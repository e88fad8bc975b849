package kvstore

import (
	"context"
	"sync"
)

// sizeLister lets a backend report the byte size of every stored value so a
// quota wrapper can account for data that predates it.
type sizeLister interface {
	entrySizes(ctx context.Context) (map[string]int64, error)
}

// QuotaStore caps the total bytes of stored values, the way browser
// localStorage capped the original app. Writes that would exceed the budget
// fail with ErrQuotaExceeded and leave the underlying store untouched.
type QuotaStore struct {
	inner Store
	max   int64

	mu    sync.Mutex
	sizes map[string]int64
	used  int64
}

// WithQuota wraps inner with a byte budget. Accounting is primed from the
// bytes already stored in inner, so the cap holds across restarts of a
// persistent backend.
func WithQuota(ctx context.Context, inner Store, maxBytes int64) (*QuotaStore, error) {
	sizes := make(map[string]int64)
	if lister, ok := inner.(sizeLister); ok {
		existing, err := lister.entrySizes(ctx)
		if err != nil {
			return nil, err
		}
		sizes = existing
	}

	used := int64(0)
	for _, n := range sizes {
		used += n
	}

	return &QuotaStore{
		inner: inner,
		max:   maxBytes,
		sizes: sizes,
		used:  used,
	}, nil
}

func (s *QuotaStore) Ping(ctx context.Context) error { return s.inner.Ping(ctx) }

func (s *QuotaStore) Get(ctx context.Context, key string) (string, bool, error) {
	return s.inner.Get(ctx, key)
}

func (s *QuotaStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.used - s.sizes[key] + int64(len(value))
	if s.max > 0 && next > s.max {
		return ErrQuotaExceeded
	}

	if err := s.inner.Set(ctx, key, value); err != nil {
		return err
	}

	s.used = next
	s.sizes[key] = int64(len(value))
	return nil
}

func (s *QuotaStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.inner.Remove(ctx, key); err != nil {
		return err
	}

	s.used -= s.sizes[key]
	delete(s.sizes, key)
	return nil
}
