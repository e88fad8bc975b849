// Package kvstore provides the string-to-string persistence substrate the
// catalog, image, cart and session stores are built on. It mirrors the
// localStorage contract the original storefront relied on: get, set, remove,
// last write wins.
package kvstore

import (
	"context"
	"errors"
)

var (
	// ErrQuotaExceeded is reported by quota-limited backends when a write
	// would push stored bytes past the configured budget.
	ErrQuotaExceeded = errors.New("kvstore: storage quota exceeded")
)

type Store interface {
	// Get returns the value for key, with found=false for absent keys.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes key; removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
