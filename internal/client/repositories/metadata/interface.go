// Package metadata is the local key/value table backing the credential store.
package metadata

import (
	"context"
)

// Repository stores opaque byte values under string keys.
//
// Get reports found=false (and no error) for a missing key. Delete of a
// missing key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	Keys(ctx context.Context) ([]string, error)
}
