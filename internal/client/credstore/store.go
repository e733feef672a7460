// Package credstore is the persistent credential store: a small set of
// string slots (the bearer token and the serialized user) that survive
// process restarts.
//
// The session manager is the only writer of the token and user slots.
package credstore

import "context"

// Store is a string key/value store. Get reports ok=false for a missing
// slot; deleting a missing slot is not an error. SetAll and DeleteAll apply
// all-or-nothing where the backend supports it.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	SetAll(ctx context.Context, values map[string]string) error
	DeleteAll(ctx context.Context, keys ...string) error
}
