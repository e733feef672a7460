package metadata

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestSetAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "token", []byte{0x01, 0x02}))

	v, found, err := r.Get(ctx, "token")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte{0x01, 0x02}, v)
}

func TestGet_Missing(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, found, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.False(t, found)
	require.Nil(t, v)
}

func TestSet_Upsert(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("old")))
	require.NoError(t, r.Set(ctx, "k", []byte("new")))

	v, _, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), v)
}

func TestDelete_ManyKeysAndIdempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "token", []byte{1}))
	require.NoError(t, r.Set(ctx, "user", []byte{2}))
	require.NoError(t, r.Set(ctx, "kdf_salt", []byte{3}))

	require.NoError(t, r.Delete(ctx, "token", "user"))
	require.NoError(t, r.Delete(ctx, "token", "user"))

	keys, err := r.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"kdf_salt"}, keys)
}

func TestKeys_Sorted(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "user", []byte{1}))
	require.NoError(t, r.Set(ctx, "token", []byte{2}))

	keys, err := r.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"token", "user"}, keys)
}

func TestErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, _, err := r.Get(ctx, "k")
	require.ErrorContains(t, err, "failed to get metadata[k]")

	err = r.Set(ctx, "k", []byte("v"))
	require.ErrorContains(t, err, "failed to set metadata[k]")

	err = r.Delete(ctx, "k")
	require.ErrorContains(t, err, "failed to delete metadata[k]")

	_, err = r.Keys(ctx)
	require.ErrorContains(t, err, "failed to list metadata")
}
