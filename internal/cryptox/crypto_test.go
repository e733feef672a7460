package cryptox

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	secret := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := DeriveKey(secret, salt)
	key2 := DeriveKey(secret, salt)

	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}

	expectedHex := "9290403300158e19f27e48e7087f7383b03065bf5b25ef23ebc40229616cd8b3"
	if hex.EncodeToString(key1) != expectedHex {
		t.Errorf("expected %s, got %s", expectedHex, hex.EncodeToString(key1))
	}
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	secret := []byte("secret-password")

	if bytes.Equal(DeriveKey(secret, []byte("salt-1")), DeriveKey(secret, []byte("salt-2"))) {
		t.Errorf("expected different results for different salts, got same")
	}
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := DeriveKey([]byte("device"), []byte("salt"))

	sealed, err := Seal(key, []byte("t1"))
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "t1")

	plain, err := Open(key, sealed)
	require.NoError(t, err)
	assert.Equal(t, "t1", string(plain))
}

func TestSeal_NonceIsFresh(t *testing.T) {
	key := DeriveKey([]byte("device"), []byte("salt"))

	a, err := Seal(key, []byte("same"))
	require.NoError(t, err)
	b, err := Seal(key, []byte("same"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestOpen_Failures(t *testing.T) {
	key := DeriveKey([]byte("device"), []byte("salt"))
	other := DeriveKey([]byte("other"), []byte("salt"))

	sealed, err := Seal(key, []byte("payload"))
	require.NoError(t, err)

	_, err = Open(other, sealed)
	require.Error(t, err, "wrong key must fail")

	tampered := append([]byte(nil), sealed...)
	tampered[len(tampered)-1] ^= 0xFF
	_, err = Open(key, tampered)
	require.Error(t, err, "tampered value must fail")

	_, err = Open(key, []byte{1, 2})
	require.ErrorIs(t, err, ErrSealedTooShort)

	_, err = Seal([]byte("short"), []byte("x"))
	require.Error(t, err, "invalid key size must fail")
}

func TestLoadOrCreateSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "device.key")

	first, err := LoadOrCreateSecret(path)
	require.NoError(t, err)
	require.Len(t, first, SecretSize)

	second, err := LoadOrCreateSecret(path)
	require.NoError(t, err)
	assert.Equal(t, first, second, "existing secret must be reused")

	if runtime.GOOS != "windows" {
		fi, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
	}
}

func TestLoadOrCreateSecret_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.key")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	_, err := LoadOrCreateSecret(path)
	require.Error(t, err)
}
