package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signet/internal/crypto"
	"signet/internal/domain"
)

func TestSealedKVRoundTrip(t *testing.T) {
	inner := NewMemKV()
	kv := NewSealedKV(inner, "passphrase")

	require.NoError(t, kv.Set("k", "secret material"))

	v, ok, err := kv.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "secret material", v)

	// The inner tier only ever sees ciphertext.
	raw, ok, err := inner.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, crypto.IsSealed(raw))
	assert.NotContains(t, raw, "secret material")
}

func TestSealedKVReadsPreSealPlaintext(t *testing.T) {
	inner := NewMemKV()
	require.NoError(t, inner.Set("k", "written before a passphrase existed"))

	kv := NewSealedKV(inner, "passphrase")
	v, ok, err := kv.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "written before a passphrase existed", v)
}

func TestSealedKVWrongPassphrase(t *testing.T) {
	inner := NewMemKV()
	require.NoError(t, NewSealedKV(inner, "right").Set("k", "v"))

	_, _, err := NewSealedKV(inner, "wrong").Get("k")
	assert.ErrorIs(t, err, domain.ErrStorageAccess)
}

func TestSealedKVDelete(t *testing.T) {
	inner := NewMemKV()
	kv := NewSealedKV(inner, "p")
	require.NoError(t, kv.Set("k", "v"))
	require.NoError(t, kv.Delete("k"))

	_, ok, err := inner.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSealedKVMissingKey(t *testing.T) {
	kv := NewSealedKV(NewMemKV(), "p")
	_, ok, err := kv.Get("absent")
	require.NoError(t, err)
	assert.False(t, ok)
}
