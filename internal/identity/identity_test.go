package identity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"
)

func TestGenerate_DistinctKeypairs(t *testing.T) {
	a, err := Generate()
	require.NoError(t, err)
	b, err := Generate()
	require.NoError(t, err)

	assert.NotEqual(t, a.Public(), b.Public())
	assert.NotEqual(t, a.Identity(), b.Identity())
}

func TestIdentity_IsDigestOfPublicKey(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)

	pub := kp.Public()
	want := blake2b.Sum256(pub[:])
	id := kp.Identity()
	assert.Equal(t, want[:], id[:])
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qm.key")

	kp, err := Generate()
	require.NoError(t, err)
	require.NoError(t, kp.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, kp.Public(), loaded.Public())
	assert.Equal(t, kp.Identity(), loaded.Identity())
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.key"))
	assert.Error(t, err)

	badHex := filepath.Join(dir, "bad.key")
	require.NoError(t, os.WriteFile(badHex, []byte("not-hex\n"), 0o600))
	_, err = Load(badHex)
	assert.Error(t, err)

	short := filepath.Join(dir, "short.key")
	require.NoError(t, os.WriteFile(short, []byte("abcd\n"), 0o600))
	_, err = Load(short)
	assert.Error(t, err)
}
