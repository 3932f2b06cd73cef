package crypto

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	scryptN, scryptP = keystore.LightScryptN, keystore.LightScryptP
	os.Exit(m.Run())
}

func TestCreateAndDecryptKeyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "alice.json")

	addr, err := CreateKeyFile(path, []byte("correct horse"))
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	wallet, err := DecryptKeyFile(path, []byte("correct horse"))
	require.NoError(t, err)
	assert.Equal(t, addr, wallet.Address)
	assert.NotNil(t, wallet.PrivateKey)

	headerAddr, err := ReadKeyAddress(path)
	require.NoError(t, err)
	assert.Equal(t, addr, headerAddr)
}

func TestDecryptKeyFileWrongPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bob.json")
	_, err := CreateKeyFile(path, []byte("right"))
	require.NoError(t, err)

	_, err = DecryptKeyFile(path, []byte("wrong"))
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestDecryptKeyFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := DecryptKeyFile(filepath.Join(dir, "missing.json"), []byte("x"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, err = DecryptKeyFile(empty, []byte("x"))
	assert.ErrorContains(t, err, "file is empty")

	garbage := filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte("{not json"), 0o600))
	_, err = DecryptKeyFile(garbage, []byte("x"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidPassword)
}

func TestDecryptKeyFileWithBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.json")
	addr, err := CreateKeyFile(path, []byte("pw"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, append([]byte{0xEF, 0xBB, 0xBF}, data...), 0o600))

	wallet, err := DecryptKeyFile(path, []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, addr, wallet.Address)
}

func TestCreateKeyFileRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carol.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	_, err := CreateKeyFile(path, []byte("pw"))
	assert.True(t, IsFileExistsError(err))
}

func TestCreateKeyFileRequiresJSONExtension(t *testing.T) {
	_, err := CreateKeyFile(filepath.Join(t.TempDir(), "dave.key"), []byte("pw"))
	assert.ErrorContains(t, err, ".json")
}

func TestListKeyFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.json", "a.json", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o700))

	names, err := ListKeyFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "b.json"}, names)

	names, err = ListKeyFiles(filepath.Join(dir, "nope"))
	require.NoError(t, err)
	assert.Empty(t, names)
}
