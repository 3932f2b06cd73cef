package fhevm

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Optalysys-Ltd/optalysys-testnet/internal/config"
	"github.com/Optalysys-Ltd/optalysys-testnet/internal/model"
)

func TestCreateAccountPromptsForConfirmedPassword(t *testing.T) {
	h := newHarness(t)
	t.Setenv(config.PasswordEnv, "")
	h.prompt.secrets = []string{"pw", "pw"}

	path := filepath.Join(h.cfg.KeysDir, "bob.json")
	addr, err := h.session.CreateAccount(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, walletAddr, addr)
	assert.Equal(t, []string{"pw"}, h.keys.passwords)
	assert.Contains(t, h.out.String(), "Your account address is: "+walletAddr.Hex())
}

func TestCreateAccountPasswordMismatch(t *testing.T) {
	h := newHarness(t)
	t.Setenv(config.PasswordEnv, "")
	h.prompt.secrets = []string{"pw", "other"}

	_, err := h.session.CreateAccount(context.Background(), filepath.Join(h.cfg.KeysDir, "bob.json"))
	assert.ErrorContains(t, err, "do not match")
	assert.Empty(t, h.keys.created)
}

func TestShowKeyFile(t *testing.T) {
	h := newHarness(t)
	h.addKey(t, "alice.json")

	require.NoError(t, h.session.ShowKeyFile(filepath.Join(h.cfg.KeysDir, "alice.json")))
	assert.Contains(t, h.out.String(), walletAddr.Hex())

	assert.Error(t, h.session.ShowKeyFile(filepath.Join(h.cfg.KeysDir, "missing.json")))
}

func TestRunDeployWritesAddressFile(t *testing.T) {
	h := newHarness(t)
	h.session.Network = config.NetworkBlue
	path := filepath.Join(h.cfg.ContractAddressesDir, "nested", "mine.address")

	addr, err := h.session.RunDeploy(context.Background(), filepath.Join(h.cfg.KeysDir, "alice.json"), path)
	require.NoError(t, err)
	assert.Equal(t, deployedAddr, addr)
	assert.Equal(t, 1, h.net.deploys)
	require.Len(t, h.dialed, 1)
	assert.Equal(t, "blue", h.dialed[0].Name)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, deployedAddr.Hex(), string(data))
}

func TestReadAddressFileRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.address")
	require.NoError(t, os.WriteFile(path, []byte("not an address"), 0644))

	_, err := ReadAddressFile(path)
	assert.ErrorContains(t, err, "does not hold a contract address")
}

func TestEncryptedInputFileOverwritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "encrypted_inputs.json")
	first := &model.EncryptedInput{
		Handles:    []model.Buffer{{1, 2, 3}, {4, 5, 6}},
		InputProof: model.Buffer{9, 8, 7, 0},
	}
	second := &model.EncryptedInput{
		Handles:    []model.Buffer{{0xff}},
		InputProof: model.Buffer{0},
	}

	require.NoError(t, WriteEncryptedInput(path, first))
	got, err := ReadEncryptedInput(path)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	require.NoError(t, WriteEncryptedInput(path, second))
	got, err = ReadEncryptedInput(path)
	require.NoError(t, err)
	assert.Equal(t, second, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `{"type":"Buffer","data":[255]}`)
}
