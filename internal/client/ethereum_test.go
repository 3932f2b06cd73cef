package client

import (
	"context"
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Optalysys-Ltd/optalysys-testnet/internal/model"
)

// stubBytecode deploys a one-byte runtime (STOP): every call succeeds and returns nothing.
const stubBytecode = "0x6001600c60003960016000f300"

func newSimulated(t *testing.T) (*simulated.Backend, *model.Wallet) {
	t.Helper()
	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	wallet := &model.Wallet{Address: ethcrypto.PubkeyToAddress(key.PublicKey), PrivateKey: key}

	funds := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	sim := simulated.NewBackend(types.GenesisAlloc{wallet.Address: {Balance: funds}})
	t.Cleanup(func() { sim.Close() })
	return sim, wallet
}

// autoCommit mines a block every few milliseconds until the test ends
func autoCommit(t *testing.T, sim *simulated.Backend) {
	t.Helper()
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				sim.Commit()
			}
		}
	}()
	t.Cleanup(func() {
		close(done)
		<-stopped
	})
}

func TestEthereumClientBalanceAndChainID(t *testing.T) {
	sim, wallet := newSimulated(t)
	c := NewEthereumClient(sim.Client(), zap.NewNop())
	ctx := context.Background()

	balance, err := c.BalanceAt(ctx, wallet.Address)
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", balance.String())

	empty, err := c.BalanceAt(ctx, common.HexToAddress("0x00000000000000000000000000000000000000aa"))
	require.NoError(t, err)
	assert.Zero(t, empty.Sign())

	chainID, err := c.ChainID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1337), chainID.Int64())
}

func TestEthereumClientDeployAndStore(t *testing.T) {
	sim, wallet := newSimulated(t)
	autoCommit(t, sim)
	c := NewEthereumClient(sim.Client(), zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	address, err := c.Deploy(ctx, &Artifact{ContractName: "Stub", ABI: json.RawMessage(`[]`), Bytecode: stubBytecode}, wallet)
	require.NoError(t, err)

	code, err := sim.Client().CodeAt(ctx, address, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00}, code)

	contract, err := c.BindSumContract(ctx, address, wallet)
	require.NoError(t, err)
	assert.Equal(t, address, contract.Address())

	tx, err := contract.StoreEncryptedSum(ctx, [32]byte{1}, [32]byte{2}, []byte{0xde, 0xad})
	require.NoError(t, err)

	receipt, err := contract.WaitMined(ctx, tx)
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)

	// The stub returns no data, so reading the handle fails at decode time.
	_, err = contract.EncryptedSum(ctx)
	assert.Error(t, err)
}

func TestEncryptedSumWithoutCode(t *testing.T) {
	sim, wallet := newSimulated(t)
	c := NewEthereumClient(sim.Client(), zap.NewNop())
	ctx := context.Background()

	contract, err := c.BindSumContract(ctx, common.HexToAddress("0x00000000000000000000000000000000000000bb"), wallet)
	require.NoError(t, err)

	_, err = contract.EncryptedSum(ctx)
	assert.ErrorContains(t, err, "failed to call encryptedSum")
}

func TestLoadArtifact(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "Test.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"contractName":"Test","abi":[],"bytecode":"0x6000"}`), 0o644))
	artifact, err := LoadArtifact(good)
	require.NoError(t, err)
	assert.Equal(t, "Test", artifact.ContractName)

	empty := filepath.Join(dir, "Empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"contractName":"Empty","abi":[],"bytecode":"0x"}`), 0o644))
	_, err = LoadArtifact(empty)
	assert.ErrorContains(t, err, "no bytecode")

	_, err = LoadArtifact(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
