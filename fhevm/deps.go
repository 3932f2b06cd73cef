package fhevm

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/Optalysys-Ltd/optalysys-testnet/internal/crypto"
	"github.com/Optalysys-Ltd/optalysys-testnet/internal/model"
)

// Network is a live connection to one network profile
type Network interface {
	BalanceAt(ctx context.Context, address common.Address) (*big.Int, error)
	Deploy(ctx context.Context, wallet *model.Wallet) (common.Address, error)
	BindContract(ctx context.Context, address common.Address, wallet *model.Wallet) (Contract, error)
	NewEncryptor(ctx context.Context) (Encryptor, error)
}

// DialFunc connects to the network described by profile
type DialFunc func(ctx context.Context, profile *model.NetworkProfile) (Network, error)

// Contract is the deployed sum contract
type Contract interface {
	Address() common.Address
	StoreEncryptedSum(ctx context.Context, a, b [32]byte, inputProof []byte) (*types.Transaction, error)
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
	EncryptedSum(ctx context.Context) ([32]byte, error)
}

// Encryptor is the client-side FHE context
type Encryptor interface {
	EncryptUint8s(ctx context.Context, contract, user common.Address, values ...uint8) (*model.EncryptedInput, error)
	PublicDecrypt(ctx context.Context, handles ...[32]byte) (map[string]*big.Int, error)
}

// KeyStore creates and opens password-protected key files
type KeyStore interface {
	Create(path string, password []byte) (common.Address, error)
	Load(path string, password []byte) (*model.Wallet, error)
}

// KeystoreFiles is the KeyStore backed by keystore v3 JSON files
type KeystoreFiles struct{}

// Create implements KeyStore
func (KeystoreFiles) Create(path string, password []byte) (common.Address, error) {
	return crypto.CreateKeyFile(path, password)
}

// Load implements KeyStore
func (KeystoreFiles) Load(path string, password []byte) (*model.Wallet, error) {
	return crypto.DecryptKeyFile(path, password)
}
