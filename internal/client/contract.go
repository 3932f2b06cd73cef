package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/Optalysys-Ltd/optalysys-testnet/internal/model"
)

// sumABI covers the two entry points of the Test contract used by the workflow.
// externalEuint8 and euint8 are bytes32 handles on the wire.
const sumABI = `[
	{
		"inputs": [
			{"internalType": "externalEuint8", "name": "a", "type": "bytes32"},
			{"internalType": "externalEuint8", "name": "b", "type": "bytes32"},
			{"internalType": "bytes", "name": "inputProof", "type": "bytes"}
		],
		"name": "storeEncryptedSum",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "encryptedSum",
		"outputs": [{"internalType": "euint8", "name": "", "type": "bytes32"}],
		"stateMutability": "view",
		"type": "function"
	}
]`

var parsedSumABI = mustParseABI(sumABI)

// ErrTransactionReverted is returned when a mined transaction has a failed status
var ErrTransactionReverted = errors.New("transaction reverted")

// SumContract is a bound instance of the Test contract
type SumContract struct {
	address  common.Address
	contract *bind.BoundContract
	backend  Backend
	opts     *bind.TransactOpts
	logger   *zap.Logger
}

// BindSumContract attaches to a deployed Test contract, signing with wallet
func (c *EthereumClient) BindSumContract(ctx context.Context, address common.Address, wallet *model.Wallet) (*SumContract, error) {
	opts, err := c.transactor(ctx, wallet)
	if err != nil {
		return nil, err
	}

	return &SumContract{
		address:  address,
		contract: bind.NewBoundContract(address, parsedSumABI, c.backend, c.backend, c.backend),
		backend:  c.backend,
		opts:     opts,
		logger:   c.logger,
	}, nil
}

// Address returns the contract address
func (s *SumContract) Address() common.Address {
	return s.address
}

// StoreEncryptedSum submits storeEncryptedSum(a, b, inputProof)
func (s *SumContract) StoreEncryptedSum(ctx context.Context, a, b [32]byte, inputProof []byte) (*types.Transaction, error) {
	opts := *s.opts
	opts.Context = ctx

	tx, err := s.contract.Transact(&opts, "storeEncryptedSum", a, b, inputProof)
	if err != nil {
		return nil, fmt.Errorf("failed to send storeEncryptedSum: %w", err)
	}

	s.logger.Debug("storeEncryptedSum sent",
		zap.String("contract", s.address.Hex()),
		zap.String("tx_hash", tx.Hash().Hex()))
	return tx, nil
}

// WaitMined blocks until tx is included and fails if it reverted
func (s *SumContract) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, s.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for transaction %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s in block %d", ErrTransactionReverted, tx.Hash().Hex(), receipt.BlockNumber.Uint64())
	}
	return receipt, nil
}

// EncryptedSum reads the stored ciphertext handle
func (s *SumContract) EncryptedSum(ctx context.Context) ([32]byte, error) {
	var out []interface{}
	if err := s.contract.Call(&bind.CallOpts{Context: ctx}, &out, "encryptedSum"); err != nil {
		return [32]byte{}, fmt.Errorf("failed to call encryptedSum: %w", err)
	}
	if len(out) != 1 {
		return [32]byte{}, fmt.Errorf("unexpected encryptedSum result length %d", len(out))
	}
	handle := *abi.ConvertType(out[0], new([32]byte)).(*[32]byte)
	return handle, nil
}

// Artifact is a compiled contract as written by Hardhat
type Artifact struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`
}

// LoadArtifact reads a Hardhat artifact JSON file
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read contract artifact: %w", err)
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to unmarshal contract artifact: %w", err)
	}
	if strings.TrimPrefix(artifact.Bytecode, "0x") == "" {
		return nil, fmt.Errorf("contract artifact %s has no bytecode", path)
	}
	return &artifact, nil
}

// Deploy sends the artifact's creation transaction and waits until code is at the new address
func (c *EthereumClient) Deploy(ctx context.Context, artifact *Artifact, wallet *model.Wallet) (common.Address, error) {
	parsed, err := abi.JSON(bytes.NewReader(artifact.ABI))
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to parse ABI: %w", err)
	}

	bytecode, err := hexutil.Decode(artifact.Bytecode)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to decode bytecode: %w", err)
	}

	opts, err := c.transactor(ctx, wallet)
	if err != nil {
		return common.Address{}, err
	}

	_, tx, _, err := bind.DeployContract(opts, parsed, bytecode, c.backend)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to deploy contract: %w", err)
	}

	c.logger.Info("Deployment transaction sent",
		zap.String("contract", artifact.ContractName),
		zap.String("tx_hash", tx.Hash().Hex()))

	address, err := bind.WaitDeployed(ctx, c.backend, tx)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to wait for deployment: %w", err)
	}
	return address, nil
}

func (c *EthereumClient) transactor(ctx context.Context, wallet *model.Wallet) (*bind.TransactOpts, error) {
	chainID, err := c.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	opts, err := bind.NewKeyedTransactorWithChainID(wallet.PrivateKey, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx
	return opts, nil
}

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("invalid ABI: %v", err))
	}
	return parsed
}
