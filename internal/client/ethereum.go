package client

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// Backend is the RPC surface used by EthereumClient. *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	ChainID(ctx context.Context) (*big.Int, error)
}

// EthereumClient is a client for working with an EVM JSON-RPC endpoint
type EthereumClient struct {
	backend Backend
	logger  *zap.Logger
	chainID *big.Int
}

// DialEthereum connects to rpcURL
func DialEthereum(ctx context.Context, rpcURL string, logger *zap.Logger) (*EthereumClient, error) {
	rpcClient, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", rpcURL, err)
	}
	logger.Debug("RPC client connected", zap.String("rpc", rpcURL))
	return NewEthereumClient(rpcClient, logger), nil
}

// NewEthereumClient wraps an existing backend
func NewEthereumClient(backend Backend, logger *zap.Logger) *EthereumClient {
	return &EthereumClient{
		backend: backend,
		logger:  logger,
	}
}

// BalanceAt gets the latest balance in wei
func (c *EthereumClient) BalanceAt(ctx context.Context, address common.Address) (*big.Int, error) {
	balance, err := c.backend.BalanceAt(ctx, address, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// ChainID returns the host chain id, cached after the first call
func (c *EthereumClient) ChainID(ctx context.Context) (*big.Int, error) {
	if c.chainID != nil {
		return new(big.Int).Set(c.chainID), nil
	}
	chainID, err := c.backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	c.chainID = chainID
	return new(big.Int).Set(chainID), nil
}

// Backend exposes the underlying RPC backend
func (c *EthereumClient) Backend() Backend {
	return c.backend
}
