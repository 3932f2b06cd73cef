package fhevm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/Optalysys-Ltd/optalysys-testnet/internal/model"
)

// DeployContract deploys a new sum contract and records its address in addressPath
func DeployContract(ctx context.Context, chain Network, wallet *model.Wallet, addressPath string, logger *zap.Logger) (common.Address, error) {
	address, err := chain.Deploy(ctx, wallet)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to deploy contract: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(addressPath), 0755); err != nil {
		return common.Address{}, fmt.Errorf("failed to create address directory: %w", err)
	}
	if err := os.WriteFile(addressPath, []byte(address.Hex()), 0644); err != nil {
		return common.Address{}, fmt.Errorf("failed to write address file: %w", err)
	}

	logger.Info("Contract deployed",
		zap.String("address", address.Hex()),
		zap.String("file", addressPath))
	return address, nil
}

// ReadAddressFile reads a contract address recorded by DeployContract.
// The address is trusted as-is; nothing checks that code lives there.
func ReadAddressFile(path string) (common.Address, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to read contract address: %w", err)
	}
	raw := strings.TrimSpace(string(data))
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("%s does not hold a contract address: %q", path, raw)
	}
	return common.HexToAddress(raw), nil
}

// RunDeploy is the standalone deploy routine: load the key file, connect to the
// network and deploy into addressPath.
func (s *Session) RunDeploy(ctx context.Context, keyPath, addressPath string) (common.Address, error) {
	s.KeyPath = keyPath
	if err := s.LoadWallet(ctx); err != nil {
		return common.Address{}, err
	}
	if err := s.LoadProfile(ctx); err != nil {
		return common.Address{}, err
	}
	return DeployContract(ctx, s.Chain, s.Wallet, addressPath, s.Logger)
}
