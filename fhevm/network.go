package fhevm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/Optalysys-Ltd/optalysys-testnet/internal/client"
	"github.com/Optalysys-Ltd/optalysys-testnet/internal/config"
	"github.com/Optalysys-Ltd/optalysys-testnet/internal/fhe"
	"github.com/Optalysys-Ltd/optalysys-testnet/internal/model"
)

// ethNetwork is a Network over a JSON-RPC endpoint and the profile's relayer
type ethNetwork struct {
	profile *model.NetworkProfile
	eth     *client.EthereumClient
	cfg     *config.Config
	logger  *zap.Logger
}

// Dial returns a DialFunc connecting to real endpoints
func Dial(cfg *config.Config, logger *zap.Logger) DialFunc {
	return func(ctx context.Context, profile *model.NetworkProfile) (Network, error) {
		eth, err := client.DialEthereum(ctx, profile.JSONRPCURL, logger)
		if err != nil {
			return nil, err
		}
		return &ethNetwork{profile: profile, eth: eth, cfg: cfg, logger: logger}, nil
	}
}

func (n *ethNetwork) BalanceAt(ctx context.Context, address common.Address) (*big.Int, error) {
	return n.eth.BalanceAt(ctx, address)
}

func (n *ethNetwork) Deploy(ctx context.Context, wallet *model.Wallet) (common.Address, error) {
	artifact, err := client.LoadArtifact(n.cfg.ContractArtifact)
	if err != nil {
		return common.Address{}, err
	}
	return n.eth.Deploy(ctx, artifact, wallet)
}

func (n *ethNetwork) BindContract(ctx context.Context, address common.Address, wallet *model.Wallet) (Contract, error) {
	c, err := n.eth.BindSumContract(ctx, address, wallet)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (n *ethNetwork) NewEncryptor(ctx context.Context) (Encryptor, error) {
	chainID, err := n.eth.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	acl, err := fhe.NewACL(n.profile.ACL(), n.eth.Backend())
	if err != nil {
		return nil, err
	}

	signers, err := fhe.NewVerifiers(n.profile.InputVerifier(), n.profile.KMSVerifier(), n.eth.Backend())
	if err != nil {
		return nil, err
	}

	inst, err := fhe.NewInstance(fhe.Config{
		Profile: n.profile,
		ChainID: chainID,
		Relayer: client.NewRelayerClient(n.profile.RelayerURL, n.cfg.RelayerTimeoutDuration()),
		Packer:  &fhe.ExecPacker{Bin: n.cfg.PackerBin},
		ACL:     acl,
		Signers: signers,
		Logger:  n.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fhevm instance: %w", err)
	}
	return inst, nil
}
