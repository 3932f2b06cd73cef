package fhevm

import (
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/Optalysys-Ltd/optalysys-testnet/internal/config"
	"github.com/Optalysys-Ltd/optalysys-testnet/internal/model"
	"github.com/Optalysys-Ltd/optalysys-testnet/internal/prompt"
)

// Deps are the collaborators a Session is built from
type Deps struct {
	Config *config.Config
	Prompt prompt.Prompter
	Out    io.Writer
	Logger *zap.Logger
	Keys   KeyStore
	Dial   DialFunc
}

// Session carries the state resolved by each workflow step
type Session struct {
	Deps

	// Network selects the profile file loaded by LoadProfile
	Network config.Network

	KeyPath      string
	Wallet       *model.Wallet
	Profile      *model.NetworkProfile
	Chain        Network
	ContractPath string
	Contract     Contract
	FHE          Encryptor
}

// NewSession validates deps and starts an empty session on network
func NewSession(deps Deps, network config.Network) (*Session, error) {
	switch {
	case deps.Config == nil:
		return nil, errors.New("config is required")
	case deps.Prompt == nil:
		return nil, errors.New("prompter is required")
	case deps.Keys == nil:
		return nil, errors.New("key store is required")
	case deps.Dial == nil:
		return nil, errors.New("dialer is required")
	}
	if deps.Out == nil {
		deps.Out = io.Discard
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Session{Deps: deps, Network: network}, nil
}
