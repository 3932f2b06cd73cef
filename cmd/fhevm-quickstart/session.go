package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Optalysys-Ltd/optalysys-testnet/fhevm"
	"github.com/Optalysys-Ltd/optalysys-testnet/internal/config"
	"github.com/Optalysys-Ltd/optalysys-testnet/internal/logger"
	"github.com/Optalysys-Ltd/optalysys-testnet/internal/prompt"
)

// newSession loads config from the environment and wires the real collaborators
func newSession(network config.Network) (*fhevm.Session, error) {
	if err := config.Init(); err != nil {
		return nil, err
	}
	cfg := config.Get()

	log, err := logger.New(cfg.LogLevel, os.Stdout)
	if err != nil {
		return nil, err
	}

	return fhevm.NewSession(fhevm.Deps{
		Config: cfg,
		Prompt: prompt.NewTerminal(os.Stdin, os.Stdout),
		Out:    os.Stdout,
		Logger: log,
		Keys:   fhevm.KeystoreFiles{},
		Dial:   fhevm.Dial(cfg, log),
	}, network)
}

// finish reports a halt, releases the terminal and flushes the logger
func finish(s *fhevm.Session, out fhevm.Outcome, err error) error {
	defer s.Logger.Sync() //nolint:errcheck
	if c, ok := s.Prompt.(io.Closer); ok {
		_ = c.Close()
	}
	if err != nil {
		return err
	}
	if out.Halted() {
		s.Logger.Warn(out.Message())
		return errHalted
	}
	return nil
}

func parseNetwork(raw string) (config.Network, error) {
	switch n := config.Network(raw); n {
	case config.NetworkDev, config.NetworkBlue:
		return n, nil
	default:
		return "", fmt.Errorf("unknown network %q (want %s or %s)", raw, config.NetworkDev, config.NetworkBlue)
	}
}

