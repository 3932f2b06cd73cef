package fhevm

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/Optalysys-Ltd/optalysys-testnet/internal/config"
	"github.com/Optalysys-Ltd/optalysys-testnet/internal/crypto"
)

// CreateAccount generates a key, stores it encrypted at keyPath and shows its address
func (s *Session) CreateAccount(_ context.Context, keyPath string) (common.Address, error) {
	password, err := s.newPassword()
	if err != nil {
		return common.Address{}, err
	}
	defer clear(password)

	address, err := s.Keys.Create(keyPath, password)
	if err != nil {
		if crypto.IsFileExistsError(err) {
			return common.Address{}, err
		}
		return common.Address{}, fmt.Errorf("failed to create account: %w", err)
	}

	s.Logger.Info("Account created", zap.String("address", address.Hex()), zap.String("path", keyPath))
	if err := s.ShowAddress(address); err != nil {
		return common.Address{}, err
	}
	return address, nil
}

// newPassword returns WALLET_PASSWORD or asks for a confirmed new password
func (s *Session) newPassword() ([]byte, error) {
	if p, ok := config.PasswordFromEnv(); ok {
		return []byte(p), nil
	}

	first, err := s.Prompt.Secret("Enter password for new wallet: ")
	if err != nil {
		return nil, err
	}
	if first == "" {
		return nil, errors.New("password cannot be empty")
	}
	second, err := s.Prompt.Secret("Confirm password: ")
	if err != nil {
		return nil, err
	}
	if first != second {
		return nil, errors.New("passwords do not match")
	}
	return []byte(first), nil
}

// ShowAddress prints the address and a terminal QR code of it
func (s *Session) ShowAddress(address common.Address) error {
	qr, err := qrcode.New(address.Hex(), qrcode.Medium)
	if err != nil {
		return fmt.Errorf("failed to create QR code: %w", err)
	}
	fmt.Fprintf(s.Out, "Your account address is: %s\n", address.Hex())
	fmt.Fprint(s.Out, qr.ToSmallString(false))
	return nil
}

// ShowKeyFile prints the address recorded in an existing key file without decrypting it
func (s *Session) ShowKeyFile(keyPath string) error {
	address, err := crypto.ReadKeyAddress(keyPath)
	if err != nil {
		return err
	}
	return s.ShowAddress(address)
}
