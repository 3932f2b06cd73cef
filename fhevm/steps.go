package fhevm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Optalysys-Ltd/optalysys-testnet/internal/common"
	"github.com/Optalysys-Ltd/optalysys-testnet/internal/config"
	"github.com/Optalysys-Ltd/optalysys-testnet/internal/crypto"
	"github.com/Optalysys-Ltd/optalysys-testnet/internal/prompt"
)

// MinBalanceGwei is the funding floor checked before any transaction
const MinBalanceGwei = 10

const (
	fundsNotice  = "Please request funds from Optalysys to this address before proceeding using the account number provided"
	addressExt   = ".address"
	keyQuestion  = "What is the name of your key file? (%s). \nIf you want to generate a new key, type the name of the output file. \n(Press tab to autocomplete)\n: "
	addrQuestion = "What is the filename to load/save the deployed contract address? (e.g. file_name.address): "
)

// ResolveKey asks for the key file. A missing file is created and the
// workflow halts, since a new account has no funds yet.
func (s *Session) ResolveKey(ctx context.Context) (Outcome, error) {
	keys, err := crypto.ListKeyFiles(s.Config.KeysDir)
	if err != nil {
		return Continue, err
	}

	name, err := s.Prompt.Ask(fmt.Sprintf(keyQuestion, strings.Join(keys, " / ")), keys)
	if err != nil {
		return Continue, err
	}
	s.KeyPath = filepath.Join(s.Config.KeysDir, name)
	fmt.Fprintf(s.Out, "The name of your key file is %s, the path of your key file is %s\n", name, s.KeyPath)

	if _, err := os.Stat(s.KeyPath); err == nil {
		return Continue, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return Continue, fmt.Errorf("failed to check key file: %w", err)
	}

	if _, err := s.CreateAccount(ctx, s.KeyPath); err != nil {
		return Continue, err
	}
	return Halt(fundsNotice), nil
}

// ResolveSecret offers to cache the key password in WALLET_PASSWORD for the rest of the run
func (s *Session) ResolveSecret(context.Context) error {
	if _, ok := config.PasswordFromEnv(); ok {
		return nil
	}

	fmt.Fprintf(s.Out, "Environment variable %s has not been set\n", config.PasswordEnv)
	answer, err := s.Prompt.Ask(fmt.Sprintf("Do you want to set %s env var to skip the password prompt? (y / n): ", config.PasswordEnv), nil)
	if err != nil {
		return err
	}
	if !prompt.IsYes(answer) {
		return nil
	}

	password, err := s.Prompt.Secret("Enter password for wallet: ")
	if err != nil {
		return err
	}
	return config.CachePassword(password)
}

// password returns WALLET_PASSWORD or asks for it without caching
func (s *Session) password(question string) ([]byte, error) {
	if p, ok := config.PasswordFromEnv(); ok {
		return []byte(p), nil
	}
	p, err := s.Prompt.Secret(question)
	if err != nil {
		return nil, err
	}
	if p == "" {
		return nil, errors.New("password cannot be empty")
	}
	return []byte(p), nil
}

// LoadWallet decrypts the resolved key file
func (s *Session) LoadWallet(context.Context) error {
	s.Logger.Info("Reading wallet from file", zap.String("path", s.KeyPath))

	password, err := s.password("Enter password for wallet: ")
	if err != nil {
		return err
	}
	defer clear(password)

	wallet, err := s.Keys.Load(s.KeyPath, password)
	if err != nil {
		if errors.Is(err, crypto.ErrInvalidPassword) {
			return fmt.Errorf("failed to decrypt %s: %w", s.KeyPath, err)
		}
		return fmt.Errorf("failed to load wallet: %w", err)
	}
	s.Wallet = wallet

	s.Logger.Info("Your wallet address is: " + wallet.Address.Hex())
	return nil
}

// LoadProfile reads the session's network profile and connects to it
func (s *Session) LoadProfile(ctx context.Context) error {
	s.Logger.Info("Loading testnet config", zap.String("network", string(s.Network)))
	profile, err := s.Config.LoadNetworkProfile(s.Network)
	if err != nil {
		return err
	}
	s.Profile = profile

	s.Logger.Info("Connecting provider", zap.String("rpc", profile.JSONRPCURL))
	chain, err := s.Dial(ctx, profile)
	if err != nil {
		return err
	}
	s.Chain = chain
	return nil
}

// CheckFunding halts when the wallet holds less than MinBalanceGwei
func (s *Session) CheckFunding(ctx context.Context) (Outcome, error) {
	s.Logger.Info("Requesting balance")
	balance, err := s.Chain.BalanceAt(ctx, s.Wallet.Address)
	if err != nil {
		return Continue, err
	}

	formatted := common.WeiToEther(balance)
	if balance.Cmp(common.GweiToWei(MinBalanceGwei)) < 0 {
		return Halt("You don't have enough ETH to deploy! Wallet balance: %s ETH. Please request funds from Optalysys for wallet address %s",
			formatted, s.Wallet.Address.Hex()), nil
	}

	s.Logger.Info(fmt.Sprintf("Balance for wallet %s: %s ETH", s.Wallet.Address.Hex(), formatted))
	return Continue, nil
}

// listAddressFiles returns the .address files in dir; a missing dir has none
func listAddressFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == addressExt {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// ProvisionContract deploys a new contract or reuses a recorded one, then binds it.
// Deployment is forced when no address file exists yet.
func (s *Session) ProvisionContract(ctx context.Context) error {
	dir := s.Config.ContractAddressesDir
	files, err := listAddressFiles(dir)
	if err != nil {
		return err
	}

	deploy := true
	if len(files) > 0 {
		s.Logger.Info(fmt.Sprintf("Already deployed contracts in %s: %s", dir, strings.Join(files, ", ")))
		answer, err := s.Prompt.Ask("Do you want to deploy a new instance of the contract? (y / n): ", nil)
		if err != nil {
			return err
		}
		deploy = prompt.IsYes(answer)
	} else {
		s.Logger.Info(fmt.Sprintf("No contracts found in directory %s.", dir))
	}

	name, err := s.Prompt.Ask(addrQuestion, files)
	if err != nil {
		return err
	}
	s.ContractPath = filepath.Join(dir, name)
	fmt.Fprintf(s.Out, "The name of your contract address file is %s, the path of your contract address file is %s\n", name, s.ContractPath)

	if deploy {
		s.Logger.Info("Deploying contract")
		if _, err := DeployContract(ctx, s.Chain, s.Wallet, s.ContractPath, s.Logger); err != nil {
			return err
		}
	}

	s.Logger.Info("Loading contract address")
	address, err := ReadAddressFile(s.ContractPath)
	if err != nil {
		return err
	}

	contract, err := s.Chain.BindContract(ctx, address, s.Wallet)
	if err != nil {
		return err
	}
	s.Contract = contract
	return nil
}

// ConnectFHE builds the FHE instance for the loaded profile
func (s *Session) ConnectFHE(ctx context.Context) error {
	s.Logger.Info("Instantiating fhevm instance")
	enc, err := s.Chain.NewEncryptor(ctx)
	if err != nil {
		return err
	}
	s.FHE = enc
	return nil
}
