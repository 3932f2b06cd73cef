package crypto

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"

	"github.com/Optalysys-Ltd/optalysys-testnet/internal/model"
)

// ErrInvalidPassword is returned when a key file cannot be decrypted with the given password
var ErrInvalidPassword = errors.New("invalid password")

// DecryptKeyFile reads and decrypts a keystore JSON file into a wallet handle.
// password must be []byte for security (caller should zero it after use)
func DecryptKeyFile(filePath string, password []byte) (*model.Wallet, error) {
	fileData, err := readKeyFile(filePath)
	if err != nil {
		return nil, err
	}

	key, err := keystore.DecryptKey(fileData, string(password))
	if err != nil {
		if errors.Is(err, keystore.ErrDecrypt) {
			return nil, ErrInvalidPassword
		}
		return nil, fmt.Errorf("failed to decrypt key file: %w", err)
	}

	// Verify key matches the address recorded in the file
	var header model.KeyFileHeader
	if err := json.Unmarshal(fileData, &header); err == nil && header.Address != "" {
		if common.HexToAddress(header.Address) != key.Address {
			return nil, errors.New("private key does not match address")
		}
	}

	return &model.Wallet{
		Address:    key.Address,
		PrivateKey: key.PrivateKey,
	}, nil
}

// ReadKeyAddress reads only the address from a key file (without decryption)
func ReadKeyAddress(filePath string) (common.Address, error) {
	fileData, err := readKeyFile(filePath)
	if err != nil {
		return common.Address{}, err
	}

	var header model.KeyFileHeader
	if err := json.Unmarshal(fileData, &header); err != nil {
		return common.Address{}, fmt.Errorf("failed to unmarshal key file: %w", err)
	}
	if !common.IsHexAddress(header.Address) {
		return common.Address{}, fmt.Errorf("key file has no valid address: %q", header.Address)
	}
	return common.HexToAddress(header.Address), nil
}

// ListKeyFiles returns the names of key files in dir, sorted.
// A missing directory yields an empty list.
func ListKeyFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read key directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.Contains(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func readKeyFile(filePath string) ([]byte, error) {
	// Check if file exists
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file does not exist: %w", err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Check that file is not empty
	if fileInfo.Size() == 0 {
		return nil, errors.New("file is empty")
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Skip UTF-8 BOM if present
	if len(fileData) >= 3 && fileData[0] == 0xEF && fileData[1] == 0xBB && fileData[2] == 0xBF {
		fileData = fileData[3:]
	}
	return fileData, nil
}
