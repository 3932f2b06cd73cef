package crypto

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

// keystore scrypt parameters. Standard (N=2^18, ~256MB RAM) matches what ethers and geth
// write by default, so key files stay interchangeable with the JS tooling.
var (
	scryptN = keystore.StandardScryptN
	scryptP = keystore.StandardScryptP
)

// FileExistsError is an error when file already exists and is not empty
type FileExistsError struct {
	Path string
}

func (e *FileExistsError) Error() string {
	return fmt.Sprintf("file is not empty: %s", e.Path)
}

// IsFileExistsError checks if error is FileExistsError
func IsFileExistsError(err error) bool {
	var target *FileExistsError
	return errors.As(err, &target)
}

// CreateKeyFile generates a new secp256k1 key, encrypts it and writes a keystore JSON file.
// password must be []byte for security (caller should zero it after use)
func CreateKeyFile(filePath string, password []byte) (common.Address, error) {
	// Check file extension (should be .json)
	if filepath.Ext(filePath) != ".json" {
		return common.Address{}, errors.New("key file must have .json extension")
	}

	// Refuse to overwrite an existing key
	if fileInfo, err := os.Stat(filePath); err == nil && fileInfo.Size() > 0 {
		return common.Address{}, &FileExistsError{Path: filePath}
	}

	// Generate key pair
	privateKey, err := ethcrypto.GenerateKey()
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to generate key: %w", err)
	}

	key := &keystore.Key{
		Id:         uuid.New(),
		Address:    ethcrypto.PubkeyToAddress(privateKey.PublicKey),
		PrivateKey: privateKey,
	}

	// Encrypt
	keyJSON, err := keystore.EncryptKey(key, string(password), scryptN, scryptP)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to encrypt key: %w", err)
	}

	// Write to file
	if err := os.MkdirAll(filepath.Dir(filePath), 0o700); err != nil {
		return common.Address{}, fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := os.WriteFile(filePath, keyJSON, 0o600); err != nil {
		return common.Address{}, fmt.Errorf("failed to write file: %w", err)
	}

	return key.Address, nil
}
