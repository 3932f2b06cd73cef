package model

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
)

// Wallet is a decrypted signing identity. It lives in process memory only.
type Wallet struct {
	Address    common.Address
	PrivateKey *ecdsa.PrivateKey
}

// KeyFileHeader is the unencrypted part of a keystore JSON file
type KeyFileHeader struct {
	Address string `json:"address"`
	Version int    `json:"version"`
}
