package fhe

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// ErrInvalidSignature is returned when relayer signatures do not come from enough registered signers
var ErrInvalidSignature = errors.New("invalid signature")

var domainType = []apitypes.Type{
	{Name: "name", Type: "string"},
	{Name: "version", Type: "string"},
	{Name: "chainId", Type: "uint256"},
	{Name: "verifyingContract", Type: "address"},
}

func gatewayDomain(name string, gatewayChainID uint64, verifyingContract common.Address) apitypes.TypedDataDomain {
	return apitypes.TypedDataDomain{
		Name:              name,
		Version:           "1",
		ChainId:           (*math.HexOrDecimal256)(new(big.Int).SetUint64(gatewayChainID)),
		VerifyingContract: verifyingContract.Hex(),
	}
}

func encodeHandleList(handles [][32]byte) []interface{} {
	out := make([]interface{}, len(handles))
	for i, h := range handles {
		out[i] = hexutil.Encode(h[:])
	}
	return out
}

// inputVerificationDigest is the hash coprocessors sign when they accept an encrypted input
func inputVerificationDigest(gatewayChainID uint64, verifyingContract common.Address,
	handles [][32]byte, user, contract common.Address, contractChainID *big.Int, extra []byte) ([]byte, error) {
	td := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": domainType,
			"CiphertextVerification": {
				{Name: "ctHandles", Type: "bytes32[]"},
				{Name: "userAddress", Type: "address"},
				{Name: "contractAddress", Type: "address"},
				{Name: "contractChainId", Type: "uint256"},
				{Name: "extraData", Type: "bytes"},
			},
		},
		PrimaryType: "CiphertextVerification",
		Domain:      gatewayDomain("InputVerification", gatewayChainID, verifyingContract),
		Message: apitypes.TypedDataMessage{
			"ctHandles":       encodeHandleList(handles),
			"userAddress":     user.Hex(),
			"contractAddress": contract.Hex(),
			"contractChainId": contractChainID.String(),
			"extraData":       hexutil.Encode(extra),
		},
	}
	digest, _, err := apitypes.TypedDataAndHash(td)
	if err != nil {
		return nil, fmt.Errorf("failed to hash input verification: %w", err)
	}
	return digest, nil
}

// publicDecryptionDigest is the hash KMS nodes sign over a public decryption result
func publicDecryptionDigest(gatewayChainID uint64, verifyingContract common.Address,
	handles [][32]byte, decrypted, extra []byte) ([]byte, error) {
	td := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": domainType,
			"PublicDecryptVerification": {
				{Name: "ctHandles", Type: "bytes32[]"},
				{Name: "decryptedResult", Type: "bytes"},
				{Name: "extraData", Type: "bytes"},
			},
		},
		PrimaryType: "PublicDecryptVerification",
		Domain:      gatewayDomain("Decryption", gatewayChainID, verifyingContract),
		Message: apitypes.TypedDataMessage{
			"ctHandles":       encodeHandleList(handles),
			"decryptedResult": hexutil.Encode(decrypted),
			"extraData":       hexutil.Encode(extra),
		},
	}
	digest, _, err := apitypes.TypedDataAndHash(td)
	if err != nil {
		return nil, fmt.Errorf("failed to hash public decryption: %w", err)
	}
	return digest, nil
}

// recoverSigner returns the address that produced sig over digest.
// Both 0/1 and 27/28 recovery ids are accepted.
func recoverSigner(digest, sig []byte) (common.Address, error) {
	if len(sig) != signatureLen {
		return common.Address{}, fmt.Errorf("signature has length %d, want %d", len(sig), signatureLen)
	}
	normalized := append([]byte(nil), sig...)
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}
	pub, err := crypto.SigToPub(digest, normalized)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// verifySignatures checks that sigs come from distinct members of set and reach its threshold
func verifySignatures(digest []byte, sigs [][]byte, set *SignerSet) error {
	seen := make(map[common.Address]bool, len(sigs))
	for i, sig := range sigs {
		signer, err := recoverSigner(digest, sig)
		if err != nil {
			return fmt.Errorf("%w: signature %d: %v", ErrInvalidSignature, i, err)
		}
		if !set.Contains(signer) {
			return fmt.Errorf("%w: signature %d from unregistered signer %s", ErrInvalidSignature, i, signer.Hex())
		}
		if seen[signer] {
			return fmt.Errorf("%w: duplicate signer %s", ErrInvalidSignature, signer.Hex())
		}
		seen[signer] = true
	}
	if len(seen) < set.Threshold {
		return fmt.Errorf("%w: %d signatures, threshold is %d", ErrInvalidSignature, len(seen), set.Threshold)
	}
	return nil
}
