package fhe

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

const verifierABI = `[
	{
		"inputs": [],
		"name": "getCoprocessorSigners",
		"outputs": [{"internalType": "address[]", "name": "", "type": "address[]"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "getKmsSigners",
		"outputs": [{"internalType": "address[]", "name": "", "type": "address[]"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "getThreshold",
		"outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	}
]`

// SignerSet is the registered signer list of a verifier contract and how many of them must sign
type SignerSet struct {
	Signers   []common.Address
	Threshold int
}

// Contains reports whether addr is a registered signer
func (s *SignerSet) Contains(addr common.Address) bool {
	for _, a := range s.Signers {
		if a == addr {
			return true
		}
	}
	return false
}

// SignerSource provides the signer sets the relayer's signatures are checked against
type SignerSource interface {
	CoprocessorSigners(ctx context.Context) (*SignerSet, error)
	KMSSigners(ctx context.Context) (*SignerSet, error)
}

// Verifiers reads signer sets from the host InputVerifier and KMSVerifier contracts
type Verifiers struct {
	input *bind.BoundContract
	kms   *bind.BoundContract
}

// NewVerifiers binds both verifier contracts for read-only calls
func NewVerifiers(inputVerifier, kmsVerifier common.Address, caller bind.ContractCaller) (*Verifiers, error) {
	parsed, err := abi.JSON(strings.NewReader(verifierABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse verifier ABI: %w", err)
	}
	return &Verifiers{
		input: bind.NewBoundContract(inputVerifier, parsed, caller, nil, nil),
		kms:   bind.NewBoundContract(kmsVerifier, parsed, caller, nil, nil),
	}, nil
}

// CoprocessorSigners returns the signers allowed to attest input proofs
func (v *Verifiers) CoprocessorSigners(ctx context.Context) (*SignerSet, error) {
	return readSignerSet(ctx, v.input, "getCoprocessorSigners")
}

// KMSSigners returns the signers allowed to attest public decryptions
func (v *Verifiers) KMSSigners(ctx context.Context) (*SignerSet, error) {
	return readSignerSet(ctx, v.kms, "getKmsSigners")
}

func readSignerSet(ctx context.Context, contract *bind.BoundContract, method string) (*SignerSet, error) {
	opts := &bind.CallOpts{Context: ctx}

	var out []interface{}
	if err := contract.Call(opts, &out, method); err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", method, err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("unexpected %s result length %d", method, len(out))
	}
	signers := *abi.ConvertType(out[0], new([]common.Address)).(*[]common.Address)

	out = nil
	if err := contract.Call(opts, &out, "getThreshold"); err != nil {
		return nil, fmt.Errorf("failed to call getThreshold: %w", err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("unexpected getThreshold result length %d", len(out))
	}
	threshold, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected getThreshold result type %T", out[0])
	}
	if !threshold.IsInt64() || threshold.Sign() <= 0 || threshold.Int64() > int64(len(signers)) {
		return nil, fmt.Errorf("%s: threshold %s is out of range for %d signers", method, threshold, len(signers))
	}

	return &SignerSet{Signers: signers, Threshold: int(threshold.Int64())}, nil
}
