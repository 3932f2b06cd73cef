package fhe

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

const aclABI = `[
	{
		"inputs": [{"internalType": "bytes32", "name": "handle", "type": "bytes32"}],
		"name": "isAllowedForDecryption",
		"outputs": [{"internalType": "bool", "name": "", "type": "bool"}],
		"stateMutability": "view",
		"type": "function"
	}
]`

// ACL reads decryption permissions from the network's ACL contract
type ACL struct {
	contract *bind.BoundContract
}

// NewACL binds the ACL contract at address for read-only calls
func NewACL(address common.Address, caller bind.ContractCaller) (*ACL, error) {
	parsed, err := abi.JSON(strings.NewReader(aclABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ACL ABI: %w", err)
	}
	return &ACL{contract: bind.NewBoundContract(address, parsed, caller, nil, nil)}, nil
}

// IsAllowedForDecryption reports whether handle was marked publicly decryptable
func (a *ACL) IsAllowedForDecryption(ctx context.Context, handle [32]byte) (bool, error) {
	var out []interface{}
	if err := a.contract.Call(&bind.CallOpts{Context: ctx}, &out, "isAllowedForDecryption", handle); err != nil {
		return false, fmt.Errorf("failed to call isAllowedForDecryption: %w", err)
	}
	if len(out) != 1 {
		return false, fmt.Errorf("unexpected isAllowedForDecryption result length %d", len(out))
	}
	allowed, ok := out[0].(bool)
	if !ok {
		return false, fmt.Errorf("unexpected isAllowedForDecryption result type %T", out[0])
	}
	return allowed, nil
}
