package model

import (
	"fmt"
	"net/url"

	"github.com/ethereum/go-ethereum/common"
)

// NetworkProfile is the connection and contract-address bundle for one target network
type NetworkProfile struct {
	Name                             string `json:"-"`
	JSONRPCURL                       string `json:"jsonRpcUrl"`
	DecryptionContractAddress        string `json:"decryptionContractAddress"`
	InputVerificationContractAddress string `json:"inputVerificationContractAddress"`
	InputVerifierContractAddress     string `json:"inputVerifierContractAddress"`
	KMSVerifierContractAddress       string `json:"kmsVerifierContractAddress"`
	ACLContractAddress               string `json:"aclContractAddress"`
	GatewayChainID                   uint64 `json:"gatewayChainId"`
	RelayerURL                       string `json:"relayerUrl"`
}

// Validate checks that URLs parse and every contract address is a hex address.
func (p *NetworkProfile) Validate() error {
	for name, raw := range map[string]string{
		"jsonRpcUrl": p.JSONRPCURL,
		"relayerUrl": p.RelayerURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}

	if p.GatewayChainID == 0 {
		return fmt.Errorf("gatewayChainId is required")
	}

	for name, addr := range map[string]string{
		"decryptionContractAddress":        p.DecryptionContractAddress,
		"inputVerificationContractAddress": p.InputVerificationContractAddress,
		"inputVerifierContractAddress":     p.InputVerifierContractAddress,
		"kmsVerifierContractAddress":       p.KMSVerifierContractAddress,
		"aclContractAddress":               p.ACLContractAddress,
	} {
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("%s is not a valid address: %q", name, addr)
		}
	}
	return nil
}

// ACL returns the ACL contract address
func (p *NetworkProfile) ACL() common.Address {
	return common.HexToAddress(p.ACLContractAddress)
}

// InputVerification is the gateway contract named in the coprocessors' EIP-712 domain
func (p *NetworkProfile) InputVerification() common.Address {
	return common.HexToAddress(p.InputVerificationContractAddress)
}

// Decryption is the gateway contract named in the KMS EIP-712 domain
func (p *NetworkProfile) Decryption() common.Address {
	return common.HexToAddress(p.DecryptionContractAddress)
}

// InputVerifier is the host contract listing the coprocessor signers
func (p *NetworkProfile) InputVerifier() common.Address {
	return common.HexToAddress(p.InputVerifierContractAddress)
}

// KMSVerifier is the host contract listing the KMS signers
func (p *NetworkProfile) KMSVerifier() common.Address {
	return common.HexToAddress(p.KMSVerifierContractAddress)
}
