package fhe

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// PackRequest describes one compact ciphertext list to build.
// The packer fetches the network public key and CRS from RelayerURL itself.
type PackRequest struct {
	Values             []PackValue `json:"values"`
	ContractAddress    string      `json:"contractAddress"`
	UserAddress        string      `json:"userAddress"`
	ACLContractAddress string      `json:"aclContractAddress"`
	ChainID            string      `json:"chainId"`
	RelayerURL         string      `json:"relayerUrl"`
}

// PackValue is one plaintext with its bit width; Value is a decimal string
type PackValue struct {
	Bits  int    `json:"bits"`
	Value string `json:"value"`
}

// Packer turns plaintexts into a ciphertext list carrying its zero-knowledge proof of knowledge
type Packer interface {
	Pack(ctx context.Context, req *PackRequest) ([]byte, error)
}

// ExecPacker runs an external encryption tool: request JSON on stdin,
// {"ciphertext":"<hex>"} on stdout.
type ExecPacker struct {
	Bin  string
	Args []string
}

// Pack implements Packer
func (p *ExecPacker) Pack(ctx context.Context, req *PackRequest) ([]byte, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pack request: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.Bin, p.Args...)
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("packer %s failed: %w", p.Bin, err)
		}
		return nil, fmt.Errorf("packer %s failed: %w: %s", p.Bin, err, msg)
	}

	var resp struct {
		Ciphertext string `json:"ciphertext"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("failed to decode packer output: %w", err)
	}

	ciphertext, err := decodeHex(resp.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}
	if len(ciphertext) == 0 {
		return nil, errors.New("packer returned an empty ciphertext")
	}
	return ciphertext, nil
}

// decodeHex accepts hex with or without a 0x prefix
func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return hex.DecodeString(s)
}
