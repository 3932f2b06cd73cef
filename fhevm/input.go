package fhevm

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Optalysys-Ltd/optalysys-testnet/internal/model"
)

// MaxOperand is the largest accepted operand
const MaxOperand = 127

// MaxIterations bounds a benchmark run
const MaxIterations = 100

// ParseOperand accepts an integer in [0, MaxOperand]
func ParseOperand(raw string) (uint8, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", raw)
	}
	if n < 0 || n > MaxOperand {
		return 0, fmt.Errorf("%d is outside [0, %d]", n, MaxOperand)
	}
	return uint8(n), nil
}

// ParseIterations accepts an integer in [1, MaxIterations]
func ParseIterations(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", raw)
	}
	if n < 1 || n > MaxIterations {
		return 0, fmt.Errorf("%d is outside [1, %d]", n, MaxIterations)
	}
	return n, nil
}

// WriteEncryptedInput overwrites path with the bundle
func WriteEncryptedInput(path string, in *model.EncryptedInput) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal encrypted input: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write encrypted input: %w", err)
	}
	return nil
}

// ReadEncryptedInput loads a bundle written by WriteEncryptedInput
func ReadEncryptedInput(path string) (*model.EncryptedInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read encrypted input: %w", err)
	}
	var in model.EncryptedInput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to unmarshal encrypted input: %w", err)
	}
	return &in, nil
}
