package fhevm

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/Optalysys-Ltd/optalysys-testnet/internal/model"
	"github.com/Optalysys-Ltd/optalysys-testnet/internal/ui"
)

// askOperand re-asks until the answer is a valid operand
func (s *Session) askOperand(name string) (uint8, error) {
	for {
		answer, err := s.Prompt.Ask(fmt.Sprintf("Pick an integer in the interval (0, %d) for %s: ", MaxOperand, name), nil)
		if err != nil {
			return 0, err
		}
		v, err := ParseOperand(answer)
		if err == nil {
			return v, nil
		}
		fmt.Fprintf(s.Out, "ERROR: Please enter an integer in the range (0, %d)!\n", MaxOperand)
	}
}

// CollectOperands asks for a and b
func (s *Session) CollectOperands(context.Context) (model.Operands, error) {
	s.Logger.Info("Collecting inputs a and b for storeEncryptedSum...")
	a, err := s.askOperand("a")
	if err != nil {
		return model.Operands{}, err
	}
	b, err := s.askOperand("b")
	if err != nil {
		return model.Operands{}, err
	}
	return model.Operands{A: a, B: b}, nil
}

// EncryptAndSubmit encrypts the pair, records the bundle and stores the encrypted
// sum on chain, returning once the transaction is mined.
func (s *Session) EncryptAndSubmit(ctx context.Context, ops model.Operands) (*types.Receipt, error) {
	s.Logger.Info("Encrypting...")
	start := time.Now()

	var in *model.EncryptedInput
	err := ui.Run(s.Out, "Please wait for encryption", func() error {
		var err error
		in, err = s.FHE.EncryptUint8s(ctx, s.Contract.Address(), s.Wallet.Address, ops.A, ops.B)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt input: %w", err)
	}
	s.Logger.Info("Input encrypted")

	if err := WriteEncryptedInput(s.Config.EncryptedInputFile, in); err != nil {
		return nil, err
	}
	s.Logger.Info("Encrypted input and ZK proof written to: " + s.Config.EncryptedInputFile)
	s.Logger.Info("zkProof", zap.Duration("elapsed", time.Since(start)))

	a, err := in.Handle(0)
	if err != nil {
		return nil, err
	}
	b, err := in.Handle(1)
	if err != nil {
		return nil, err
	}

	s.Logger.Info("Calling storeEncryptedSum on contract", zap.String("contract", s.Contract.Address().Hex()))
	tx, err := s.Contract.StoreEncryptedSum(ctx, a, b, in.InputProof)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("Transaction hash: " + tx.Hash().Hex())
	s.Logger.Info("Waiting for transaction to be included in block...")

	var receipt *types.Receipt
	err = ui.Run(s.Out, "Please wait for transaction", func() error {
		var err error
		receipt, err = s.Contract.WaitMined(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("Transaction receipt received", zap.String("block", receipt.BlockNumber.String()))
	return receipt, nil
}

// DecryptAndReport publicly decrypts the stored sum and prints every returned entry
func (s *Session) DecryptAndReport(ctx context.Context) (map[string]string, error) {
	s.Logger.Info("Getting ciphertext handle")
	handle, err := s.Contract.EncryptedSum(ctx)
	if err != nil {
		return nil, err
	}

	s.Logger.Info("Requesting decryption...")
	var result map[string]string
	err = ui.Run(s.Out, "Please wait for decryption", func() error {
		values, err := s.FHE.PublicDecrypt(ctx, handle)
		if err != nil {
			return err
		}
		result = make(map[string]string, len(values))
		for k, v := range values {
			result[k] = v.String()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt result: %w", err)
	}

	keys := make([]string, 0, len(result))
	for k := range result {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s.Logger.Info("Result:")
	for _, k := range keys {
		fmt.Fprintln(s.Out, k, result[k])
	}
	return result, nil
}
