package fhevm

import (
	"context"

	"github.com/Optalysys-Ltd/optalysys-testnet/internal/config"
)

// RunQuickstart walks through key setup, funding, contract provisioning,
// one encrypted sum and its public decryption.
func RunQuickstart(ctx context.Context, s *Session) (Outcome, error) {
	return runSteps(
		func() (Outcome, error) { return s.ResolveKey(ctx) },
		always(func() error { return s.ResolveSecret(ctx) }),
		always(func() error {
			// the session starts on dev but always runs against blue
			s.Network = config.NetworkBlue
			return nil
		}),
		always(func() error { return s.LoadWallet(ctx) }),
		always(func() error { return s.LoadProfile(ctx) }),
		func() (Outcome, error) { return s.CheckFunding(ctx) },
		always(func() error { return s.ProvisionContract(ctx) }),
		always(func() error { return s.ConnectFHE(ctx) }),
		always(func() error {
			ops, err := s.CollectOperands(ctx)
			if err != nil {
				return err
			}
			_, err = s.EncryptAndSubmit(ctx, ops)
			return err
		}),
		always(func() error {
			_, err := s.DecryptAndReport(ctx)
			return err
		}),
	)
}
