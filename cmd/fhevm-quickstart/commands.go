package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Optalysys-Ltd/optalysys-testnet/fhevm"
	"github.com/Optalysys-Ltd/optalysys-testnet/internal/config"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newQuickstartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "quickstart",
		Short: "Store one encrypted sum and publicly decrypt it",
		RunE: func(*cobra.Command, []string) error {
			s, err := newSession(config.NetworkDev)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			out, err := fhevm.RunQuickstart(ctx, s)
			return finish(s, out, err)
		},
	}
}

func newBenchmarkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "benchmark",
		Short: "Time repeated encrypted sums; Ctrl-C stops after the current iteration",
		RunE: func(*cobra.Command, []string) error {
			s, err := newSession(config.NetworkBlue)
			if err != nil {
				return err
			}
			stop, cancel := signalContext()
			defer cancel()

			out, report, err := fhevm.RunBenchmark(stop, s, nil)
			if report != nil {
				s.Logger.Info("Benchmark finished",
					zap.Int("requested", report.Requested),
					zap.Int("completed", report.Completed),
					zap.Bool("interrupted", report.Interrupted),
					zap.Duration("elapsed", report.Elapsed))
			}
			return finish(s, out, err)
		},
	}
}

func newAccountCommand() *cobra.Command {
	var keyFile string

	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage key files",
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Generate a key and store it encrypted in a keystore file",
		RunE: func(c *cobra.Command, _ []string) error {
			s, err := newSession(config.NetworkDev)
			if err != nil {
				return err
			}
			_, err = s.CreateAccount(c.Context(), keyFile)
			return finish(s, fhevm.Continue, err)
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the address of a key file",
		RunE: func(*cobra.Command, []string) error {
			s, err := newSession(config.NetworkDev)
			if err != nil {
				return err
			}
			return finish(s, fhevm.Continue, s.ShowKeyFile(keyFile))
		},
	}

	for _, sub := range []*cobra.Command{create, show} {
		sub.Flags().StringVar(&keyFile, "key-file", "", "path of the keystore JSON file")
		_ = sub.MarkFlagRequired("key-file")
	}
	cmd.AddCommand(create, show)
	return cmd
}

func newDeployCommand() *cobra.Command {
	var keyFile, addressFile, network string

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the sum contract and record its address",
		RunE: func(*cobra.Command, []string) error {
			n, err := parseNetwork(network)
			if err != nil {
				return err
			}
			s, err := newSession(n)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			_, err = s.RunDeploy(ctx, keyFile, addressFile)
			if errors.Is(err, context.Canceled) {
				s.Logger.Warn("Deployment cancelled")
			}
			return finish(s, fhevm.Continue, err)
		},
	}

	cmd.Flags().StringVar(&keyFile, "key-file", "", "path of the keystore JSON file")
	cmd.Flags().StringVar(&addressFile, "address-file", "", "file to write the contract address to")
	cmd.Flags().StringVar(&network, "network", string(config.NetworkBlue), "network profile (dev or blue)")
	_ = cmd.MarkFlagRequired("key-file")
	_ = cmd.MarkFlagRequired("address-file")
	return cmd
}
