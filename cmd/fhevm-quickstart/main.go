package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// errHalted marks a deliberate stop that has already been reported
var errHalted = errors.New("halted")

var rootCmd = &cobra.Command{
	Use:           "fhevm-quickstart",
	Short:         "Encrypted sum walkthrough and benchmark for an fhEVM testnet",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		// .env is optional
		_ = godotenv.Load()
		return nil
	},
}

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.AddCommand(
		newQuickstartCommand(),
		newBenchmarkCommand(),
		newAccountCommand(),
		newDeployCommand(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errHalted) {
			fmt.Fprintf(os.Stderr, "fhevm-quickstart failed: %v\n", err)
		}
		os.Exit(1)
	}
}
