package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// PasswordEnv is the environment variable holding the key-file password
const PasswordEnv = "WALLET_PASSWORD"

// Config contains all configuration parameters for the application.
// Note: the wallet password is not part of it; see PasswordFromEnv and PromptForPassword.
type Config struct {
	KeysDir              string `envconfig:"KEYS_DIR" default:"./keys"`
	ContractAddressesDir string `envconfig:"CONTRACT_ADDRESSES_DIR" default:"./contract_addresses"`
	NetworksDir          string `envconfig:"NETWORKS_DIR" default:"./networks"`
	EncryptedInputFile   string `envconfig:"ENCRYPTED_INPUT_FILE" default:"encrypted_inputs.json"`
	ContractArtifact     string `envconfig:"CONTRACT_ARTIFACT" default:"artifacts/contracts/Simple.sol/Test.json"`
	PackerBin            string `envconfig:"FHE_PACKER_BIN" default:"fhevm-encrypt"`
	RelayerTimeout       int    `envconfig:"RELAYER_TIMEOUT_SECONDS" default:"60"`
	LogLevel             string `envconfig:"LOG_LEVEL" default:"info"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	c, err := Load()
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

// Load reads a fresh Config from the environment without touching the global instance.
func Load() (*Config, error) {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if c.RelayerTimeout <= 0 {
		return nil, errors.New("RELAYER_TIMEOUT_SECONDS must be positive")
	}
	return c, nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// RelayerTimeoutDuration returns the relayer request timeout
func (c *Config) RelayerTimeoutDuration() time.Duration {
	return time.Duration(c.RelayerTimeout) * time.Second
}

// PasswordFromEnv returns WALLET_PASSWORD and whether it is set to a non-empty value
func PasswordFromEnv() (string, bool) {
	p := os.Getenv(PasswordEnv)
	return p, p != ""
}

// CachePassword writes the password into the process environment for the rest of the run.
// Nothing is persisted to disk.
func CachePassword(password string) error {
	if err := os.Setenv(PasswordEnv, password); err != nil {
		return fmt.Errorf("failed to set %s: %w", PasswordEnv, err)
	}
	return nil
}

// PromptForPassword prompts the user for the wallet password on the terminal behind in,
// writing the prompt to out. The password is read without echoing (hidden input).
// Caller must zero the returned slice after use.
func PromptForPassword(in io.Reader, out io.Writer, prompt string) ([]byte, error) {
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil, errors.New("stdin is not a terminal: run interactively or set " + PasswordEnv)
	}
	fmt.Fprint(out, prompt)
	defer fmt.Fprintln(out)

	raw, err := term.ReadPassword(int(f.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("password cannot be empty")
	}

	password := make([]byte, len(raw))
	copy(password, raw)
	clear(raw)
	return password, nil
}
