package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Optalysys-Ltd/optalysys-testnet/internal/model"
)

// Network names a profile file under NetworksDir
type Network string

const (
	NetworkDev  Network = "dev"
	NetworkBlue Network = "blue"
)

// ProfilePath returns the JSON file backing a network profile
func (c *Config) ProfilePath(n Network) string {
	return filepath.Join(c.NetworksDir, string(n)+".json")
}

// LoadNetworkProfile reads and validates a network profile file
func (c *Config) LoadNetworkProfile(n Network) (*model.NetworkProfile, error) {
	return LoadNetworkProfileFile(c.ProfilePath(n))
}

// LoadNetworkProfileFile reads and validates the profile stored at path
func LoadNetworkProfileFile(path string) (*model.NetworkProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read network profile: %w", err)
	}

	var profile model.NetworkProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal network profile %s: %w", path, err)
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid network profile %s: %w", path, err)
	}

	profile.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &profile, nil
}
