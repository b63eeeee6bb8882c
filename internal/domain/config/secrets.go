package config

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/fundme/internal/domain"
)

// Environment variables holding secrets
const (
	EnvPrivateKey            = "PRIVATE_KEY"
	EnvEtherscanAPIKey       = "ETHERSCAN_API_KEY"
	EnvLegacyEtherscanAPIKey = "ETHER_SCAN_API_KEY"
)

// DevPrivateKey is the first account of the default anvil/hardhat mnemonic.
// It is only ever used against development networks.
const DevPrivateKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80" //nolint:gosec // public test key

// placeholders are values that stand in for a secret in example configs
var placeholders = []string{"0xkey", "https://example", "http://example", "changeme", "your-api-key"}

// Secrets holds credentials read from the environment
type Secrets struct {
	PrivateKey      string `json:"-"`
	EtherscanAPIKey string `json:"-"`
}

// IsPlaceholder reports whether v is empty or a known placeholder value
func IsPlaceholder(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return true
	}
	return lo.Contains(placeholders, strings.TrimSuffix(v, "/"))
}

// HasVerifyCredential reports whether a usable verification API key is configured.
// A missing key disables verification; it is never an error.
func (s Secrets) HasVerifyCredential() bool {
	return !IsPlaceholder(s.EtherscanAPIKey)
}

// SigningKey returns the private key to sign with on network. Development
// networks fall back to DevPrivateKey; live networks fail loudly.
func (s Secrets) SigningKey(network *domain.Network, development bool) (string, error) {
	if !IsPlaceholder(s.PrivateKey) {
		return strings.TrimSpace(s.PrivateKey), nil
	}
	if development {
		return DevPrivateKey, nil
	}
	if strings.TrimSpace(s.PrivateKey) == "" {
		return "", &domain.ConfigError{Key: EnvPrivateKey, Err: fmt.Errorf("%w for network %s", domain.ErrMissingSecret, network.Name)}
	}
	return "", &domain.ConfigError{Key: EnvPrivateKey, Err: fmt.Errorf("%w (network %s)", domain.ErrInsecureSecret, network.Name)}
}

// ValidateRPCURL rejects unset or placeholder RPC URLs for live networks
func ValidateRPCURL(network *domain.Network, development bool) error {
	if development {
		return nil
	}
	key := fmt.Sprintf("networks.%s.url", network.Name)
	if strings.TrimSpace(network.RPCURL) == "" {
		if network.RPCURLEnv != "" {
			return &domain.ConfigError{Key: key, Err: fmt.Errorf("%w (set %s)", domain.ErrMissingSecret, network.RPCURLEnv)}
		}
		return &domain.ConfigError{Key: key, Err: domain.ErrMissingSecret}
	}
	if IsPlaceholder(network.RPCURL) {
		return &domain.ConfigError{Key: key, Err: domain.ErrInsecureSecret}
	}
	return nil
}
