package config

import "fmt"

// FundMeFileConfig represents the fundme.toml configuration file
type FundMeFileConfig struct {
	DefaultNetwork      string                     `toml:"default_network,omitempty"`
	DevelopmentNetworks []string                   `toml:"development_networks,omitempty"`
	DeploymentsDir      string                     `toml:"deployments_dir,omitempty"`
	Networks            map[string]NetworkConfig   `toml:"networks"`
	PriceFeeds          map[string]PriceFeedConfig `toml:"price_feeds"` // keyed by chain ID
	Mock                MockFileConfig             `toml:"mock"`
	Artifacts           ArtifactsConfig            `toml:"artifacts"`
}

// NetworkConfig represents a [networks.<name>] section
type NetworkConfig struct {
	URL                string `toml:"url"`
	ChainID            uint64 `toml:"chain_id"`
	BlockConfirmations uint64 `toml:"block_confirmations,omitempty"`
	VerifyURL          string `toml:"verify_url,omitempty"`   // Etherscan-compatible API endpoint
	ExplorerURL        string `toml:"explorer_url,omitempty"` // human-facing explorer
}

// PriceFeedConfig represents a [price_feeds.<chainId>] section
type PriceFeedConfig struct {
	Name            string `toml:"name"`
	EthUsdPriceFeed string `toml:"eth_usd_price_feed"`
}

// MockFileConfig represents the [mock] section
type MockFileConfig struct {
	Decimals      *uint8 `toml:"decimals,omitempty"`
	InitialAnswer IntegerString `toml:"initial_answer,omitempty"`
}

// IntegerString holds a decimal integer written either as a TOML integer or,
// for values beyond int64, as a quoted string
type IntegerString string

// UnmarshalTOML accepts integer and string values
func (s *IntegerString) UnmarshalTOML(value any) error {
	switch v := value.(type) {
	case int64:
		*s = IntegerString(fmt.Sprintf("%d", v))
	case string:
		*s = IntegerString(v)
	default:
		return fmt.Errorf("expected an integer or a quoted integer, got %T", value)
	}
	return nil
}

// ArtifactsConfig represents the [artifacts] section
type ArtifactsConfig struct {
	Dir string `toml:"dir,omitempty"`
}
