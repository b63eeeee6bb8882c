package config

import (
	"math/big"
	"time"

	"github.com/trebuchet-org/fundme/internal/domain"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	ConfigFile  string // empty when running on built-in defaults

	// Context settings
	Network *domain.Network // selected network (flag, env or default_network)

	// Static tables, read-only after load
	Networks            map[string]*domain.Network
	PriceFeeds          domain.NetworkProfiles
	DevelopmentNetworks domain.DevelopmentNetworks
	Mock                MockConfig

	// Paths
	ArtifactsDir   string
	DeploymentsDir string

	// Secrets read from the environment and .env files
	Secrets Secrets

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool
	Yes            bool
	Timeout        time.Duration
}

// MockConfig seeds the mock price feed deployed on development networks
type MockConfig struct {
	Decimals      uint8
	InitialAnswer *big.Int
}

// IsDevelopment reports whether the selected network is a development network
func (c *RuntimeConfig) IsDevelopment() bool {
	return c.Network != nil && c.DevelopmentNetworks.Contains(c.Network.Name)
}
