package config

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

// ConfigFileName is the project configuration file looked up from the working directory
const ConfigFileName = "fundme.toml"

// Defaults mirroring the original helper configuration
const (
	DefaultNetwork        = "hardhat"
	DefaultDevRPCURL      = "http://127.0.0.1:8545"
	DefaultDevChainID     = 31337
	DefaultMockDecimals   = 8
	DefaultArtifactsDir   = "out"
	HardhatArtifactsDir   = "artifacts"
	DefaultDeploymentsDir = "deployments"
	DefaultEthUsdFeed     = "0x8A753747A1Fa494EC906cE90E9f37563A8AF630e"
)

// DefaultInitialAnswer is 2000 USD at 8 decimals
var DefaultInitialAnswer = new(big.Int).Mul(big.NewInt(2000), big.NewInt(100_000_000))

// DefaultFileConfig returns the configuration used when no fundme.toml exists
func DefaultFileConfig() *config.FundMeFileConfig {
	decimals := uint8(DefaultMockDecimals)
	return &config.FundMeFileConfig{
		DefaultNetwork:      DefaultNetwork,
		DevelopmentNetworks: []string{"hardhat", "localhost"},
		DeploymentsDir:      DefaultDeploymentsDir,
		Networks: map[string]config.NetworkConfig{
			"hardhat":   {URL: DefaultDevRPCURL, ChainID: DefaultDevChainID},
			"localhost": {URL: DefaultDevRPCURL, ChainID: DefaultDevChainID},
			"rinkeby":   {URL: "${RINKEBY_RPC_URL}", ChainID: 4, BlockConfirmations: 6},
			"polygon":   {URL: "${POLYGON_RPC_URL}", ChainID: 137, BlockConfirmations: 6},
		},
		PriceFeeds: map[string]config.PriceFeedConfig{
			"4":   {Name: "rinkeby", EthUsdPriceFeed: DefaultEthUsdFeed},
			"137": {Name: "polygon", EthUsdPriceFeed: DefaultEthUsdFeed},
		},
		Mock: config.MockFileConfig{
			Decimals:      &decimals,
			InitialAnswer: config.IntegerString(DefaultInitialAnswer.String()),
		},
	}
}

// LoadEnvFiles loads .env and .env.local from the project root into the process
// environment. Variables already set in the environment take precedence.
func LoadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// LoadFileConfig reads fundme.toml from projectRoot. A missing file yields the
// defaults and an empty path.
func LoadFileConfig(projectRoot string) (*config.FundMeFileConfig, string, error) {
	path := filepath.Join(projectRoot, ConfigFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultFileConfig(), "", nil
	}

	var cfg config.FundMeFileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse %s: %w", ConfigFileName, err)
	}

	applyFileDefaults(&cfg)
	return &cfg, path, nil
}

// applyFileDefaults fills the gaps a partial fundme.toml leaves
func applyFileDefaults(cfg *config.FundMeFileConfig) {
	defaults := DefaultFileConfig()
	if cfg.DefaultNetwork == "" {
		cfg.DefaultNetwork = defaults.DefaultNetwork
	}
	if cfg.DevelopmentNetworks == nil {
		cfg.DevelopmentNetworks = defaults.DevelopmentNetworks
	}
	if cfg.DeploymentsDir == "" {
		cfg.DeploymentsDir = defaults.DeploymentsDir
	}
	if cfg.Networks == nil {
		cfg.Networks = map[string]config.NetworkConfig{}
	}
	// Development networks always resolve to a local node unless overridden
	for _, name := range cfg.DevelopmentNetworks {
		if _, ok := cfg.Networks[name]; !ok {
			cfg.Networks[name] = config.NetworkConfig{URL: DefaultDevRPCURL, ChainID: DefaultDevChainID}
		}
	}
	if cfg.PriceFeeds == nil {
		cfg.PriceFeeds = defaults.PriceFeeds
	}
	if cfg.Mock.Decimals == nil {
		cfg.Mock.Decimals = defaults.Mock.Decimals
	}
	if cfg.Mock.InitialAnswer == "" {
		cfg.Mock.InitialAnswer = defaults.Mock.InitialAnswer
	}
}

// artifactsDir returns the configured directory. Without one it is the forge
// out/ tree, unless only a hardhat artifacts/ tree exists.
func artifactsDir(projectRoot string, file *config.FundMeFileConfig) string {
	if file.Artifacts.Dir != "" {
		return resolvePath(projectRoot, file.Artifacts.Dir)
	}
	forge := filepath.Join(projectRoot, DefaultArtifactsDir)
	hardhat := filepath.Join(projectRoot, HardhatArtifactsDir)
	if !isDir(forge) && isDir(hardhat) {
		return hardhat
	}
	return forge
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// buildNetworks expands env references and marks development networks
func buildNetworks(file *config.FundMeFileConfig, dev domain.DevelopmentNetworks) map[string]*domain.Network {
	networks := make(map[string]*domain.Network, len(file.Networks))
	for name, nc := range file.Networks {
		raw := rawRPCURL(name, nc.URL, dev.Contains(name))
		envVar, _ := DetectEnvVar(strings.TrimSpace(raw))
		networks[name] = &domain.Network{
			Name:               name,
			ChainID:            nc.ChainID,
			RPCURL:             strings.TrimSpace(os.ExpandEnv(raw)),
			RPCURLEnv:          envVar,
			BlockConfirmations: nc.BlockConfirmations,
			VerifyURL:          os.ExpandEnv(nc.VerifyURL),
			ExplorerURL:        nc.ExplorerURL,
			Development:        dev.Contains(name),
		}
	}
	return networks
}

// buildPriceFeeds validates [price_feeds.*] into the static profile table
func buildPriceFeeds(file *config.FundMeFileConfig) (domain.NetworkProfiles, error) {
	profiles := make(map[uint64]domain.PriceFeedProfile, len(file.PriceFeeds))
	for key, pf := range file.PriceFeeds {
		chainID, err := strconv.ParseUint(strings.TrimSpace(key), 10, 64)
		if err != nil {
			return domain.NetworkProfiles{}, &domain.ConfigError{
				Key: "price_feeds." + key,
				Err: fmt.Errorf("%w: section key must be a chain ID", domain.ErrInvalidChainID),
			}
		}
		if !common.IsHexAddress(pf.EthUsdPriceFeed) {
			return domain.NetworkProfiles{}, &domain.ConfigError{
				Key: fmt.Sprintf("price_feeds.%d.eth_usd_price_feed", chainID),
				Err: fmt.Errorf("%w: %q", domain.ErrInvalidAddress, pf.EthUsdPriceFeed),
			}
		}
		profiles[chainID] = domain.PriceFeedProfile{
			DisplayName:      pf.Name,
			PriceFeedAddress: common.HexToAddress(pf.EthUsdPriceFeed),
		}
	}
	return domain.NewNetworkProfiles(profiles), nil
}

// buildMock parses the [mock] section
func buildMock(file *config.FundMeFileConfig) (config.MockConfig, error) {
	answer, ok := new(big.Int).SetString(strings.TrimSpace(string(file.Mock.InitialAnswer)), 10)
	if !ok {
		return config.MockConfig{}, &domain.ConfigError{
			Key: "mock.initial_answer",
			Err: fmt.Errorf("not a decimal integer: %q", file.Mock.InitialAnswer),
		}
	}
	return config.MockConfig{Decimals: *file.Mock.Decimals, InitialAnswer: answer}, nil
}
