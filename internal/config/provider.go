package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

// ErrProjectRootNotFound is returned when no fundme.toml exists above the working directory
var ErrProjectRootNotFound = errors.New("not in a fundme project (" + ConfigFileName + " not found)")

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			// No fundme.toml: run from the working directory on defaults
			if projectRoot, err = os.Getwd(); err != nil {
				return nil, fmt.Errorf("failed to determine working directory: %w", err)
			}
		}
	}

	// Load .env files first for variable expansion
	LoadEnvFiles(projectRoot)

	file, path, err := LoadFileConfig(projectRoot)
	if err != nil {
		return nil, err
	}

	dev := domain.NewDevelopmentNetworks(file.DevelopmentNetworks...)
	priceFeeds, err := buildPriceFeeds(file)
	if err != nil {
		return nil, err
	}
	mock, err := buildMock(file)
	if err != nil {
		return nil, err
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:         projectRoot,
		ConfigFile:          path,
		Networks:            buildNetworks(file, dev),
		PriceFeeds:          priceFeeds,
		DevelopmentNetworks: dev,
		Mock:                mock,
		ArtifactsDir:        artifactsDir(projectRoot, file),
		DeploymentsDir:      resolvePath(projectRoot, file.DeploymentsDir),
		Secrets:             SecretsFromEnv(os.Getenv),
		Debug:               v.GetBool("debug"),
		NonInteractive:      v.GetBool("non_interactive"),
		JSON:                v.GetBool("json"),
		Yes:                 v.GetBool("yes"),
		Timeout:             v.GetDuration("timeout"),
	}

	networkName := v.GetString("network")
	if networkName == "" {
		networkName = file.DefaultNetwork
	}
	network, err := SelectNetwork(cfg.Networks, networkName)
	if err != nil {
		return nil, err
	}
	cfg.Network = network

	return cfg, nil
}

// SecretsFromEnv reads credentials through getenv
func SecretsFromEnv(getenv func(string) string) config.Secrets {
	apiKey := getenv(config.EnvEtherscanAPIKey)
	if apiKey == "" {
		apiKey = getenv(config.EnvLegacyEtherscanAPIKey)
	}
	return config.Secrets{
		PrivateKey:      getenv(config.EnvPrivateKey),
		EtherscanAPIKey: apiKey,
	}
}

// FindProjectRoot walks up from current directory to find fundme.toml
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, ConfigFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrProjectRootNotFound
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up environment variables
	v.SetEnvPrefix("FUNDME")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("timeout", "0s")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("json", false)
	v.SetDefault("yes", false)
	v.SetDefault("project_root", projectRoot)

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if err := v.BindPFlag(key, f); err != nil {
				panic(err)
			}
		})
	}

	return v
}

func resolvePath(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
