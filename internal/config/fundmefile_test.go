package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/fundme/internal/domain"
)

func TestLoadFileConfig(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, path, err := LoadFileConfig(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, path)
		assert.Equal(t, DefaultNetwork, cfg.DefaultNetwork)
		assert.Equal(t, []string{"hardhat", "localhost"}, cfg.DevelopmentNetworks)
		assert.Equal(t, uint64(6), cfg.Networks["rinkeby"].BlockConfirmations)
		assert.Equal(t, DefaultEthUsdFeed, cfg.PriceFeeds["4"].EthUsdPriceFeed)
	})

	t.Run("partial file keeps default tables", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(`
development_networks = ["anvil"]

[artifacts]
dir = "artifacts"
`), 0644))

		cfg, path, err := LoadFileConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, ConfigFileName), path)
		assert.Equal(t, "artifacts", cfg.Artifacts.Dir)
		assert.Contains(t, cfg.Networks, "anvil")
		assert.Equal(t, DefaultDevRPCURL, cfg.Networks["anvil"].URL)
		assert.Len(t, cfg.PriceFeeds, 2)
		require.NotNil(t, cfg.Mock.Decimals)
		assert.Equal(t, uint8(DefaultMockDecimals), *cfg.Mock.Decimals)
	})

	t.Run("initial answer as integer or string", func(t *testing.T) {
		for raw, want := range map[string]string{
			`initial_answer = 200000000000`:            "200000000000",
			`initial_answer = "3000000000000000000000"`: "3000000000000000000000",
		} {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("[mock]\n"+raw+"\n"), 0644))

			cfg, _, err := LoadFileConfig(dir)
			require.NoError(t, err, raw)
			assert.EqualValues(t, want, cfg.Mock.InitialAnswer)

			mock, err := buildMock(cfg)
			require.NoError(t, err)
			assert.Equal(t, want, mock.InitialAnswer.String())
		}
	})

	t.Run("initial answer as float is rejected", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("[mock]\ninitial_answer = 2.0e11\n"), 0644))

		_, _, err := LoadFileConfig(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected an integer")
	})
}

func TestBuildNetworks(t *testing.T) {
	t.Setenv("POLYGON_RPC_URL", "https://polygon.example.org ")
	t.Setenv("RINKEBY_RPC_URL", "")

	file := DefaultFileConfig()
	networks := buildNetworks(file, domain.NewDevelopmentNetworks(file.DevelopmentNetworks...))

	require.Len(t, networks, 4)
	assert.True(t, networks["hardhat"].Development)
	assert.True(t, networks["localhost"].Development)
	assert.False(t, networks["polygon"].Development)

	assert.Equal(t, "https://polygon.example.org", networks["polygon"].RPCURL)
	assert.Equal(t, "POLYGON_RPC_URL", networks["polygon"].RPCURLEnv)
	assert.Empty(t, networks["rinkeby"].RPCURL)
	assert.Equal(t, uint64(137), networks["polygon"].ChainID)
}

func TestArtifactsDir(t *testing.T) {
	file := DefaultFileConfig()

	t.Run("forge out by default", func(t *testing.T) {
		dir := t.TempDir()
		assert.Equal(t, filepath.Join(dir, "out"), artifactsDir(dir, file))
	})

	t.Run("hardhat artifacts when out is missing", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "artifacts"), 0755))
		assert.Equal(t, filepath.Join(dir, "artifacts"), artifactsDir(dir, file))
	})

	t.Run("out wins when both exist", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "artifacts"), 0755))
		require.NoError(t, os.Mkdir(filepath.Join(dir, "out"), 0755))
		assert.Equal(t, filepath.Join(dir, "out"), artifactsDir(dir, file))
	})

	t.Run("configured dir is used as is", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "artifacts"), 0755))
		configured := DefaultFileConfig()
		configured.Artifacts.Dir = "build/contracts"
		assert.Equal(t, filepath.Join(dir, "build/contracts"), artifactsDir(dir, configured))
	})
}
