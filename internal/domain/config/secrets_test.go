package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/fundme/internal/domain"
)

func TestIsPlaceholder(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"", true},
		{"   ", true},
		{"0xkey", true},
		{"0xKEY", true},
		{"https://example", true},
		{"https://example/", true},
		{"ABCDEF123", false},
		{"https://eth-sepolia.g.alchemy.com/v2/abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsPlaceholder(tt.value))
		})
	}
}

func TestSecretsHasVerifyCredential(t *testing.T) {
	assert.False(t, Secrets{}.HasVerifyCredential())
	assert.False(t, Secrets{EtherscanAPIKey: "0xkey"}.HasVerifyCredential())
	assert.True(t, Secrets{EtherscanAPIKey: "K3Y"}.HasVerifyCredential())
}

func TestSecretsSigningKey(t *testing.T) {
	live := &domain.Network{Name: "rinkeby", ChainID: 4}
	local := &domain.Network{Name: "hardhat", ChainID: 31337}

	t.Run("configured key wins everywhere", func(t *testing.T) {
		key, err := Secrets{PrivateKey: " 0xabc "}.SigningKey(live, false)
		require.NoError(t, err)
		assert.Equal(t, "0xabc", key)
	})

	t.Run("development network falls back to dev key", func(t *testing.T) {
		key, err := Secrets{PrivateKey: "0xkey"}.SigningKey(local, true)
		require.NoError(t, err)
		assert.Equal(t, DevPrivateKey, key)
	})

	t.Run("live network without key fails loudly", func(t *testing.T) {
		_, err := Secrets{}.SigningKey(live, false)
		require.Error(t, err)
		assert.True(t, domain.IsConfigError(err))
		assert.True(t, errors.Is(err, domain.ErrMissingSecret))
		assert.Contains(t, err.Error(), "PRIVATE_KEY")
	})

	t.Run("live network with placeholder key fails loudly", func(t *testing.T) {
		_, err := Secrets{PrivateKey: "0xkey"}.SigningKey(live, false)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInsecureSecret))
	})
}

func TestValidateRPCURL(t *testing.T) {
	assert.NoError(t, ValidateRPCURL(&domain.Network{Name: "hardhat"}, true))
	assert.NoError(t, ValidateRPCURL(&domain.Network{Name: "rinkeby", RPCURL: "https://rpc.example.org"}, false))

	err := ValidateRPCURL(&domain.Network{Name: "rinkeby"}, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMissingSecret))
	assert.Contains(t, err.Error(), "networks.rinkeby.url")

	err = ValidateRPCURL(&domain.Network{Name: "rinkeby", RPCURLEnv: "RINKEBY_RPC_URL"}, false)
	assert.Contains(t, err.Error(), "set RINKEBY_RPC_URL")

	err = ValidateRPCURL(&domain.Network{Name: "rinkeby", RPCURL: "https://example"}, false)
	assert.True(t, errors.Is(err, domain.ErrInsecureSecret))
}
