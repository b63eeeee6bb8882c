package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
)

// DefaultConfirmations is used when a network does not configure block confirmations
const DefaultConfirmations uint64 = 1

// Network is a named deployment target
type Network struct {
	Name               string `json:"name" yaml:"name"`
	ChainID            uint64 `json:"chainId" yaml:"chainId"`
	RPCURL             string `json:"rpcUrl" yaml:"rpcUrl"`
	RPCURLEnv          string `json:"-" yaml:"-"` // env var the URL was read from, if any
	BlockConfirmations uint64 `json:"blockConfirmations,omitempty" yaml:"blockConfirmations,omitempty"`
	VerifyURL          string `json:"verifyUrl,omitempty" yaml:"verifyUrl,omitempty"`
	ExplorerURL        string `json:"explorerUrl,omitempty" yaml:"explorerUrl,omitempty"`
	Development        bool   `json:"development" yaml:"development"`
}

// Confirmations returns how many blocks a deployment on this network waits for
func (n *Network) Confirmations() uint64 {
	if n.BlockConfirmations == 0 {
		return DefaultConfirmations
	}
	return n.BlockConfirmations
}

// PriceFeedProfile is the static configuration of a live chain
type PriceFeedProfile struct {
	DisplayName      string         `json:"name" yaml:"name"`
	PriceFeedAddress common.Address `json:"ethUsdPriceFeed" yaml:"ethUsdPriceFeed"`
}

// NetworkProfiles maps chain IDs to their price feed profile. It is built once
// at startup and never mutated.
type NetworkProfiles struct {
	byChain map[uint64]PriceFeedProfile
}

// NewNetworkProfiles copies the given table into an immutable profile set
func NewNetworkProfiles(profiles map[uint64]PriceFeedProfile) NetworkProfiles {
	return NetworkProfiles{byChain: lo.Assign(profiles)}
}

// Lookup returns the profile for chainID or a *ConfigError naming the missing chain
func (p NetworkProfiles) Lookup(chainID uint64) (PriceFeedProfile, error) {
	profile, ok := p.byChain[chainID]
	if !ok {
		return PriceFeedProfile{}, &ConfigError{
			Key: fmt.Sprintf("price_feeds.%d", chainID),
			Err: ErrMissingPriceFeed,
		}
	}
	return profile, nil
}

// ChainIDs returns the configured chain IDs in ascending order
func (p NetworkProfiles) ChainIDs() []uint64 {
	ids := lo.Keys(p.byChain)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of configured chains
func (p NetworkProfiles) Len() int {
	return len(p.byChain)
}

// DevelopmentNetworks is the set of network names treated as local and ephemeral
type DevelopmentNetworks struct {
	names []string
}

// NewDevelopmentNetworks builds a set from names, ignoring blanks and duplicates
func NewDevelopmentNetworks(names ...string) DevelopmentNetworks {
	cleaned := lo.Uniq(lo.FilterMap(names, func(name string, _ int) (string, bool) {
		name = strings.TrimSpace(name)
		return name, name != ""
	}))
	return DevelopmentNetworks{names: cleaned}
}

// Contains reports whether networkName is a development network
func (d DevelopmentNetworks) Contains(networkName string) bool {
	return lo.Contains(d.names, networkName)
}

// Names returns a copy of the set's members
func (d DevelopmentNetworks) Names() []string {
	return append([]string(nil), d.names...)
}
