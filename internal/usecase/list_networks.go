package usecase

import (
	"context"
	"errors"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct{}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
	Current  string
}

// NetworkStatus represents a configured network and the price feed it deploys against
type NetworkStatus struct {
	Name          string
	ChainID       uint64
	Development   bool
	Confirmations uint64
	// PriceFeed is nil when no feed is known: a live chain without profile or
	// a development network without mock
	PriceFeed *common.Address
	Error     error
}

// ListNetworks is a use case for listing available networks
type ListNetworks struct {
	cfg  *config.RuntimeConfig
	repo DeploymentRepository
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(cfg *config.RuntimeConfig, repo DeploymentRepository) *ListNetworks {
	return &ListNetworks{
		cfg:  cfg,
		repo: repo,
	}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	resolver := NewPriceFeedResolver(uc.cfg)

	networks := make([]NetworkStatus, 0, len(uc.cfg.Networks))
	for _, network := range uc.cfg.Networks {
		status := NetworkStatus{
			Name:          network.Name,
			ChainID:       network.ChainID,
			Development:   uc.cfg.DevelopmentNetworks.Contains(network.Name),
			Confirmations: network.Confirmations(),
		}

		feed, err := resolver.Resolve(network.Name, network.ChainID, RegistryMockLookup(ctx, uc.repo, network.Name))
		switch {
		case err == nil:
			status.PriceFeed = &feed
		case errors.Is(err, domain.ErrMockNotDeployed), errors.Is(err, domain.ErrMissingPriceFeed):
			// Reported as a missing feed, not as a listing error
		default:
			status.Error = err
		}

		networks = append(networks, status)
	}

	sortNetworkStatuses(networks)

	current := ""
	if uc.cfg.Network != nil {
		current = uc.cfg.Network.Name
	}
	return &ListNetworksResult{Networks: networks, Current: current}, nil
}

func sortNetworkStatuses(networks []NetworkStatus) {
	// Development networks first, then by chain ID and name
	sort.Slice(networks, func(i, j int) bool {
		a, b := networks[i], networks[j]
		if a.Development != b.Development {
			return a.Development
		}
		if a.ChainID != b.ChainID {
			return a.ChainID < b.ChainID
		}
		return a.Name < b.Name
	})
}
