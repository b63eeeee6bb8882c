package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

// MockLookup returns the address of the mock price feed deployed on the current network
type MockLookup func() (common.Address, error)

// PriceFeedResolver picks the price feed FundMe is constructed with
type PriceFeedResolver struct {
	profiles    domain.NetworkProfiles
	development domain.DevelopmentNetworks
}

// NewPriceFeedResolver creates a resolver over the static profile table
func NewPriceFeedResolver(cfg *config.RuntimeConfig) *PriceFeedResolver {
	return &PriceFeedResolver{
		profiles:    cfg.PriceFeeds,
		development: cfg.DevelopmentNetworks,
	}
}

// Resolve returns the mock address on development networks and the configured
// feed on live ones. The profile table is never read for development networks.
func (r *PriceFeedResolver) Resolve(networkName string, chainID uint64, mockLookup MockLookup) (common.Address, error) {
	if r.development.Contains(networkName) {
		return mockLookup()
	}

	profile, err := r.profiles.Lookup(chainID)
	if err != nil {
		return common.Address{}, err
	}
	return profile.PriceFeedAddress, nil
}

// RegistryMockLookup looks the mock price feed up in the deployment registry.
// A missing mock is a configuration error: the mocks step has to run first.
func RegistryMockLookup(ctx context.Context, repo DeploymentRepository, networkName string) MockLookup {
	return func() (common.Address, error) {
		record, err := repo.Get(ctx, networkName, domain.MockV3AggregatorContract)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return common.Address{}, &domain.ConfigError{
					Key: fmt.Sprintf("deployments.%s.%s", networkName, domain.MockV3AggregatorContract),
					Err: fmt.Errorf("%w (run 'fundme deploy --tags mocks' first)", domain.ErrMockNotDeployed),
				}
			}
			return common.Address{}, fmt.Errorf("failed to look up mock price feed: %w", err)
		}
		return record.Address, nil
	}
}
