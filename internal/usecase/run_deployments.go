package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

// Deploy tags
const (
	TagAll    = "all"
	TagMocks  = "mocks"
	TagFundMe = "fundme"
)

// KnownTags lists the accepted deploy tags
var KnownTags = []string{TagAll, TagMocks, TagFundMe}

// RunDeploymentsParams contains the options of a deploy run
type RunDeploymentsParams struct {
	Tags  []string // empty means all
	Reset bool     // drop the network's registry first
}

// RunDeploymentsResult contains the records produced by a deploy run
type RunDeploymentsResult struct {
	Network *domain.Network
	Mock    *domain.DeploymentRecord
	FundMe  *domain.DeploymentRecord
}

// RunDeployments runs the mocks and fundme steps in order on the selected network
type RunDeployments struct {
	cfg          *config.RuntimeConfig
	accounts     AccountResolver
	repo         DeploymentRepository
	deployMocks  *DeployMocks
	deployFundMe *DeployFundMe
	log          *slog.Logger
}

// NewRunDeployments creates a new deploy run use case
func NewRunDeployments(
	cfg *config.RuntimeConfig,
	accounts AccountResolver,
	repo DeploymentRepository,
	deployMocks *DeployMocks,
	deployFundMe *DeployFundMe,
	log *slog.Logger,
) *RunDeployments {
	return &RunDeployments{
		cfg:          cfg,
		accounts:     accounts,
		repo:         repo,
		deployMocks:  deployMocks,
		deployFundMe: deployFundMe,
		log:          log,
	}
}

// Run validates the network secrets and executes the tagged steps
func (uc *RunDeployments) Run(ctx context.Context, params RunDeploymentsParams) (*RunDeploymentsResult, error) {
	tags, err := normalizeTags(params.Tags)
	if err != nil {
		return nil, err
	}

	network := uc.cfg.Network
	if network == nil {
		return nil, &domain.ConfigError{Key: "network", Err: domain.ErrUnknownNetwork}
	}
	if err := config.ValidateRPCURL(network, uc.cfg.IsDevelopment()); err != nil {
		return nil, err
	}

	deployer, err := uc.accounts.Deployer(ctx, network)
	if err != nil {
		return nil, err
	}

	if params.Reset {
		uc.log.Info("resetting deployments", "network", network.Name)
		if err := uc.repo.Reset(ctx, network.Name); err != nil {
			return nil, fmt.Errorf("failed to reset deployments: %w", err)
		}
	}

	result := &RunDeploymentsResult{Network: network}

	if hasTag(tags, TagMocks) {
		if result.Mock, err = uc.deployMocks.Run(ctx, network, deployer); err != nil {
			return nil, err
		}
	}

	if hasTag(tags, TagFundMe) {
		result.FundMe, err = uc.deployFundMe.DeployAndMaybeVerify(ctx, DeployFundMeParams{
			Network:  network,
			Deployer: deployer,
			APIKey:   uc.cfg.Secrets.EtherscanAPIKey,
		})
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

func normalizeTags(tags []string) ([]string, error) {
	normalized := lo.Uniq(lo.FilterMap(tags, func(tag string, _ int) (string, bool) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		return tag, tag != ""
	}))
	if len(normalized) == 0 {
		return []string{TagAll}, nil
	}
	for _, tag := range normalized {
		if !lo.Contains(KnownTags, tag) {
			return nil, fmt.Errorf("unknown deploy tag %q (expected one of %s)", tag, strings.Join(KnownTags, ", "))
		}
	}
	return normalized, nil
}

func hasTag(tags []string, tag string) bool {
	return lo.Contains(tags, TagAll) || lo.Contains(tags, tag)
}
