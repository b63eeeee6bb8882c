package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

// DeployMocks deploys the mock price feed on development networks
type DeployMocks struct {
	development domain.DevelopmentNetworks
	mock        config.MockConfig
	artifacts   ArtifactLoader
	deployer    ContractDeployer
	repo        DeploymentRepository
	progress    ProgressSink
	log         *slog.Logger
}

// NewDeployMocks creates a new mock deployment use case
func NewDeployMocks(
	cfg *config.RuntimeConfig,
	artifacts ArtifactLoader,
	deployer ContractDeployer,
	repo DeploymentRepository,
	progress ProgressSink,
	log *slog.Logger,
) *DeployMocks {
	return &DeployMocks{
		development: cfg.DevelopmentNetworks,
		mock:        cfg.Mock,
		artifacts:   artifacts,
		deployer:    deployer,
		repo:        repo,
		progress:    progress,
		log:         log.With("component", "DeployMocks"),
	}
}

// Run deploys MockV3Aggregator(decimals, initialAnswer) and records it.
// It returns nil without error on live networks.
func (uc *DeployMocks) Run(ctx context.Context, network *domain.Network, from *domain.Account) (*domain.DeploymentRecord, error) {
	if !uc.development.Contains(network.Name) {
		uc.log.Info("live network detected, skipping mocks", "network", network.Name)
		return nil, nil
	}

	artifact, err := uc.artifacts.Load(ctx, domain.MockV3AggregatorContract)
	if err != nil {
		return nil, err
	}

	answer := new(big.Int)
	if uc.mock.InitialAnswer != nil {
		answer.Set(uc.mock.InitialAnswer)
	}
	args := []any{uc.mock.Decimals, answer}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageDeploying,
		Message: fmt.Sprintf("Deploying %s (decimals=%d, answer=%s)", domain.MockV3AggregatorContract, uc.mock.Decimals, answer),
		Spinner: true,
	})
	deployed, err := uc.deployer.Deploy(ctx, DeployRequest{
		Network:       network,
		Artifact:      artifact,
		From:          from,
		Args:          args,
		Confirmations: network.Confirmations(),
	})
	if err != nil {
		return nil, err
	}

	record := newDeploymentRecord(network, artifact, from, deployed, network.Confirmations(), args)
	encoded, err := artifact.EncodeConstructorArgs(args...)
	if err != nil {
		uc.log.Warn("failed to encode constructor args", "contract", record.Contract, "network", network.Name, "error", err)
	}
	record.EncodedArgs = encoded
	record.Verification = domain.VerificationInfo{Status: domain.VerificationStatusSkippedDevelopment}

	if err := uc.repo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save mock deployment: %w", err)
	}

	uc.log.Info("mocks deployed", "address", record.Address.Hex(), "network", network.Name)
	return record, nil
}
