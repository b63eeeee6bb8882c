package usecase

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

// ShowDeploymentParams contains parameters for showing a deployment
type ShowDeploymentParams struct {
	// Contract name or deployed address; empty means FundMe
	Identifier string
}

// ShowDeployment is the use case for showing deployment details
type ShowDeployment struct {
	cfg  *config.RuntimeConfig
	repo DeploymentRepository
	sink ProgressSink
}

// NewShowDeployment creates a new ShowDeployment use case
func NewShowDeployment(cfg *config.RuntimeConfig, repo DeploymentRepository, sink ProgressSink) *ShowDeployment {
	return &ShowDeployment{
		cfg:  cfg,
		repo: repo,
		sink: sink,
	}
}

// Run looks a deployment up on the selected network by contract name or address
func (uc *ShowDeployment) Run(ctx context.Context, params ShowDeploymentParams) (*domain.DeploymentRecord, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: "Loading deployment details",
		Spinner: true,
	})

	network := uc.cfg.Network.Name
	identifier := strings.TrimSpace(params.Identifier)
	if identifier == "" {
		identifier = domain.FundMeContract
	}

	if !common.IsHexAddress(identifier) {
		return uc.repo.Get(ctx, network, identifier)
	}

	records, err := uc.repo.List(ctx, network)
	if err != nil {
		return nil, err
	}
	address := common.HexToAddress(identifier)
	for _, record := range records {
		if record.Address == address {
			return record, nil
		}
	}
	return nil, domain.ErrNotFound
}
