package usecase

import (
	"context"
	"sort"

	"github.com/samber/lo"
	"github.com/trebuchet-org/fundme/internal/domain"
)

// ListDeploymentsParams contains parameters for listing deployments
type ListDeploymentsParams struct {
	Network string // empty lists every network
}

// DeploymentListResult contains the result of listing deployments
type DeploymentListResult struct {
	Deployments []*domain.DeploymentRecord
	Summary     DeploymentSummary
}

// DeploymentSummary provides summary statistics
type DeploymentSummary struct {
	Total      int
	ByNetwork  map[string]int
	ByContract map[string]int
}

// ListDeployments handles listing deployment records
type ListDeployments struct {
	repo DeploymentRepository
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(repo DeploymentRepository) *ListDeployments {
	return &ListDeployments{repo: repo}
}

// Run lists deployments sorted by network then contract
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) (*DeploymentListResult, error) {
	records, err := uc.repo.List(ctx, params.Network)
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Network != records[j].Network {
			return records[i].Network < records[j].Network
		}
		return records[i].Contract < records[j].Contract
	})

	return &DeploymentListResult{
		Deployments: records,
		Summary: DeploymentSummary{
			Total:      len(records),
			ByNetwork:  lo.CountValuesBy(records, func(r *domain.DeploymentRecord) string { return r.Network }),
			ByContract: lo.CountValuesBy(records, func(r *domain.DeploymentRecord) string { return r.Contract }),
		},
	}, nil
}
