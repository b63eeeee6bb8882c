package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

func TestShowDeployment(t *testing.T) {
	ctx := context.Background()
	fundMe := &domain.DeploymentRecord{Network: "hardhat", Contract: domain.FundMeContract, Address: fundMeAddr}
	mockRecord := &domain.DeploymentRecord{Network: "hardhat", Contract: domain.MockV3AggregatorContract, Address: mockFeed}

	t.Run("defaults to FundMe", func(t *testing.T) {
		repo := new(MockDeploymentRepository)
		repo.On("Get", ctx, "hardhat", domain.FundMeContract).Return(fundMe, nil)

		uc := usecase.NewShowDeployment(testConfig("hardhat"), repo, &recordingProgress{})
		record, err := uc.Run(ctx, usecase.ShowDeploymentParams{Identifier: "  "})
		require.NoError(t, err)
		assert.Same(t, fundMe, record)
	})

	t.Run("by address", func(t *testing.T) {
		repo := new(MockDeploymentRepository)
		repo.On("List", ctx, "hardhat").Return([]*domain.DeploymentRecord{fundMe, mockRecord}, nil)

		uc := usecase.NewShowDeployment(testConfig("hardhat"), repo, &recordingProgress{})
		record, err := uc.Run(ctx, usecase.ShowDeploymentParams{Identifier: mockFeed.Hex()})
		require.NoError(t, err)
		assert.Equal(t, domain.MockV3AggregatorContract, record.Contract)
	})

	t.Run("unknown address", func(t *testing.T) {
		repo := new(MockDeploymentRepository)
		repo.On("List", ctx, "hardhat").Return([]*domain.DeploymentRecord{fundMe}, nil)

		uc := usecase.NewShowDeployment(testConfig("hardhat"), repo, &recordingProgress{})
		_, err := uc.Run(ctx, usecase.ShowDeploymentParams{Identifier: deployerAddr.Hex()})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestListDeployments(t *testing.T) {
	ctx := context.Background()
	repo := new(MockDeploymentRepository)
	repo.On("List", ctx, "").Return([]*domain.DeploymentRecord{
		{Network: "rinkeby", Contract: domain.FundMeContract},
		{Network: "hardhat", Contract: domain.MockV3AggregatorContract},
		{Network: "hardhat", Contract: domain.FundMeContract},
	}, nil)

	result, err := usecase.NewListDeployments(repo).Run(ctx, usecase.ListDeploymentsParams{})
	require.NoError(t, err)

	require.Len(t, result.Deployments, 3)
	assert.Equal(t, "hardhat", result.Deployments[0].Network)
	assert.Equal(t, domain.FundMeContract, result.Deployments[0].Contract)
	assert.Equal(t, domain.MockV3AggregatorContract, result.Deployments[1].Contract)
	assert.Equal(t, "rinkeby", result.Deployments[2].Network)

	assert.Equal(t, 3, result.Summary.Total)
	assert.Equal(t, map[string]int{"hardhat": 2, "rinkeby": 1}, result.Summary.ByNetwork)
	assert.Equal(t, 2, result.Summary.ByContract[domain.FundMeContract])
}
