package deployments_test

import (
	"context"
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/fundme/internal/adapters/repository/deployments"
	"github.com/trebuchet-org/fundme/internal/domain"
)

func testRecord(network, contract string) *domain.DeploymentRecord {
	return &domain.DeploymentRecord{
		Contract:        contract,
		Network:         network,
		ChainID:         31337,
		Address:         common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"),
		Deployer:        common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		TransactionHash: common.HexToHash("0xabc"),
		BlockNumber:     1,
		Args:            []string{"0x8A753747A1Fa494EC906cE90E9f37563A8AF630e"},
		ABI:             json.RawMessage(`[]`),
		DeployedAt:      time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Verification:    domain.VerificationInfo{Status: domain.VerificationStatusSkippedDevelopment},
	}
}

func TestFileRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("save and get", func(t *testing.T) {
		root := t.TempDir()
		repo := deployments.NewFileRepository(root)

		record := testRecord("hardhat", domain.FundMeContract)
		record.Receipt = &types.Receipt{
			Status:      types.ReceiptStatusSuccessful,
			TxHash:      record.TransactionHash,
			GasUsed:     812_345,
			BlockNumber: big.NewInt(1),
		}
		require.NoError(t, repo.Save(ctx, record))

		got, err := repo.Get(ctx, "hardhat", domain.FundMeContract)
		require.NoError(t, err)
		assert.Equal(t, record.Address, got.Address)
		assert.Equal(t, record.Deployer, got.Deployer)
		assert.Equal(t, record.Args, got.Args)
		assert.True(t, record.DeployedAt.Equal(got.DeployedAt))
		assert.Equal(t, domain.VerificationStatusSkippedDevelopment, got.Verification.Status)
		require.NotNil(t, got.Receipt)
		assert.Equal(t, uint64(812_345), got.Receipt.GasUsed)
		assert.Equal(t, types.ReceiptStatusSuccessful, got.Receipt.Status)

		// saving does not mutate the caller's receipt
		assert.Nil(t, record.Receipt.Logs)

		chainID, err := os.ReadFile(filepath.Join(root, "hardhat", deployments.ChainIDFile))
		require.NoError(t, err)
		assert.Equal(t, "31337", string(chainID))
		assert.FileExists(t, filepath.Join(root, "hardhat", "FundMe.json"))
	})

	t.Run("missing record is ErrNotFound", func(t *testing.T) {
		repo := deployments.NewFileRepository(t.TempDir())
		_, err := repo.Get(ctx, "hardhat", domain.MockV3AggregatorContract)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("save overwrites", func(t *testing.T) {
		repo := deployments.NewFileRepository(t.TempDir())
		first := testRecord("hardhat", domain.FundMeContract)
		require.NoError(t, repo.Save(ctx, first))

		second := testRecord("hardhat", domain.FundMeContract)
		second.Address = common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
		require.NoError(t, repo.Save(ctx, second))

		got, err := repo.Get(ctx, "hardhat", domain.FundMeContract)
		require.NoError(t, err)
		assert.Equal(t, second.Address, got.Address)
	})

	t.Run("list filters by network and sorts", func(t *testing.T) {
		repo := deployments.NewFileRepository(t.TempDir())
		require.NoError(t, repo.Save(ctx, testRecord("hardhat", domain.MockV3AggregatorContract)))
		require.NoError(t, repo.Save(ctx, testRecord("hardhat", domain.FundMeContract)))
		require.NoError(t, repo.Save(ctx, testRecord("rinkeby", domain.FundMeContract)))

		all, err := repo.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "hardhat", all[0].Network)
		assert.Equal(t, domain.FundMeContract, all[0].Contract)
		assert.Equal(t, domain.MockV3AggregatorContract, all[1].Contract)
		assert.Equal(t, "rinkeby", all[2].Network)

		rinkeby, err := repo.List(ctx, "rinkeby")
		require.NoError(t, err)
		assert.Len(t, rinkeby, 1)

		none, err := repo.List(ctx, "polygon")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("list on missing root is empty", func(t *testing.T) {
		repo := deployments.NewFileRepository(filepath.Join(t.TempDir(), "nope"))
		records, err := repo.List(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("reset drops only the network", func(t *testing.T) {
		repo := deployments.NewFileRepository(t.TempDir())
		require.NoError(t, repo.Save(ctx, testRecord("hardhat", domain.FundMeContract)))
		require.NoError(t, repo.Save(ctx, testRecord("rinkeby", domain.FundMeContract)))

		require.NoError(t, repo.Reset(ctx, "hardhat"))
		_, err := repo.Get(ctx, "hardhat", domain.FundMeContract)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = repo.Get(ctx, "rinkeby", domain.FundMeContract)
		assert.NoError(t, err)

		// resetting an empty network is fine
		assert.NoError(t, repo.Reset(ctx, "polygon"))
	})

	t.Run("rejects path traversal", func(t *testing.T) {
		repo := deployments.NewFileRepository(t.TempDir())
		_, err := repo.Get(ctx, "../etc", domain.FundMeContract)
		assert.Error(t, err)
		assert.Error(t, repo.Save(ctx, testRecord("hardhat", "../FundMe")))
		assert.Error(t, repo.Reset(ctx, ".."))
	})

	t.Run("corrupt file is reported", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "hardhat"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(root, "hardhat", "FundMe.json"), []byte("{"), 0644))

		repo := deployments.NewFileRepository(root)
		_, err := repo.Get(ctx, "hardhat", domain.FundMeContract)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrNotFound)
	})
}
