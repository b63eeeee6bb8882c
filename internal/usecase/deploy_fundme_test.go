package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

const (
	fundMeABI = `[{"type":"constructor","inputs":[{"name":"priceFeed","type":"address","internalType":"address"}],"stateMutability":"nonpayable"}]`
	mockABI   = `[{"type":"constructor","inputs":[{"name":"_decimals","type":"uint8","internalType":"uint8"},{"name":"_initialAnswer","type":"int256","internalType":"int256"}],"stateMutability":"nonpayable"}]`
)

var (
	liveFeed     = common.HexToAddress("0x8A753747A1Fa494EC906cE90E9f37563A8AF630e")
	mockFeed     = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	fundMeAddr   = common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
	deployerAddr = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
)

func testConfig(networkName string) *config.RuntimeConfig {
	networks := map[string]*domain.Network{
		"hardhat":   {Name: "hardhat", ChainID: 31337, RPCURL: "http://127.0.0.1:8545", Development: true},
		"localhost": {Name: "localhost", ChainID: 31337, RPCURL: "http://127.0.0.1:8545", Development: true},
		"rinkeby":   {Name: "rinkeby", ChainID: 4, RPCURL: "https://rinkeby.infura.io/v3/abc", BlockConfirmations: 6},
		"goerli":    {Name: "goerli", ChainID: 5, RPCURL: "https://goerli.infura.io/v3/abc"},
	}
	return &config.RuntimeConfig{
		Network:  networks[networkName],
		Networks: networks,
		PriceFeeds: domain.NewNetworkProfiles(map[uint64]domain.PriceFeedProfile{
			4: {DisplayName: "rinkeby", PriceFeedAddress: liveFeed},
			// A development chain ID in the table must never be consulted
			31337: {DisplayName: "hardhat", PriceFeedAddress: common.HexToAddress("0xBAD")},
		}),
		DevelopmentNetworks: domain.NewDevelopmentNetworks("hardhat", "localhost"),
		Mock:                config.MockConfig{Decimals: 8, InitialAnswer: big.NewInt(200_000_000_000)},
	}
}

func fundMeArtifact() *domain.Artifact {
	return &domain.Artifact{
		ContractName: domain.FundMeContract,
		SourceName:   "contracts/FundMe.sol",
		ABI:          []byte(fundMeABI),
		Bytecode:     []byte{0x60, 0x80},
	}
}

func mockArtifact() *domain.Artifact {
	return &domain.Artifact{
		ContractName: domain.MockV3AggregatorContract,
		SourceName:   "contracts/test/MockV3Aggregator.sol",
		ABI:          []byte(mockABI),
		Bytecode:     []byte{0x60, 0x80},
	}
}

func TestPriceFeedResolver(t *testing.T) {
	t.Run("development network uses the mock only", func(t *testing.T) {
		resolver := usecase.NewPriceFeedResolver(testConfig("hardhat"))
		calls := 0
		addr, err := resolver.Resolve("hardhat", 31337, func() (common.Address, error) {
			calls++
			return mockFeed, nil
		})
		require.NoError(t, err)
		assert.Equal(t, mockFeed, addr)
		assert.Equal(t, 1, calls)
	})

	t.Run("development network with empty profile table", func(t *testing.T) {
		cfg := testConfig("localhost")
		cfg.PriceFeeds = domain.NewNetworkProfiles(nil)
		resolver := usecase.NewPriceFeedResolver(cfg)
		addr, err := resolver.Resolve("localhost", 31337, func() (common.Address, error) { return mockFeed, nil })
		require.NoError(t, err)
		assert.Equal(t, mockFeed, addr)
	})

	t.Run("development network without mock fails", func(t *testing.T) {
		resolver := usecase.NewPriceFeedResolver(testConfig("hardhat"))
		_, err := resolver.Resolve("hardhat", 31337, func() (common.Address, error) {
			return common.Address{}, &domain.ConfigError{Key: "deployments.hardhat.MockV3Aggregator", Err: domain.ErrMockNotDeployed}
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrMockNotDeployed)
	})

	t.Run("live network uses the profile table", func(t *testing.T) {
		resolver := usecase.NewPriceFeedResolver(testConfig("rinkeby"))
		addr, err := resolver.Resolve("rinkeby", 4, func() (common.Address, error) {
			t.Fatal("mock lookup must not be called on a live network")
			return common.Address{}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, liveFeed, addr)
	})

	t.Run("live network without profile is a configuration error", func(t *testing.T) {
		resolver := usecase.NewPriceFeedResolver(testConfig("goerli"))
		_, err := resolver.Resolve("goerli", 5, func() (common.Address, error) {
			t.Fatal("mock lookup must not be called on a live network")
			return common.Address{}, nil
		})
		require.Error(t, err)
		assert.True(t, domain.IsConfigError(err))
		assert.ErrorIs(t, err, domain.ErrMissingPriceFeed)
		assert.Contains(t, err.Error(), "price_feeds.5")
	})
}

func TestRegistryMockLookup(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repo := new(MockDeploymentRepository)
		repo.On("Get", ctx, "hardhat", domain.MockV3AggregatorContract).
			Return(&domain.DeploymentRecord{Address: mockFeed}, nil)

		addr, err := usecase.RegistryMockLookup(ctx, repo, "hardhat")()
		require.NoError(t, err)
		assert.Equal(t, mockFeed, addr)
	})

	t.Run("not deployed", func(t *testing.T) {
		repo := new(MockDeploymentRepository)
		repo.On("Get", ctx, "hardhat", domain.MockV3AggregatorContract).Return(nil, domain.ErrNotFound)

		_, err := usecase.RegistryMockLookup(ctx, repo, "hardhat")()
		require.Error(t, err)
		assert.True(t, domain.IsConfigError(err))
		assert.ErrorIs(t, err, domain.ErrMockNotDeployed)
	})

	t.Run("registry failure", func(t *testing.T) {
		repo := new(MockDeploymentRepository)
		repo.On("Get", ctx, "hardhat", domain.MockV3AggregatorContract).Return(nil, errors.New("disk on fire"))

		_, err := usecase.RegistryMockLookup(ctx, repo, "hardhat")()
		require.Error(t, err)
		assert.False(t, domain.IsConfigError(err))
		assert.Contains(t, err.Error(), "disk on fire")
	})
}

func TestShouldVerify(t *testing.T) {
	dev := domain.NewDevelopmentNetworks("hardhat", "localhost")
	tests := []struct {
		network    string
		credential bool
		attempt    bool
		status     domain.VerificationStatus
	}{
		{"hardhat", false, false, domain.VerificationStatusSkippedDevelopment},
		{"hardhat", true, false, domain.VerificationStatusSkippedDevelopment},
		{"rinkeby", false, false, domain.VerificationStatusSkippedNoCredential},
		{"rinkeby", true, true, domain.VerificationStatusUnverified},
	}

	for _, tt := range tests {
		attempt, status := usecase.ShouldVerify(dev, tt.network, tt.credential)
		assert.Equal(t, tt.attempt, attempt, "%s credential=%v", tt.network, tt.credential)
		assert.Equal(t, tt.status, status, "%s credential=%v", tt.network, tt.credential)
		if !attempt {
			assert.True(t, status.Skipped())
		}
	}
}

type driverFixture struct {
	cfg       *config.RuntimeConfig
	repo      *MockDeploymentRepository
	artifacts *MockArtifactLoader
	deployer  *MockContractDeployer
	verifier  *MockContractVerifier
	progress  *recordingProgress
	logs      *bytes.Buffer
	uc        *usecase.DeployFundMe
}

func newDriverFixture(networkName string) *driverFixture {
	f := &driverFixture{
		cfg:       testConfig(networkName),
		repo:      new(MockDeploymentRepository),
		artifacts: new(MockArtifactLoader),
		deployer:  new(MockContractDeployer),
		verifier:  new(MockContractVerifier),
		progress:  &recordingProgress{},
		logs:      &bytes.Buffer{},
	}
	log := slog.New(slog.NewTextHandler(f.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	f.uc = usecase.NewDeployFundMe(
		f.cfg,
		usecase.NewPriceFeedResolver(f.cfg),
		f.artifacts,
		f.deployer,
		f.verifier,
		f.repo,
		f.progress,
		log,
	)
	return f
}

func (f *driverFixture) params(apiKey string) usecase.DeployFundMeParams {
	return usecase.DeployFundMeParams{
		Network:  f.cfg.Network,
		Deployer: &domain.Account{Name: "deployer", Address: deployerAddr},
		APIKey:   apiKey,
	}
}

func deployedFundMe() *usecase.DeployedContract {
	return &usecase.DeployedContract{
		Address: fundMeAddr,
		TxHash:  common.HexToHash("0xabc"),
		Receipt: &types.Receipt{Status: types.ReceiptStatusSuccessful, GasUsed: 812345, BlockNumber: big.NewInt(2)},
	}
}

func TestDeployAndMaybeVerify(t *testing.T) {
	ctx := context.Background()

	t.Run("hardhat without credential deploys against the mock and never verifies", func(t *testing.T) {
		f := newDriverFixture("hardhat")
		f.repo.On("Get", ctx, "hardhat", domain.MockV3AggregatorContract).
			Return(&domain.DeploymentRecord{Address: mockFeed}, nil)
		f.artifacts.On("Load", ctx, domain.FundMeContract).Return(fundMeArtifact(), nil)
		f.deployer.On("Deploy", ctx, mock.MatchedBy(func(req usecase.DeployRequest) bool {
			return len(req.Args) == 1 && req.Args[0] == mockFeed && req.Confirmations == 1 && req.From.Address == deployerAddr
		})).Return(deployedFundMe(), nil)
		f.repo.On("Save", ctx, mock.Anything).Return(nil)

		record, err := f.uc.DeployAndMaybeVerify(ctx, f.params(""))
		require.NoError(t, err)

		assert.Equal(t, fundMeAddr, record.Address)
		assert.Equal(t, "hardhat", record.Network)
		assert.Equal(t, uint64(31337), record.ChainID)
		assert.Equal(t, deployerAddr, record.Deployer)
		assert.Equal(t, []string{mockFeed.Hex()}, record.Args)
		assert.Equal(t, uint64(2), record.BlockNumber)
		assert.Equal(t, uint64(812345), record.GasUsed)
		assert.NotEmpty(t, record.EncodedArgs)
		assert.JSONEq(t, fundMeABI, string(record.ABI))
		assert.NotNil(t, record.Receipt)
		assert.False(t, record.VerificationAttempted)
		assert.Equal(t, domain.VerificationStatusSkippedDevelopment, record.Verification.Status)

		f.verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
		f.repo.AssertCalled(t, "Save", ctx, record)
		assert.Contains(t, f.logs.String(), "reason=SKIPPED_DEVELOPMENT_NETWORK")
		assert.NotContains(t, f.logs.String(), "level=WARN")
	})

	t.Run("development network with credential still skips verification", func(t *testing.T) {
		f := newDriverFixture("localhost")
		f.repo.On("Get", ctx, "localhost", domain.MockV3AggregatorContract).
			Return(&domain.DeploymentRecord{Address: mockFeed}, nil)
		f.artifacts.On("Load", ctx, domain.FundMeContract).Return(fundMeArtifact(), nil)
		f.deployer.On("Deploy", ctx, mock.Anything).Return(deployedFundMe(), nil)
		f.repo.On("Save", ctx, mock.Anything).Return(nil)

		record, err := f.uc.DeployAndMaybeVerify(ctx, f.params("REALKEY"))
		require.NoError(t, err)
		assert.False(t, record.VerificationAttempted)
		f.verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
	})

	t.Run("live network without credential skips verification", func(t *testing.T) {
		for _, apiKey := range []string{"", "your-api-key"} {
			f := newDriverFixture("rinkeby")
			f.artifacts.On("Load", ctx, domain.FundMeContract).Return(fundMeArtifact(), nil)
			f.deployer.On("Deploy", ctx, mock.MatchedBy(func(req usecase.DeployRequest) bool {
				return req.Args[0] == liveFeed && req.Confirmations == 6
			})).Return(deployedFundMe(), nil)
			f.repo.On("Save", ctx, mock.Anything).Return(nil)

			record, err := f.uc.DeployAndMaybeVerify(ctx, f.params(apiKey))
			require.NoError(t, err)
			assert.False(t, record.VerificationAttempted)
			assert.Equal(t, domain.VerificationStatusSkippedNoCredential, record.Verification.Status)
			assert.Contains(t, f.logs.String(), "reason=SKIPPED_NO_CREDENTIAL")

			f.verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
			f.repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
		}
	})

	t.Run("live network with credential verifies with the same constructor args", func(t *testing.T) {
		f := newDriverFixture("rinkeby")
		artifact := fundMeArtifact()
		encoded, err := artifact.EncodeConstructorArgs(liveFeed)
		require.NoError(t, err)

		f.artifacts.On("Load", ctx, domain.FundMeContract).Return(artifact, nil)
		f.deployer.On("Deploy", ctx, mock.Anything).Return(deployedFundMe(), nil)
		f.verifier.On("Verify", ctx, mock.MatchedBy(func(req usecase.VerifyRequest) bool {
			return req.Address == fundMeAddr && req.EncodedArgs == encoded && req.APIKey == "REALKEY" && req.Network.Name == "rinkeby"
		})).Return(&domain.VerificationInfo{Status: domain.VerificationStatusVerified, GUID: "guid-1"}, nil)
		f.repo.On("Save", ctx, mock.Anything).Return(nil)

		record, err := f.uc.DeployAndMaybeVerify(ctx, f.params("REALKEY"))
		require.NoError(t, err)
		assert.True(t, record.VerificationAttempted)
		assert.Equal(t, domain.VerificationStatusVerified, record.Verification.Status)
		assert.Equal(t, "guid-1", record.Verification.GUID)
		f.verifier.AssertNumberOfCalls(t, "Verify", 1)
	})

	t.Run("verification failure is a warning, not an error", func(t *testing.T) {
		f := newDriverFixture("rinkeby")
		f.artifacts.On("Load", ctx, domain.FundMeContract).Return(fundMeArtifact(), nil)
		f.deployer.On("Deploy", ctx, mock.Anything).Return(deployedFundMe(), nil)
		f.verifier.On("Verify", ctx, mock.Anything).Return(nil, errors.New("explorer unavailable"))
		f.repo.On("Save", ctx, mock.Anything).Return(nil)

		record, err := f.uc.DeployAndMaybeVerify(ctx, f.params("REALKEY"))
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, fundMeAddr, record.Address)
		assert.True(t, record.VerificationAttempted)
		assert.Equal(t, domain.VerificationStatusFailed, record.Verification.Status)
		assert.Contains(t, record.Verification.Message, "explorer unavailable")
		assert.Contains(t, f.logs.String(), `level=WARN msg="verification failed"`)
		assert.Len(t, f.progress.errors, 1)
	})

	t.Run("unencodable constructor args fail verification without submitting", func(t *testing.T) {
		f := newDriverFixture("rinkeby")
		artifact := fundMeArtifact()
		artifact.ABI = []byte(`[]`)
		f.artifacts.On("Load", ctx, domain.FundMeContract).Return(artifact, nil)
		f.deployer.On("Deploy", ctx, mock.Anything).Return(deployedFundMe(), nil)
		f.repo.On("Save", ctx, mock.Anything).Return(nil)

		record, err := f.uc.DeployAndMaybeVerify(ctx, f.params("REALKEY"))
		require.NoError(t, err)
		assert.Empty(t, record.EncodedArgs)
		assert.True(t, record.VerificationAttempted)
		assert.Equal(t, domain.VerificationStatusFailed, record.Verification.Status)
		assert.Contains(t, record.Verification.Message, "failed to encode constructor args")
		assert.Contains(t, f.logs.String(), `level=WARN msg="failed to encode constructor args"`)
		assert.Len(t, f.progress.errors, 1)
		f.verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
	})

	t.Run("missing profile fails before any deployment", func(t *testing.T) {
		f := newDriverFixture("goerli")

		_, err := f.uc.DeployAndMaybeVerify(ctx, f.params("REALKEY"))
		require.Error(t, err)
		assert.True(t, domain.IsConfigError(err))
		assert.ErrorIs(t, err, domain.ErrMissingPriceFeed)

		f.deployer.AssertNotCalled(t, "Deploy", mock.Anything, mock.Anything)
		f.verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
		f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("missing mock fails before any deployment", func(t *testing.T) {
		f := newDriverFixture("hardhat")
		f.repo.On("Get", ctx, "hardhat", domain.MockV3AggregatorContract).Return(nil, domain.ErrNotFound)

		_, err := f.uc.DeployAndMaybeVerify(ctx, f.params(""))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrMockNotDeployed)
		f.deployer.AssertNotCalled(t, "Deploy", mock.Anything, mock.Anything)
	})

	t.Run("deployment failure is propagated unchanged", func(t *testing.T) {
		f := newDriverFixture("rinkeby")
		deployErr := errors.New("insufficient funds for gas * price + value")
		f.artifacts.On("Load", ctx, domain.FundMeContract).Return(fundMeArtifact(), nil)
		f.deployer.On("Deploy", ctx, mock.Anything).Return(nil, deployErr)

		record, err := f.uc.DeployAndMaybeVerify(ctx, f.params("REALKEY"))
		assert.Nil(t, record)
		assert.Equal(t, deployErr, err)
		f.deployer.AssertNumberOfCalls(t, "Deploy", 1)
		f.verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
	})

	t.Run("explicit confirmations override the network", func(t *testing.T) {
		f := newDriverFixture("rinkeby")
		f.artifacts.On("Load", ctx, domain.FundMeContract).Return(fundMeArtifact(), nil)
		f.deployer.On("Deploy", ctx, mock.MatchedBy(func(req usecase.DeployRequest) bool {
			return req.Confirmations == 2
		})).Return(deployedFundMe(), nil)
		f.repo.On("Save", ctx, mock.Anything).Return(nil)

		params := f.params("")
		params.Confirmations = 2
		record, err := f.uc.DeployAndMaybeVerify(ctx, params)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), record.Confirmations)
	})

	t.Run("registry failure still returns the record", func(t *testing.T) {
		f := newDriverFixture("rinkeby")
		f.artifacts.On("Load", ctx, domain.FundMeContract).Return(fundMeArtifact(), nil)
		f.deployer.On("Deploy", ctx, mock.Anything).Return(deployedFundMe(), nil)
		f.repo.On("Save", ctx, mock.Anything).Return(errors.New("read-only file system"))

		record, err := f.uc.DeployAndMaybeVerify(ctx, f.params(""))
		require.NoError(t, err)
		assert.Equal(t, fundMeAddr, record.Address)
		assert.Contains(t, f.logs.String(), "failed to save deployment")
	})
}
