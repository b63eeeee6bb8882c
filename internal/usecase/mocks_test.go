package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// MockDeploymentRepository is a mock implementation of DeploymentRepository
type MockDeploymentRepository struct {
	mock.Mock
}

func (m *MockDeploymentRepository) Get(ctx context.Context, network, contract string) (*domain.DeploymentRecord, error) {
	args := m.Called(ctx, network, contract)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeploymentRecord), args.Error(1)
}

func (m *MockDeploymentRepository) Save(ctx context.Context, record *domain.DeploymentRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockDeploymentRepository) List(ctx context.Context, network string) ([]*domain.DeploymentRecord, error) {
	args := m.Called(ctx, network)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DeploymentRecord), args.Error(1)
}

func (m *MockDeploymentRepository) Reset(ctx context.Context, network string) error {
	return m.Called(ctx, network).Error(0)
}

// MockArtifactLoader is a mock implementation of ArtifactLoader
type MockArtifactLoader struct {
	mock.Mock
}

func (m *MockArtifactLoader) Load(ctx context.Context, contractName string) (*domain.Artifact, error) {
	args := m.Called(ctx, contractName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}

// MockContractDeployer is a mock implementation of ContractDeployer
type MockContractDeployer struct {
	mock.Mock
}

func (m *MockContractDeployer) Deploy(ctx context.Context, req usecase.DeployRequest) (*usecase.DeployedContract, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.DeployedContract), args.Error(1)
}

// MockContractVerifier is a mock implementation of ContractVerifier
type MockContractVerifier struct {
	mock.Mock
}

func (m *MockContractVerifier) Verify(ctx context.Context, req usecase.VerifyRequest) (*domain.VerificationInfo, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationInfo), args.Error(1)
}

// MockAccountResolver is a mock implementation of AccountResolver
type MockAccountResolver struct {
	mock.Mock
}

func (m *MockAccountResolver) Deployer(ctx context.Context, network *domain.Network) (*domain.Account, error) {
	args := m.Called(ctx, network)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountResolver) Account(ctx context.Context, network *domain.Network, index int) (*domain.Account, error) {
	args := m.Called(ctx, network, index)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// MockAnvilManager is a mock implementation of AnvilManager
type MockAnvilManager struct {
	mock.Mock
}

func (m *MockAnvilManager) Start(ctx context.Context, instance *domain.AnvilInstance) error {
	return m.Called(ctx, instance).Error(0)
}

func (m *MockAnvilManager) Stop(ctx context.Context, instance *domain.AnvilInstance) error {
	return m.Called(ctx, instance).Error(0)
}

func (m *MockAnvilManager) GetStatus(ctx context.Context, instance *domain.AnvilInstance) (*domain.AnvilStatus, error) {
	args := m.Called(ctx, instance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnvilStatus), args.Error(1)
}

func (m *MockAnvilManager) StreamLogs(ctx context.Context, instance *domain.AnvilInstance, writer io.Writer) error {
	return m.Called(ctx, instance, writer).Error(0)
}

func (m *MockAnvilManager) TakeSnapshot(ctx context.Context, instance *domain.AnvilInstance) (string, error) {
	args := m.Called(ctx, instance)
	return args.String(0), args.Error(1)
}

func (m *MockAnvilManager) RevertSnapshot(ctx context.Context, instance *domain.AnvilInstance, snapshotID string) error {
	return m.Called(ctx, instance, snapshotID).Error(0)
}

// fakeFundMe is an in-memory FundMe: funders are appended on Fund and cleared on withdraw
type fakeFundMe struct {
	address   common.Address
	owner     common.Address
	priceFeed common.Address
	funders   []common.Address
	funded    map[common.Address]*big.Int
	balance   *big.Int
}

func newFakeFundMe(owner, priceFeed common.Address) *fakeFundMe {
	return &fakeFundMe{
		address:   common.HexToAddress("0xF00D"),
		owner:     owner,
		priceFeed: priceFeed,
		funded:    map[common.Address]*big.Int{},
		balance:   new(big.Int),
	}
}

func (f *fakeFundMe) Address() common.Address { return f.address }

func (f *fakeFundMe) Fund(_ context.Context, from *domain.Account, value *big.Int) (*types.Receipt, error) {
	if value.Sign() == 0 {
		return nil, &domain.RevertError{Reason: "Spend this money boss!"}
	}
	f.funders = append(f.funders, from.Address)
	if f.funded[from.Address] == nil {
		f.funded[from.Address] = new(big.Int)
	}
	f.funded[from.Address].Add(f.funded[from.Address], value)
	f.balance.Add(f.balance, value)
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, GasUsed: 21000}, nil
}

func (f *fakeFundMe) Withdraw(_ context.Context, from *domain.Account) (*types.Receipt, error) {
	if from.Address != f.owner {
		return nil, &domain.RevertError{ErrorName: "FundMe__NotOwner"}
	}
	for _, funder := range f.funders {
		f.funded[funder] = new(big.Int)
	}
	f.funders = nil
	f.balance = new(big.Int)
	return &types.Receipt{Status: types.ReceiptStatusSuccessful}, nil
}

func (f *fakeFundMe) CheaperWithdraw(ctx context.Context, from *domain.Account) (*types.Receipt, error) {
	return f.Withdraw(ctx, from)
}

func (f *fakeFundMe) PriceFeed(context.Context) (common.Address, error) { return f.priceFeed, nil }

func (f *fakeFundMe) AddressToAmountFunded(_ context.Context, funder common.Address) (*big.Int, error) {
	if amount, ok := f.funded[funder]; ok {
		return new(big.Int).Set(amount), nil
	}
	return new(big.Int), nil
}

func (f *fakeFundMe) Funder(_ context.Context, index int64) (common.Address, error) {
	if index < 0 || index >= int64(len(f.funders)) {
		return common.Address{}, &domain.RevertError{}
	}
	return f.funders[index], nil
}

func (f *fakeFundMe) Owner(context.Context) (common.Address, error) { return f.owner, nil }

func (f *fakeFundMe) Balance(context.Context) (*big.Int, error) { return new(big.Int).Set(f.balance), nil }

type fakeBinder struct {
	contract usecase.FundMeContract
}

func (b *fakeBinder) Bind(context.Context, *domain.Network, *domain.DeploymentRecord) (usecase.FundMeContract, error) {
	return b.contract, nil
}

// recordingProgress captures progress messages
type recordingProgress struct {
	events []usecase.ProgressEvent
	errors []string
}

func (r *recordingProgress) OnProgress(_ context.Context, event usecase.ProgressEvent) {
	r.events = append(r.events, event)
}
func (r *recordingProgress) Info(string)      {}
func (r *recordingProgress) Error(msg string) { r.errors = append(r.errors, msg) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
