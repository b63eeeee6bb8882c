package usecase

import (
	"context"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/fundme/internal/domain"
)

// DeploymentRepository persists deployment records per network
type DeploymentRepository interface {
	// Get returns domain.ErrNotFound when contract was never deployed on network
	Get(ctx context.Context, network, contract string) (*domain.DeploymentRecord, error)
	Save(ctx context.Context, record *domain.DeploymentRecord) error
	// List returns every record on network, or on all networks when network is empty
	List(ctx context.Context, network string) ([]*domain.DeploymentRecord, error)
	// Reset drops every record of network
	Reset(ctx context.Context, network string) error
}

// ArtifactLoader provides compiled contracts
type ArtifactLoader interface {
	Load(ctx context.Context, contractName string) (*domain.Artifact, error)
}

// DeployRequest is what the node needs to create a contract
type DeployRequest struct {
	Network       *domain.Network
	Artifact      *domain.Artifact
	From          *domain.Account
	Args          []any
	Confirmations uint64
}

// DeployedContract is the outcome of a mined contract creation
type DeployedContract struct {
	Address common.Address
	TxHash  common.Hash
	Receipt *types.Receipt
}

// ContractDeployer sends contract creations and blocks until they are confirmed
type ContractDeployer interface {
	Deploy(ctx context.Context, req DeployRequest) (*DeployedContract, error)
}

// VerifyRequest is what a source verification service needs
type VerifyRequest struct {
	Network     *domain.Network
	Artifact    *domain.Artifact
	Address     common.Address
	EncodedArgs string // hex, no 0x prefix
	APIKey      string
}

// ContractVerifier handles contract verification on block explorers
type ContractVerifier interface {
	Verify(ctx context.Context, req VerifyRequest) (*domain.VerificationInfo, error)
}

// AccountResolver provides signing accounts for a network
type AccountResolver interface {
	// Deployer returns the account deployments are sent from
	Deployer(ctx context.Context, network *domain.Network) (*domain.Account, error)
	// Account returns the account at index. Index 0 is the deployer; higher
	// indexes are only available on development networks.
	Account(ctx context.Context, network *domain.Network, index int) (*domain.Account, error)
}

// FundMeContract is the call boundary of a deployed FundMe contract.
// Reverts are returned as *domain.RevertError.
type FundMeContract interface {
	Address() common.Address
	Fund(ctx context.Context, from *domain.Account, value *big.Int) (*types.Receipt, error)
	Withdraw(ctx context.Context, from *domain.Account) (*types.Receipt, error)
	CheaperWithdraw(ctx context.Context, from *domain.Account) (*types.Receipt, error)
	PriceFeed(ctx context.Context) (common.Address, error)
	AddressToAmountFunded(ctx context.Context, funder common.Address) (*big.Int, error)
	Funder(ctx context.Context, index int64) (common.Address, error)
	Owner(ctx context.Context) (common.Address, error)
	Balance(ctx context.Context) (*big.Int, error)
}

// FundMeBinder binds a deployment record to a live contract
type FundMeBinder interface {
	Bind(ctx context.Context, network *domain.Network, record *domain.DeploymentRecord) (FundMeContract, error)
}

// AnvilManager manages local anvil node instances
type AnvilManager interface {
	Start(ctx context.Context, instance *domain.AnvilInstance) error
	Stop(ctx context.Context, instance *domain.AnvilInstance) error
	GetStatus(ctx context.Context, instance *domain.AnvilInstance) (*domain.AnvilStatus, error)
	StreamLogs(ctx context.Context, instance *domain.AnvilInstance, writer io.Writer) error
	TakeSnapshot(ctx context.Context, instance *domain.AnvilInstance) (string, error)
	RevertSnapshot(ctx context.Context, instance *domain.AnvilInstance, snapshotID string) error
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// Deployment stages reported through ProgressSink
const (
	StageResolving  = "Resolving"
	StageDeploying  = "Deploying"
	StageConfirming = "Confirming"
	StageVerifying  = "Verifying"
	StageSaving     = "Saving"
	StageCompleted  = "Completed"
)
