package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/fundme/internal/adapters/anvil"
	"github.com/trebuchet-org/fundme/internal/adapters/artifacts"
	"github.com/trebuchet-org/fundme/internal/adapters/blockchain"
	"github.com/trebuchet-org/fundme/internal/adapters/progress"
	"github.com/trebuchet-org/fundme/internal/adapters/repository/deployments"
	"github.com/trebuchet-org/fundme/internal/adapters/verification"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// RepositorySet provides the file based deployment registry
var RepositorySet = wire.NewSet(
	deployments.NewFileRepositoryFromConfig,
	wire.Bind(new(usecase.DeploymentRepository), new(*deployments.FileRepository)),
)

// ArtifactsSet provides compiled contract loading
var ArtifactsSet = wire.NewSet(
	artifacts.NewLoaderFromConfig,
	wire.Bind(new(usecase.ArtifactLoader), new(*artifacts.Loader)),
)

// BlockchainSet provides node access, signing and contract bindings
var BlockchainSet = wire.NewSet(
	blockchain.NewClientPool,

	blockchain.NewDeployer,
	wire.Bind(new(usecase.ContractDeployer), new(*blockchain.Deployer)),

	blockchain.NewAccountResolver,
	wire.Bind(new(usecase.AccountResolver), new(*blockchain.AccountResolver)),

	blockchain.NewFundMeBinder,
	wire.Bind(new(usecase.FundMeBinder), new(*blockchain.FundMeBinder)),
)

// VerificationSet provides block explorer verification
var VerificationSet = wire.NewSet(
	verification.NewVerifierAdapter,
	wire.Bind(new(usecase.ContractVerifier), new(*verification.VerifierAdapter)),
)

// AnvilSet provides local node management
var AnvilSet = wire.NewSet(
	anvil.NewManager,
	wire.Bind(new(usecase.AnvilManager), new(*anvil.Manager)),
)

// ProgressSet provides the progress sink matching the output mode
var ProgressSet = wire.NewSet(
	progress.NewProgressSink,
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	RepositorySet,
	ArtifactsSet,
	BlockchainSet,
	VerificationSet,
	AnvilSet,
	ProgressSet,
)
