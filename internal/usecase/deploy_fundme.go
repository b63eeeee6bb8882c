package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

// ShouldVerify decides whether a deployment on networkName goes to the
// verification service. When it does not, the returned status names the skip reason.
func ShouldVerify(development domain.DevelopmentNetworks, networkName string, credentialPresent bool) (bool, domain.VerificationStatus) {
	if development.Contains(networkName) {
		return false, domain.VerificationStatusSkippedDevelopment
	}
	if !credentialPresent {
		return false, domain.VerificationStatusSkippedNoCredential
	}
	return true, domain.VerificationStatusUnverified
}

// DeployFundMeParams contains the inputs of a FundMe deployment
type DeployFundMeParams struct {
	Network  *domain.Network
	Deployer *domain.Account
	// Confirmations overrides the network's block confirmations when non-zero
	Confirmations uint64
	// APIKey is the verification credential; a placeholder counts as absent
	APIKey string
}

// DeployFundMe deploys FundMe against the resolved price feed and verifies it on live networks
type DeployFundMe struct {
	development domain.DevelopmentNetworks
	resolver    *PriceFeedResolver
	artifacts   ArtifactLoader
	deployer    ContractDeployer
	verifier    ContractVerifier
	repo        DeploymentRepository
	progress    ProgressSink
	log         *slog.Logger
}

// NewDeployFundMe creates a new FundMe deployment use case
func NewDeployFundMe(
	cfg *config.RuntimeConfig,
	resolver *PriceFeedResolver,
	artifacts ArtifactLoader,
	deployer ContractDeployer,
	verifier ContractVerifier,
	repo DeploymentRepository,
	progress ProgressSink,
	log *slog.Logger,
) *DeployFundMe {
	return &DeployFundMe{
		development: cfg.DevelopmentNetworks,
		resolver:    resolver,
		artifacts:   artifacts,
		deployer:    deployer,
		verifier:    verifier,
		repo:        repo,
		progress:    progress,
		log:         log.With("component", "DeployFundMe"),
	}
}

// DeployAndMaybeVerify resolves the price feed, deploys FundMe and, on live
// networks with a credential, submits it for verification. Configuration and
// deployment errors are returned; verification errors are logged and recorded.
func (uc *DeployFundMe) DeployAndMaybeVerify(ctx context.Context, params DeployFundMeParams) (*domain.DeploymentRecord, error) {
	network := params.Network

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageResolving, Message: "Resolving price feed"})
	priceFeed, err := uc.resolver.Resolve(network.Name, network.ChainID, RegistryMockLookup(ctx, uc.repo, network.Name))
	if err != nil {
		return nil, err
	}
	uc.log.Debug("resolved price feed", "network", network.Name, "chainId", network.ChainID, "priceFeed", priceFeed.Hex())

	artifact, err := uc.artifacts.Load(ctx, domain.FundMeContract)
	if err != nil {
		return nil, err
	}

	confirmations := params.Confirmations
	if confirmations == 0 {
		confirmations = network.Confirmations()
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageDeploying,
		Message: fmt.Sprintf("Deploying %s (waiting for %d confirmations)", domain.FundMeContract, confirmations),
		Spinner: true,
	})
	deployed, err := uc.deployer.Deploy(ctx, DeployRequest{
		Network:       network,
		Artifact:      artifact,
		From:          params.Deployer,
		Args:          []any{priceFeed},
		Confirmations: confirmations,
	})
	if err != nil {
		return nil, err
	}

	record := newDeploymentRecord(network, artifact, params.Deployer, deployed, confirmations, []any{priceFeed})
	encoded, encodeErr := artifact.EncodeConstructorArgs(priceFeed)
	if encodeErr != nil {
		uc.log.Warn("failed to encode constructor args", "contract", record.Contract, "network", network.Name, "error", encodeErr)
	}
	record.EncodedArgs = encoded
	uc.log.Info("deployed contract", "contract", record.Contract, "address", record.Address.Hex(), "network", network.Name)

	uc.maybeVerify(ctx, network, artifact, record, params.APIKey, encodeErr)

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageSaving, Message: "Saving deployment"})
	if err := uc.repo.Save(ctx, record); err != nil {
		// A registry write failure does not undo the deployment
		uc.log.Warn("failed to save deployment", "contract", record.Contract, "network", network.Name, "error", err)
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted, Message: fmt.Sprintf("%s deployed at %s", record.Contract, record.Address.Hex())})
	return record, nil
}

func (uc *DeployFundMe) maybeVerify(ctx context.Context, network *domain.Network, artifact *domain.Artifact, record *domain.DeploymentRecord, apiKey string, encodeErr error) {
	attempt, status := ShouldVerify(uc.development, network.Name, !config.IsPlaceholder(apiKey))
	if !attempt {
		uc.log.Info("skipping verification", "network", network.Name, "reason", status)
		record.Verification = domain.VerificationInfo{Status: status}
		return
	}

	record.VerificationAttempted = true
	// The explorer cannot match the bytecode without the constructor args
	if encodeErr != nil {
		uc.progress.Error(fmt.Sprintf("Verification failed: %v", encodeErr))
		record.Verification = domain.VerificationInfo{Status: domain.VerificationStatusFailed, Message: encodeErr.Error()}
		return
	}
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageVerifying, Message: "Verifying on block explorer", Spinner: true})
	info, err := uc.verifier.Verify(ctx, VerifyRequest{
		Network:     network,
		Artifact:    artifact,
		Address:     record.Address,
		EncodedArgs: record.EncodedArgs,
		APIKey:      apiKey,
	})
	if err != nil {
		uc.log.Warn("verification failed", "contract", record.Contract, "address", record.Address.Hex(), "network", network.Name, "error", err)
		uc.progress.Error(fmt.Sprintf("Verification failed: %v", err))
		record.Verification = domain.VerificationInfo{Status: domain.VerificationStatusFailed, Message: err.Error()}
		if info != nil {
			record.Verification.GUID = info.GUID
		}
		return
	}
	record.Verification = *info
}

func newDeploymentRecord(
	network *domain.Network,
	artifact *domain.Artifact,
	from *domain.Account,
	deployed *DeployedContract,
	confirmations uint64,
	args []any,
) *domain.DeploymentRecord {
	record := &domain.DeploymentRecord{
		Contract:        artifact.ContractName,
		Network:         network.Name,
		ChainID:         network.ChainID,
		Address:         deployed.Address,
		TransactionHash: deployed.TxHash,
		Confirmations:   confirmations,
		Args:            formatArgs(args),
		ABI:             artifact.ABI,
		Receipt:         deployed.Receipt,
		DeployedAt:      time.Now().UTC(),
		Verification:    domain.VerificationInfo{Status: domain.VerificationStatusUnverified},
	}
	if from != nil {
		record.Deployer = from.Address
	}
	if deployed.Receipt != nil {
		record.GasUsed = deployed.Receipt.GasUsed
		if deployed.Receipt.BlockNumber != nil {
			record.BlockNumber = deployed.Receipt.BlockNumber.Uint64()
		}
	}
	return record
}

func formatArgs(args []any) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case common.Address:
			out[i] = v.Hex()
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}
