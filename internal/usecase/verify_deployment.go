package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

// VerifyDeployment handles contract verification of stored deployments
type VerifyDeployment struct {
	cfg       *config.RuntimeConfig
	repo      DeploymentRepository
	artifacts ArtifactLoader
	verifier  ContractVerifier
	progress  ProgressSink
	log       *slog.Logger
}

// NewVerifyDeployment creates a new verify deployment use case
func NewVerifyDeployment(
	cfg *config.RuntimeConfig,
	repo DeploymentRepository,
	artifacts ArtifactLoader,
	verifier ContractVerifier,
	progress ProgressSink,
	log *slog.Logger,
) *VerifyDeployment {
	return &VerifyDeployment{
		cfg:       cfg,
		repo:      repo,
		artifacts: artifacts,
		verifier:  verifier,
		progress:  progress,
		log:       log.With("component", "VerifyDeployment"),
	}
}

// VerifyOptions contains options for verification
type VerifyOptions struct {
	Contract string // defaults to FundMe
	Force    bool   // Re-verify even if already verified
}

// VerifyResult contains the result of verification
type VerifyResult struct {
	Deployment *domain.DeploymentRecord
	Attempted  bool
	Skipped    bool
	Message    string
}

// Run verifies a stored deployment on the selected network. Unlike the deploy
// flow, a failed verification is returned as an error wrapping
// domain.ErrVerificationFailed; the failure is still recorded.
func (uc *VerifyDeployment) Run(ctx context.Context, options VerifyOptions) (*VerifyResult, error) {
	network := uc.cfg.Network
	contract := options.Contract
	if contract == "" {
		contract = domain.FundMeContract
	}

	record, err := uc.repo.Get(ctx, network.Name, contract)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s deployment on %s: %w", contract, network.Name, err)
	}

	if record.Verification.Status == domain.VerificationStatusVerified && !options.Force {
		return &VerifyResult{
			Deployment: record,
			Skipped:    true,
			Message:    "Already verified. Use --force to re-verify.",
		}, nil
	}

	apiKey := uc.cfg.Secrets.EtherscanAPIKey
	attempt, status := ShouldVerify(uc.cfg.DevelopmentNetworks, network.Name, !config.IsPlaceholder(apiKey))
	if !attempt {
		uc.log.Info("skipping verification", "network", network.Name, "reason", status)
		return &VerifyResult{Deployment: record, Skipped: true, Message: skipMessage(status)}, nil
	}

	artifact, err := uc.artifacts.Load(ctx, contract)
	if err != nil {
		return nil, err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageVerifying, Message: fmt.Sprintf("Verifying %s at %s", contract, record.Address.Hex()), Spinner: true})
	info, verifyErr := uc.verifier.Verify(ctx, VerifyRequest{
		Network:     network,
		Artifact:    artifact,
		Address:     record.Address,
		EncodedArgs: record.EncodedArgs,
		APIKey:      apiKey,
	})

	record.VerificationAttempted = true
	if verifyErr != nil {
		record.Verification = domain.VerificationInfo{Status: domain.VerificationStatusFailed, Message: verifyErr.Error()}
		if info != nil {
			record.Verification.GUID = info.GUID
		}
	} else {
		record.Verification = *info
	}

	if err := uc.repo.Save(ctx, record); err != nil {
		uc.log.Warn("failed to save verification status", "contract", contract, "error", err)
	}

	if verifyErr != nil {
		if errors.Is(verifyErr, domain.ErrVerificationFailed) {
			return nil, verifyErr
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrVerificationFailed, verifyErr)
	}
	return &VerifyResult{Deployment: record, Attempted: true, Message: record.Verification.Message}, nil
}

func skipMessage(status domain.VerificationStatus) string {
	switch status {
	case domain.VerificationStatusSkippedDevelopment:
		return "Development network, nothing to verify"
	case domain.VerificationStatusSkippedNoCredential:
		return "No verification API key configured (set " + config.EnvEtherscanAPIKey + ")"
	default:
		return string(status)
	}
}
