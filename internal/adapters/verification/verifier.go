package verification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

const (
	defaultPollInterval = 5 * time.Second
	defaultMaxWait      = 3 * time.Minute
)

// VerifierAdapter submits deployments to an Etherscan-compatible explorer and
// polls until the explorer accepts or rejects the source
type VerifierAdapter struct {
	service      *Service
	projectRoot  string
	pollInterval time.Duration
	maxWait      time.Duration
	log          *slog.Logger
}

// NewVerifierAdapter creates a new verifier
func NewVerifierAdapter(cfg *config.RuntimeConfig, log *slog.Logger) *VerifierAdapter {
	return &VerifierAdapter{
		service:      NewService(nil),
		projectRoot:  cfg.ProjectRoot,
		pollInterval: defaultPollInterval,
		maxWait:      defaultMaxWait,
		log:          log.With("component", "verifier"),
	}
}

// Verify performs contract verification. On failure the returned info carries
// the GUID of the submission, if one was made.
func (v *VerifierAdapter) Verify(ctx context.Context, req usecase.VerifyRequest) (*domain.VerificationInfo, error) {
	if strings.TrimSpace(req.APIKey) == "" {
		return nil, &domain.ConfigError{Key: config.EnvEtherscanAPIKey, Err: domain.ErrMissingSecret}
	}

	input, err := v.standardInput(req.Artifact)
	if err != nil {
		return nil, err
	}
	compiler := req.Artifact.CompilerVersion()
	if compiler == "" {
		return nil, fmt.Errorf("artifact %s has no compiler version", req.Artifact.ContractName)
	}

	params := SubmitParams{
		Endpoint:        req.Network.VerifyURL,
		ChainID:         req.Network.ChainID,
		APIKey:          req.APIKey,
		Address:         req.Address,
		ContractName:    req.Artifact.FullyQualifiedName(),
		CompilerVersion: compiler,
		SourceCode:      string(input),
		ConstructorArgs: strings.TrimPrefix(req.EncodedArgs, "0x"),
	}

	// Freshly mined contracts are not always indexed yet
	guid, err := backoff.Retry(ctx, func() (string, error) {
		guid, err := v.service.Submit(ctx, params)
		if errors.Is(err, ErrNotIndexed) || errors.Is(err, ErrRateLimited) {
			return "", err
		}
		if err != nil {
			return "", backoff.Permanent(err)
		}
		return guid, nil
	}, v.retryOptions("submission")...)

	if errors.Is(err, ErrAlreadyVerified) {
		v.log.Info("contract already verified", "address", req.Address.Hex(), "network", req.Network.Name)
		return v.verified(req, ""), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrVerificationFailed, err)
	}
	v.log.Debug("verification submitted", "guid", guid, "address", req.Address.Hex())

	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		err := v.service.CheckStatus(ctx, params.Endpoint, params.ChainID, params.APIKey, guid)
		if errors.Is(err, ErrPending) || errors.Is(err, ErrRateLimited) {
			return struct{}{}, err
		}
		if err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, nil
	}, v.retryOptions("status")...)
	if err != nil {
		info := &domain.VerificationInfo{Status: domain.VerificationStatusFailed, GUID: guid, Message: err.Error()}
		return info, fmt.Errorf("%w: %v", domain.ErrVerificationFailed, err)
	}

	return v.verified(req, guid), nil
}

func (v *VerifierAdapter) retryOptions(what string) []backoff.RetryOption {
	return []backoff.RetryOption{
		backoff.WithBackOff(backoff.NewConstantBackOff(v.pollInterval)),
		backoff.WithMaxElapsedTime(v.maxWait),
		backoff.WithNotify(func(err error, next time.Duration) {
			v.log.Debug("verification not settled, retrying", "step", what, "reason", err, "in", next)
		}),
	}
}

func (v *VerifierAdapter) verified(req usecase.VerifyRequest, guid string) *domain.VerificationInfo {
	now := time.Now()
	return &domain.VerificationInfo{
		Status:      domain.VerificationStatusVerified,
		GUID:        guid,
		ExplorerURL: ExplorerAddressURL(req.Network, req.Address.Hex()),
		VerifiedAt:  &now,
	}
}

// ExplorerAddressURL links to the verified source, or is empty when the network has no explorer
func ExplorerAddressURL(network *domain.Network, address string) string {
	if network == nil || network.ExplorerURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/address/%s#code", strings.TrimSuffix(network.ExplorerURL, "/"), address)
}

type sourceContent struct {
	Content string `json:"content"`
}

type standardJSONInput struct {
	Language string                     `json:"language"`
	Sources  map[string]sourceContent   `json:"sources"`
	Settings map[string]json.RawMessage `json:"settings"`
}

// standardInput returns the compiler input kept by the toolchain, or rebuilds
// it from the artifact metadata and the sources on disk
func (v *VerifierAdapter) standardInput(artifact *domain.Artifact) ([]byte, error) {
	if len(artifact.StandardInput) > 0 {
		return artifact.StandardInput, nil
	}
	if artifact.Metadata == nil {
		return nil, fmt.Errorf("artifact %s has no compiler metadata; recompile with metadata output enabled", artifact.ContractName)
	}

	input := standardJSONInput{
		Language: artifact.Metadata.Language,
		Sources:  make(map[string]sourceContent, len(artifact.Metadata.Sources)),
		Settings: make(map[string]json.RawMessage, len(artifact.Metadata.Settings)),
	}
	if input.Language == "" {
		input.Language = "Solidity"
	}
	for key, value := range artifact.Metadata.Settings {
		// metadata-only key, rejected by solc as input
		if key == "compilationTarget" {
			continue
		}
		input.Settings[key] = value
	}
	for path := range artifact.Metadata.Sources {
		content, err := os.ReadFile(filepath.Join(v.projectRoot, filepath.FromSlash(path)))
		if err != nil {
			return nil, fmt.Errorf("failed to read source %s: %w", path, err)
		}
		input.Sources[path] = sourceContent{Content: string(content)}
	}

	return json.Marshal(input)
}

// Ensure the adapter implements the interface
var _ usecase.ContractVerifier = (*VerifierAdapter)(nil)
