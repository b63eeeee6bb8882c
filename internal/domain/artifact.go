package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Artifact is a compiled contract
type Artifact struct {
	ContractName string
	SourceName   string // e.g. contracts/FundMe.sol
	Path         string // artifact file on disk
	ABI          json.RawMessage
	Bytecode     []byte
	Metadata     *ArtifactMetadata
	// StandardInput is the solc standard-json input when the toolchain kept it
	StandardInput json.RawMessage
}

// CompilerVersion returns the solc version in the form explorers expect (v0.8.7+commit.e28d00a7)
func (a *Artifact) CompilerVersion() string {
	if a.Metadata == nil || a.Metadata.Compiler.Version == "" {
		return ""
	}
	return "v" + strings.TrimPrefix(a.Metadata.Compiler.Version, "v")
}

// ArtifactMetadata is the subset of the solc metadata used for verification
type ArtifactMetadata struct {
	Compiler struct {
		Version string `json:"version"`
	} `json:"compiler"`
	Language string                       `json:"language"`
	Settings map[string]json.RawMessage   `json:"settings"`
	Sources  map[string]ArtifactSourceRef `json:"sources"`
}

// ArtifactSourceRef describes one source file of a compilation
type ArtifactSourceRef struct {
	Keccak256 string `json:"keccak256"`
	License   string `json:"license,omitempty"`
}

// ParsedABI decodes the artifact ABI
func (a *Artifact) ParsedABI() (*abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(string(a.ABI)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI of %s: %w", a.ContractName, err)
	}
	return &parsed, nil
}

// FullyQualifiedName returns path:Name as expected by explorers
func (a *Artifact) FullyQualifiedName() string {
	if a.SourceName == "" {
		return a.ContractName
	}
	return a.SourceName + ":" + a.ContractName
}

// EncodeConstructorArgs ABI-encodes constructor arguments without the 0x prefix
func (a *Artifact) EncodeConstructorArgs(args ...any) (string, error) {
	parsed, err := a.ParsedABI()
	if err != nil {
		return "", err
	}
	packed, err := parsed.Pack("", args...)
	if err != nil {
		return "", fmt.Errorf("failed to encode constructor args for %s: %w", a.ContractName, err)
	}
	return fmt.Sprintf("%x", packed), nil
}
