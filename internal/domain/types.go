package domain

import (
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Contract names handled by the deploy steps
const (
	FundMeContract           = "FundMe"
	MockV3AggregatorContract = "MockV3Aggregator"
)

// VerificationStatus represents the verification status
type VerificationStatus string

const (
	VerificationStatusUnverified VerificationStatus = "UNVERIFIED"
	VerificationStatusVerified   VerificationStatus = "VERIFIED"
	VerificationStatusFailed     VerificationStatus = "FAILED"

	// Expected skip conditions, not failures
	VerificationStatusSkippedDevelopment  VerificationStatus = "SKIPPED_DEVELOPMENT_NETWORK"
	VerificationStatusSkippedNoCredential VerificationStatus = "SKIPPED_NO_CREDENTIAL"
)

// Skipped reports whether the status is one of the expected skip conditions
func (s VerificationStatus) Skipped() bool {
	return s == VerificationStatusSkippedDevelopment || s == VerificationStatusSkippedNoCredential
}

// VerificationInfo tracks what happened when the deployment was submitted to an explorer
type VerificationInfo struct {
	Status      VerificationStatus `json:"status" yaml:"status"`
	Message     string             `json:"message,omitempty" yaml:"message,omitempty"`
	GUID        string             `json:"guid,omitempty" yaml:"guid,omitempty"`
	ExplorerURL string             `json:"explorerUrl,omitempty" yaml:"explorerUrl,omitempty"`
	VerifiedAt  *time.Time         `json:"verifiedAt,omitempty" yaml:"verifiedAt,omitempty"`
}

// DeploymentRecord is the result of deploying a contract on a network
type DeploymentRecord struct {
	Contract        string          `json:"contract" yaml:"contract"`
	Network         string          `json:"network" yaml:"network"`
	ChainID         uint64          `json:"chainId" yaml:"chainId"`
	Address         common.Address  `json:"address" yaml:"address"`
	Deployer        common.Address  `json:"deployer" yaml:"deployer"`
	TransactionHash common.Hash     `json:"transactionHash" yaml:"transactionHash"`
	BlockNumber     uint64          `json:"blockNumber" yaml:"blockNumber"`
	GasUsed         uint64          `json:"gasUsed" yaml:"gasUsed"`
	Confirmations   uint64          `json:"confirmations" yaml:"confirmations"`
	Args            []string        `json:"args" yaml:"args"`
	EncodedArgs     string          `json:"encodedArgs,omitempty" yaml:"encodedArgs,omitempty"`
	ABI             json.RawMessage `json:"abi" yaml:"-"`
	Receipt         *types.Receipt  `json:"receipt,omitempty" yaml:"-"`
	DeployedAt      time.Time       `json:"deployedAt" yaml:"deployedAt"`

	VerificationAttempted bool             `json:"verificationAttempted" yaml:"verificationAttempted"`
	Verification          VerificationInfo `json:"verification" yaml:"verification"`
}

// ParsedABI decodes the stored ABI
func (d *DeploymentRecord) ParsedABI() (*abi.ABI, error) {
	if len(d.ABI) == 0 {
		return nil, fmt.Errorf("deployment %s/%s has no ABI", d.Network, d.Contract)
	}
	parsed, err := abi.JSON(strings.NewReader(string(d.ABI)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI of %s: %w", d.Contract, err)
	}
	return &parsed, nil
}

// Account is a signing account used for deployments and contract calls
type Account struct {
	Name       string            `json:"name"`
	Address    common.Address    `json:"address"`
	PrivateKey *ecdsa.PrivateKey `json:"-"`
}
