package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrUnknownNetwork is returned when a network name is not configured
	ErrUnknownNetwork = errors.New("unknown network")

	// ErrMissingPriceFeed is returned when a live chain has no price feed profile
	ErrMissingPriceFeed = errors.New("no price feed configured for chain")

	// ErrMockNotDeployed is returned when a development network has no mock price feed yet
	ErrMockNotDeployed = errors.New("mock price feed has not been deployed on this network")

	// ErrMissingSecret is returned when a live network lacks a required secret
	ErrMissingSecret = errors.New("required secret is not set")

	// ErrInsecureSecret is returned when a placeholder secret is used against a live network
	ErrInsecureSecret = errors.New("placeholder secret is not allowed on a live network")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidChainID is returned when a chain ID is invalid
	ErrInvalidChainID = errors.New("invalid chain ID")

	// ErrChainIDMismatch is returned when an RPC endpoint serves a different chain than configured
	ErrChainIDMismatch = errors.New("chain ID mismatch")

	// ErrArtifactNotFound is returned when a compiled contract artifact can't be found
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrVerificationFailed is returned when contract verification fails
	ErrVerificationFailed = errors.New("verification failed")
)

// ConfigError is a fatal configuration problem. Key names the offending
// configuration entry (e.g. "price_feeds.5").
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is, or wraps, a *ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

// RevertError is a contract call that reverted. Exactly one of Reason or
// ErrorName is set when the revert data could be decoded.
type RevertError struct {
	// Reason is the Error(string) message
	Reason string
	// ErrorName is the custom error identifier, e.g. FundMe__NotOwner
	ErrorName string
	// Data is the raw revert data
	Data []byte
	// Cause is the error returned by the node
	Cause error
}

func (e *RevertError) Error() string {
	switch {
	case e.Reason != "":
		return fmt.Sprintf("execution reverted: %s", e.Reason)
	case e.ErrorName != "":
		return fmt.Sprintf("execution reverted: %s()", e.ErrorName)
	case e.Cause != nil:
		return fmt.Sprintf("execution reverted: %v", e.Cause)
	default:
		return "execution reverted"
	}
}

func (e *RevertError) Unwrap() error {
	return e.Cause
}
