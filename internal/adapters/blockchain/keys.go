package blockchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// devKeys are the first accounts of the default anvil/hardhat mnemonic
var devKeys = []string{
	config.DevPrivateKey,
	"0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d",
	"0x5de4111afa1a4b94908f83103eb1f1706367c2e68ca870fc3fb9a804cdab365a",
	"0x7c852118294e51e653712a81e05800f419141751be58f605c371e15141b007a6",
	"0x47e179ec197488593b187f80a00eb0da91f1b9d0b13f8733639f19c30a34926a",
	"0x8b3a350cf5c34c9194ca85829a2df0ec3153be0318b5e2d3348e872092edffba",
}

// ParsePrivateKey parses a hex private key with or without 0x prefix
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}

// NewAccount builds a signing account from a hex private key
func NewAccount(name, hexKey string) (*domain.Account, error) {
	key, err := ParsePrivateKey(hexKey)
	if err != nil {
		return nil, &domain.ConfigError{Key: config.EnvPrivateKey, Err: err}
	}
	return &domain.Account{
		Name:       name,
		Address:    crypto.PubkeyToAddress(key.PublicKey),
		PrivateKey: key,
	}, nil
}

// AccountResolver resolves the deployer from PRIVATE_KEY and additional
// accounts from the well-known development keys
type AccountResolver struct {
	secrets     config.Secrets
	development domain.DevelopmentNetworks
}

// NewAccountResolver creates a new account resolver
func NewAccountResolver(cfg *config.RuntimeConfig) *AccountResolver {
	return &AccountResolver{secrets: cfg.Secrets, development: cfg.DevelopmentNetworks}
}

// Deployer returns the account deployments are sent from
func (r *AccountResolver) Deployer(ctx context.Context, network *domain.Network) (*domain.Account, error) {
	key, err := r.secrets.SigningKey(network, r.development.Contains(network.Name))
	if err != nil {
		return nil, err
	}
	return NewAccount("deployer", key)
}

// Account returns the account at index; index 0 is the deployer
func (r *AccountResolver) Account(ctx context.Context, network *domain.Network, index int) (*domain.Account, error) {
	switch {
	case index == 0:
		return r.Deployer(ctx, network)
	case index < 0:
		return nil, fmt.Errorf("invalid account index %d", index)
	case !r.development.Contains(network.Name):
		return nil, fmt.Errorf("account %d is only available on development networks, %s is live", index, network.Name)
	case index >= len(devKeys):
		return nil, fmt.Errorf("account %d out of range, development networks provide %d accounts", index, len(devKeys))
	}
	return NewAccount(fmt.Sprintf("account%d", index), devKeys[index])
}

var _ usecase.AccountResolver = (*AccountResolver)(nil)
