package blockchain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

const defaultPollInterval = 2 * time.Second

// Deployer sends contract creations through ethclient
type Deployer struct {
	clients      *ClientPool
	pollInterval time.Duration
	log          *slog.Logger
}

// NewDeployer creates a new deployer
func NewDeployer(clients *ClientPool, log *slog.Logger) *Deployer {
	return &Deployer{
		clients:      clients,
		pollInterval: defaultPollInterval,
		log:          log.With("component", "deployer"),
	}
}

// Deploy creates the contract and blocks until it has req.Confirmations confirmations
func (d *Deployer) Deploy(ctx context.Context, req usecase.DeployRequest) (*usecase.DeployedContract, error) {
	conn, err := d.clients.Client(ctx, req.Network)
	if err != nil {
		return nil, err
	}
	parsed, err := req.Artifact.ParsedABI()
	if err != nil {
		return nil, err
	}
	opts, err := transactor(ctx, req.From, conn.ChainID, nil)
	if err != nil {
		return nil, err
	}

	address, tx, _, err := bind.DeployContract(opts, *parsed, req.Artifact.Bytecode, conn, req.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to deploy %s: %w", req.Artifact.ContractName, DecodeRevert(err, parsed))
	}
	d.log.Debug("deployment sent", "contract", req.Artifact.ContractName, "tx", tx.Hash().Hex(), "address", address.Hex())

	receipt, err := WaitForConfirmations(ctx, conn, tx, req.Confirmations, d.pollInterval)
	if err != nil {
		return nil, fmt.Errorf("failed to deploy %s: %w", req.Artifact.ContractName, err)
	}

	return &usecase.DeployedContract{
		Address: address,
		TxHash:  tx.Hash(),
		Receipt: receipt,
	}, nil
}

// transactor builds signing options for from
func transactor(ctx context.Context, from *domain.Account, chainID *big.Int, value *big.Int) (*bind.TransactOpts, error) {
	if from == nil || from.PrivateKey == nil {
		return nil, errors.New("signing account has no private key")
	}
	opts, err := bind.NewKeyedTransactorWithChainID(from.PrivateKey, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx
	opts.Value = value
	return opts, nil
}

var _ usecase.ContractDeployer = (*Deployer)(nil)
