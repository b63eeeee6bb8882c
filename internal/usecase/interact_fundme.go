package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

// maxFunders bounds the funder scan of Status
const maxFunders = 1000

// FunderBalance is a funder and the amount it has contributed
type FunderBalance struct {
	Address common.Address
	Amount  *big.Int
}

// FundMeStatus is a snapshot of a deployed FundMe
type FundMeStatus struct {
	Network   string
	Address   common.Address
	Owner     common.Address
	PriceFeed common.Address
	Balance   *big.Int
	Funders   []FunderBalance
}

// TxResult is a mined FundMe transaction
type TxResult struct {
	From    common.Address
	Receipt *types.Receipt
	Balance *big.Int // contract balance after the call
}

// InteractFundMe drives a deployed FundMe through its call boundary
type InteractFundMe struct {
	cfg      *config.RuntimeConfig
	repo     DeploymentRepository
	binder   FundMeBinder
	accounts AccountResolver
	progress ProgressSink
	log      *slog.Logger
}

// NewInteractFundMe creates a new FundMe interaction use case
func NewInteractFundMe(
	cfg *config.RuntimeConfig,
	repo DeploymentRepository,
	binder FundMeBinder,
	accounts AccountResolver,
	progress ProgressSink,
	log *slog.Logger,
) *InteractFundMe {
	return &InteractFundMe{
		cfg:      cfg,
		repo:     repo,
		binder:   binder,
		accounts: accounts,
		progress: progress,
		log:      log.With("component", "InteractFundMe"),
	}
}

// Fund sends value wei to FundMe from the account at accountIndex
func (uc *InteractFundMe) Fund(ctx context.Context, value *big.Int, accountIndex int) (*TxResult, error) {
	contract, from, err := uc.bind(ctx, accountIndex)
	if err != nil {
		return nil, err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "Funding", Message: fmt.Sprintf("Funding %s with %s wei", contract.Address().Hex(), value), Spinner: true})
	receipt, err := contract.Fund(ctx, from, value)
	if err != nil {
		return nil, err
	}
	return uc.txResult(ctx, contract, from, receipt)
}

// Withdraw drains FundMe to the owner, using cheaperWithdraw when cheaper is set
func (uc *InteractFundMe) Withdraw(ctx context.Context, cheaper bool, accountIndex int) (*TxResult, error) {
	contract, from, err := uc.bind(ctx, accountIndex)
	if err != nil {
		return nil, err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "Withdrawing", Message: fmt.Sprintf("Withdrawing from %s", contract.Address().Hex()), Spinner: true})
	var receipt *types.Receipt
	if cheaper {
		receipt, err = contract.CheaperWithdraw(ctx, from)
	} else {
		receipt, err = contract.Withdraw(ctx, from)
	}
	if err != nil {
		return nil, err
	}
	return uc.txResult(ctx, contract, from, receipt)
}

// Status reads owner, price feed, balance and every recorded funder
func (uc *InteractFundMe) Status(ctx context.Context) (*FundMeStatus, error) {
	contract, err := uc.contract(ctx)
	if err != nil {
		return nil, err
	}

	status := &FundMeStatus{Network: uc.cfg.Network.Name, Address: contract.Address()}
	if status.Owner, err = contract.Owner(ctx); err != nil {
		return nil, fmt.Errorf("failed to read owner: %w", err)
	}
	if status.PriceFeed, err = contract.PriceFeed(ctx); err != nil {
		return nil, fmt.Errorf("failed to read price feed: %w", err)
	}
	if status.Balance, err = contract.Balance(ctx); err != nil {
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}

	// The funders array has no length accessor; read until the index reverts
	for i := int64(0); i < maxFunders; i++ {
		funder, err := contract.Funder(ctx, i)
		if err != nil {
			var revert *domain.RevertError
			if errors.As(err, &revert) {
				break
			}
			return nil, fmt.Errorf("failed to read funder %d: %w", i, err)
		}
		amount, err := contract.AddressToAmountFunded(ctx, funder)
		if err != nil {
			return nil, fmt.Errorf("failed to read amount funded by %s: %w", funder.Hex(), err)
		}
		status.Funders = append(status.Funders, FunderBalance{Address: funder, Amount: amount})
	}

	return status, nil
}

func (uc *InteractFundMe) contract(ctx context.Context) (FundMeContract, error) {
	network := uc.cfg.Network
	record, err := uc.repo.Get(ctx, network.Name, domain.FundMeContract)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%s is not deployed on %s (run 'fundme deploy'): %w", domain.FundMeContract, network.Name, err)
		}
		return nil, err
	}
	return uc.binder.Bind(ctx, network, record)
}

func (uc *InteractFundMe) bind(ctx context.Context, accountIndex int) (FundMeContract, *domain.Account, error) {
	contract, err := uc.contract(ctx)
	if err != nil {
		return nil, nil, err
	}
	from, err := uc.accounts.Account(ctx, uc.cfg.Network, accountIndex)
	if err != nil {
		return nil, nil, err
	}
	return contract, from, nil
}

func (uc *InteractFundMe) txResult(ctx context.Context, contract FundMeContract, from *domain.Account, receipt *types.Receipt) (*TxResult, error) {
	balance, err := contract.Balance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}
	uc.log.Debug("transaction mined", "from", from.Address.Hex(), "tx", receipt.TxHash.Hex(), "gasUsed", receipt.GasUsed)
	return &TxResult{From: from.Address, Receipt: receipt, Balance: balance}, nil
}
