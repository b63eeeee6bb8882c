package blockchain

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/fundme/internal/domain"
)

// confirmationBackend is the subset of ethclient needed to wait for confirmations
type confirmationBackend interface {
	bind.DeployBackend
	BlockNumber(ctx context.Context) (uint64, error)
}

// WaitForConfirmations waits until tx is mined and buried under confirmations-1
// further blocks. A failed transaction is returned as *domain.RevertError.
func WaitForConfirmations(ctx context.Context, backend confirmationBackend, tx *types.Transaction, confirmations uint64, interval time.Duration) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, backend, tx)
	if err != nil {
		return nil, fmt.Errorf("waiting for transaction %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, &domain.RevertError{Cause: fmt.Errorf("transaction %s failed in block %s", tx.Hash().Hex(), receipt.BlockNumber)}
	}
	if confirmations <= 1 || receipt.BlockNumber == nil {
		return receipt, nil
	}

	target := receipt.BlockNumber.Uint64() + confirmations - 1
	_, err = backoff.Retry(ctx, func() (uint64, error) {
		head, err := backend.BlockNumber(ctx)
		if err != nil {
			return 0, err
		}
		if head < target {
			return 0, fmt.Errorf("block %d of %d", head, target)
		}
		return head, nil
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(interval)),
		backoff.WithMaxElapsedTime(0),
	)
	if err != nil {
		return nil, fmt.Errorf("waiting for %d confirmations of %s: %w", confirmations, tx.Hash().Hex(), err)
	}
	return receipt, nil
}
