package blockchain

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/fundme/internal/domain"
)

// fakeChain returns a fixed receipt and advances the head on every BlockNumber call
type fakeChain struct {
	mu      sync.Mutex
	receipt *types.Receipt
	head    uint64
	calls   int
}

func (f *fakeChain) TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error) {
	return f.receipt, nil
}

func (f *fakeChain) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return []byte{0x60}, nil
}

func (f *fakeChain) BlockNumber(context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	head := f.head
	f.head++
	return head, nil
}

func TestWaitForConfirmations(t *testing.T) {
	ctx := context.Background()
	tx := types.NewTx(&types.LegacyTx{Nonce: 1, GasPrice: big.NewInt(1), Gas: 21000})

	t.Run("single confirmation returns once mined", func(t *testing.T) {
		chain := &fakeChain{receipt: &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(5)}, head: 5}
		receipt, err := WaitForConfirmations(ctx, chain, tx, 1, time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, int64(5), receipt.BlockNumber.Int64())
		assert.Zero(t, chain.calls)
	})

	t.Run("waits for the head to pass the target", func(t *testing.T) {
		chain := &fakeChain{receipt: &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(5)}, head: 5}
		_, err := WaitForConfirmations(ctx, chain, tx, 3, time.Millisecond)
		require.NoError(t, err)
		// heads 5, 6, 7: block 5 plus two more
		assert.Equal(t, 3, chain.calls)
	})

	t.Run("failed transaction is a revert", func(t *testing.T) {
		chain := &fakeChain{receipt: &types.Receipt{Status: types.ReceiptStatusFailed, BlockNumber: big.NewInt(5)}}
		receipt, err := WaitForConfirmations(ctx, chain, tx, 1, time.Millisecond)
		require.Error(t, err)
		var revert *domain.RevertError
		assert.True(t, errors.As(err, &revert))
		assert.NotNil(t, receipt)
	})

	t.Run("context cancellation stops the wait", func(t *testing.T) {
		chain := &fakeChain{receipt: &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(100)}, head: 0}
		ctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		_, err := WaitForConfirmations(ctx, chain, tx, 6, time.Millisecond)
		require.Error(t, err)
	})
}
