package blockchain

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// FundMe contract methods
const (
	methodFund                     = "fund"
	methodWithdraw                 = "withdraw"
	methodCheaperWithdraw          = "cheaperWithdraw"
	methodGetAddressToAmountFunded = "getAddressToAmountFunded"
)

// Getters whose name differs between contract revisions, preferred first
var (
	priceFeedGetters = []string{"getPriceFeed", "getPriceFee"}
	funderGetters    = []string{"getFunder", "getFunders"}
	ownerGetters     = []string{"getOwner", "owner", "i_owner"}
)

// resolveMethod returns the first candidate declared by contractABI
func resolveMethod(contractABI *abi.ABI, candidates ...string) string {
	for _, name := range candidates {
		if _, ok := contractABI.Methods[name]; ok {
			return name
		}
	}
	return candidates[0]
}

// FundMeClient calls a deployed FundMe contract
type FundMeClient struct {
	conn         *Conn
	address      common.Address
	abi          *abi.ABI
	contract     *bind.BoundContract
	pollInterval time.Duration
}

// NewFundMeClient binds address with contractABI on conn
func NewFundMeClient(conn *Conn, address common.Address, contractABI *abi.ABI) *FundMeClient {
	return &FundMeClient{
		conn:         conn,
		address:      address,
		abi:          contractABI,
		contract:     bind.NewBoundContract(address, *contractABI, conn, conn, conn),
		pollInterval: defaultPollInterval,
	}
}

// Address returns the contract address
func (c *FundMeClient) Address() common.Address { return c.address }

// Fund sends value to fund()
func (c *FundMeClient) Fund(ctx context.Context, from *domain.Account, value *big.Int) (*types.Receipt, error) {
	return c.transact(ctx, from, value, methodFund)
}

// Withdraw calls withdraw()
func (c *FundMeClient) Withdraw(ctx context.Context, from *domain.Account) (*types.Receipt, error) {
	return c.transact(ctx, from, nil, methodWithdraw)
}

// CheaperWithdraw calls cheaperWithdraw()
func (c *FundMeClient) CheaperWithdraw(ctx context.Context, from *domain.Account) (*types.Receipt, error) {
	return c.transact(ctx, from, nil, methodCheaperWithdraw)
}

// PriceFeed returns the aggregator the contract was constructed with
func (c *FundMeClient) PriceFeed(ctx context.Context) (common.Address, error) {
	return callAddress(c.call(ctx, resolveMethod(c.abi, priceFeedGetters...)))
}

// AddressToAmountFunded returns how much funder has contributed since the last withdrawal
func (c *FundMeClient) AddressToAmountFunded(ctx context.Context, funder common.Address) (*big.Int, error) {
	out, err := c.call(ctx, methodGetAddressToAmountFunded, funder)
	if err != nil {
		return nil, err
	}
	amount, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected %s result %T", methodGetAddressToAmountFunded, out[0])
	}
	return amount, nil
}

// Funder returns the funder at index; out of range reverts
func (c *FundMeClient) Funder(ctx context.Context, index int64) (common.Address, error) {
	return callAddress(c.call(ctx, resolveMethod(c.abi, funderGetters...), big.NewInt(index)))
}

// Owner returns the deployer recorded by the constructor
func (c *FundMeClient) Owner(ctx context.Context) (common.Address, error) {
	return callAddress(c.call(ctx, resolveMethod(c.abi, ownerGetters...)))
}

// Balance returns the contract's balance in wei
func (c *FundMeClient) Balance(ctx context.Context) (*big.Int, error) {
	return c.conn.BalanceAt(ctx, c.address, nil)
}

func (c *FundMeClient) call(ctx context.Context, method string, args ...any) ([]any, error) {
	var out []any
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, DecodeRevert(err, c.abi)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s returned no values", method)
	}
	return out, nil
}

func (c *FundMeClient) transact(ctx context.Context, from *domain.Account, value *big.Int, method string, args ...any) (*types.Receipt, error) {
	if from == nil {
		return nil, fmt.Errorf("%s: no signing account", method)
	}
	input, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", method, err)
	}

	// Simulate first so reverts surface with their data
	msg := ethereum.CallMsg{From: from.Address, To: &c.address, Value: value, Data: input}
	if _, err := c.conn.CallContract(ctx, msg, nil); err != nil {
		return nil, DecodeRevert(err, c.abi)
	}

	opts, err := transactor(ctx, from, c.conn.ChainID, value)
	if err != nil {
		return nil, err
	}
	tx, err := c.contract.Transact(opts, method, args...)
	if err != nil {
		return nil, DecodeRevert(err, c.abi)
	}
	return WaitForConfirmations(ctx, c.conn, tx, 1, c.pollInterval)
}

func callAddress(out []any, err error) (common.Address, error) {
	if err != nil {
		return common.Address{}, err
	}
	addr, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("unexpected result %T, want address", out[0])
	}
	return addr, nil
}

// FundMeBinder binds deployment records to live contracts
type FundMeBinder struct {
	clients *ClientPool
}

// NewFundMeBinder creates a new binder
func NewFundMeBinder(clients *ClientPool) *FundMeBinder {
	return &FundMeBinder{clients: clients}
}

// Bind connects to network and checks the recorded contract still exists
func (b *FundMeBinder) Bind(ctx context.Context, network *domain.Network, record *domain.DeploymentRecord) (usecase.FundMeContract, error) {
	conn, err := b.clients.Client(ctx, network)
	if err != nil {
		return nil, err
	}
	parsed, err := record.ParsedABI()
	if err != nil {
		return nil, err
	}
	exists, err := conn.CheckDeploymentExists(ctx, record.Address)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: no code at %s on %s (was the node restarted? run fundme deploy --reset)", domain.ErrNotFound, record.Address.Hex(), network.Name)
	}
	return NewFundMeClient(conn, record.Address, parsed), nil
}

var (
	_ usecase.FundMeContract = (*FundMeClient)(nil)
	_ usecase.FundMeBinder   = (*FundMeBinder)(nil)
)
