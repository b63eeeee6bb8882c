package blockchain

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/fundme/internal/domain"
)

// Conn is a connection to a node whose chain ID has been checked
type Conn struct {
	*ethclient.Client
	ChainID *big.Int
}

// ClientPool dials each network once and checks the node serves the configured chain
type ClientPool struct {
	mu    sync.Mutex
	conns map[string]*Conn
}

// NewClientPool creates an empty pool
func NewClientPool() *ClientPool {
	return &ClientPool{conns: make(map[string]*Conn)}
}

// Client returns the connection for network, dialing it on first use
func (p *ClientPool) Client(ctx context.Context, network *domain.Network) (*Conn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if conn, ok := p.conns[network.Name]; ok {
		return conn, nil
	}

	if network.RPCURL == "" {
		return nil, &domain.ConfigError{Key: fmt.Sprintf("networks.%s.url", network.Name), Err: domain.ErrMissingSecret}
	}

	client, err := ethclient.DialContext(ctx, network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC of %s: %w", network.Name, err)
	}

	// Verify chain ID matches
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	chainID, err := client.ChainID(dialCtx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to get chain ID of %s: %w", network.Name, err)
	}
	if network.ChainID != 0 && chainID.Uint64() != network.ChainID {
		client.Close()
		return nil, fmt.Errorf("%w: network %s expects %d, node serves %d", domain.ErrChainIDMismatch, network.Name, network.ChainID, chainID.Uint64())
	}

	conn := &Conn{Client: client, ChainID: chainID}
	p.conns[network.Name] = conn
	return conn, nil
}

// Close closes every open connection
func (p *ClientPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for name, conn := range p.conns {
		conn.Close()
		delete(p.conns, name)
	}
}

// CheckDeploymentExists checks if a contract exists at the given address
func (c *Conn) CheckDeploymentExists(ctx context.Context, address common.Address) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	code, err := c.CodeAt(ctx, address, nil)
	if err != nil {
		return false, fmt.Errorf("failed to check code at %s: %w", address.Hex(), err)
	}
	return len(code) > 0, nil
}
