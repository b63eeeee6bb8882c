package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

// ManageAnvil handles the local node serving the development networks
type ManageAnvil struct {
	cfg          *config.RuntimeConfig
	anvilManager AnvilManager
	progress     ProgressSink
}

// NewManageAnvil creates a new anvil management use case
func NewManageAnvil(cfg *config.RuntimeConfig, anvilManager AnvilManager, progress ProgressSink) *ManageAnvil {
	return &ManageAnvil{
		cfg:          cfg,
		anvilManager: anvilManager,
		progress:     progress,
	}
}

// ManageAnvilParams contains parameters for anvil operations
type ManageAnvilParams struct {
	Operation  string // start, stop, restart, status, logs, snapshot, revert
	Name       string
	Port       string // defaults to the development network's RPC port
	SnapshotID string // revert only
}

// ManageAnvilResult contains the result of anvil operations
type ManageAnvilResult struct {
	Operation  string
	Instance   *domain.AnvilInstance
	Status     *domain.AnvilStatus
	SnapshotID string
	Success    bool
	Message    string
}

// Execute performs the anvil management operation
func (m *ManageAnvil) Execute(ctx context.Context, params ManageAnvilParams) (*ManageAnvilResult, error) {
	instance, err := m.instance(params)
	if err != nil {
		return nil, err
	}

	switch params.Operation {
	case "start":
		return m.start(ctx, instance)
	case "stop":
		return m.stop(ctx, instance)
	case "restart":
		return m.restart(ctx, instance)
	case "status", "logs":
		return m.status(ctx, params.Operation, instance)
	case "snapshot":
		return m.snapshot(ctx, instance)
	case "revert":
		return m.revert(ctx, instance, params.SnapshotID)
	default:
		return nil, fmt.Errorf("unknown operation: %s", params.Operation)
	}
}

// instance derives the node from the first development network's RPC URL
func (m *ManageAnvil) instance(params ManageAnvilParams) (*domain.AnvilInstance, error) {
	instance := &domain.AnvilInstance{
		Name:    params.Name,
		Port:    params.Port,
		ChainID: "31337",
	}

	for _, name := range m.cfg.DevelopmentNetworks.Names() {
		network, ok := m.cfg.Networks[name]
		if !ok {
			continue
		}
		if network.ChainID != 0 {
			instance.ChainID = strconv.FormatUint(network.ChainID, 10)
		}
		if instance.Port == "" && network.RPCURL != "" {
			u, err := url.Parse(network.RPCURL)
			if err != nil {
				return nil, &domain.ConfigError{Key: fmt.Sprintf("networks.%s.url", name), Err: err}
			}
			instance.Port = u.Port()
		}
		break
	}
	return instance, nil
}

func (m *ManageAnvil) start(ctx context.Context, instance *domain.AnvilInstance) (*ManageAnvilResult, error) {
	m.progress.Info(fmt.Sprintf("🔨 Starting local anvil node on port %s...", portOrDefault(instance.Port)))

	// Check if already running
	status, err := m.anvilManager.GetStatus(ctx, instance)
	if err == nil && status.Running {
		return nil, fmt.Errorf("anvil '%s' is already running (PID %d)", instance.Name, status.PID)
	}

	if err := m.anvilManager.Start(ctx, instance); err != nil {
		return nil, fmt.Errorf("failed to start anvil: %w", err)
	}

	status, err = m.anvilManager.GetStatus(ctx, instance)
	if err != nil {
		return nil, fmt.Errorf("failed to get status after start: %w", err)
	}

	return &ManageAnvilResult{
		Operation: "start",
		Instance:  instance,
		Status:    status,
		Success:   true,
		Message:   fmt.Sprintf("Anvil '%s' started with PID %d", instance.Name, status.PID),
	}, nil
}

func (m *ManageAnvil) stop(ctx context.Context, instance *domain.AnvilInstance) (*ManageAnvilResult, error) {
	status, err := m.anvilManager.GetStatus(ctx, instance)
	if err != nil || !status.Running {
		return &ManageAnvilResult{
			Operation: "stop",
			Instance:  instance,
			Success:   true,
			Message:   fmt.Sprintf("Anvil '%s' is not running", instance.Name),
		}, nil
	}

	m.progress.Info(fmt.Sprintf("🛑 Stopping anvil '%s'...", instance.Name))
	if err := m.anvilManager.Stop(ctx, instance); err != nil {
		return nil, fmt.Errorf("failed to stop anvil: %w", err)
	}

	return &ManageAnvilResult{
		Operation: "stop",
		Instance:  instance,
		Success:   true,
		Message:   "Anvil stopped",
	}, nil
}

func (m *ManageAnvil) restart(ctx context.Context, instance *domain.AnvilInstance) (*ManageAnvilResult, error) {
	m.progress.Info(fmt.Sprintf("🔄 Restarting anvil '%s'...", instance.Name))

	status, err := m.anvilManager.GetStatus(ctx, instance)
	if err == nil && status.Running {
		if err := m.anvilManager.Stop(ctx, instance); err != nil {
			return nil, fmt.Errorf("failed to stop anvil: %w", err)
		}
	}

	if err := m.anvilManager.Start(ctx, instance); err != nil {
		return nil, fmt.Errorf("failed to start anvil: %w", err)
	}

	status, err = m.anvilManager.GetStatus(ctx, instance)
	if err != nil {
		return nil, fmt.Errorf("failed to get status after restart: %w", err)
	}

	return &ManageAnvilResult{
		Operation: "restart",
		Instance:  instance,
		Status:    status,
		Success:   true,
		Message:   fmt.Sprintf("Anvil '%s' restarted with PID %d", instance.Name, status.PID),
	}, nil
}

func (m *ManageAnvil) status(ctx context.Context, operation string, instance *domain.AnvilInstance) (*ManageAnvilResult, error) {
	status, err := m.anvilManager.GetStatus(ctx, instance)
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	// Log streaming itself is handled by the renderer
	return &ManageAnvilResult{
		Operation: operation,
		Instance:  instance,
		Status:    status,
		Success:   true,
	}, nil
}

func (m *ManageAnvil) snapshot(ctx context.Context, instance *domain.AnvilInstance) (*ManageAnvilResult, error) {
	id, err := m.anvilManager.TakeSnapshot(ctx, instance)
	if err != nil {
		return nil, err
	}
	return &ManageAnvilResult{
		Operation:  "snapshot",
		Instance:   instance,
		SnapshotID: id,
		Success:    true,
		Message:    fmt.Sprintf("Snapshot %s taken", id),
	}, nil
}

func (m *ManageAnvil) revert(ctx context.Context, instance *domain.AnvilInstance, snapshotID string) (*ManageAnvilResult, error) {
	if snapshotID == "" {
		return nil, fmt.Errorf("snapshot ID is required")
	}
	if err := m.anvilManager.RevertSnapshot(ctx, instance, snapshotID); err != nil {
		return nil, err
	}
	return &ManageAnvilResult{
		Operation:  "revert",
		Instance:   instance,
		SnapshotID: snapshotID,
		Success:    true,
		Message:    fmt.Sprintf("Reverted to snapshot %s", snapshotID),
	}, nil
}

func portOrDefault(port string) string {
	if port == "" {
		return "8545"
	}
	return port
}
