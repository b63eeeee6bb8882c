package anvil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/fundme/internal/domain"
)

const (
	DefaultAnvilName = "anvil"
	DefaultAnvilPort = "8545"

	defaultPidFile = "/tmp/fundme-anvil-pid"
	defaultLogFile = "/tmp/fundme-anvil.log"
)

// Manager runs anvil as a background process tracked by pid and log files
type Manager struct {
	binary       string
	startupDelay time.Duration
	stopTimeout  time.Duration
}

// NewManager creates a new anvil manager
func NewManager() *Manager {
	return &Manager{
		binary:       "anvil",
		startupDelay: 200 * time.Millisecond,
		stopTimeout:  5 * time.Second,
	}
}

// Start starts an anvil instance
func (m *Manager) Start(ctx context.Context, instance *domain.AnvilInstance) error {
	m.setFilePaths(instance)
	if m.isRunning(instance) {
		return fmt.Errorf("anvil '%s' is already running (PID file exists at %s)", instance.Name, instance.PidFile)
	}

	logFile, err := os.Create(instance.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()

	cmd := exec.Command(m.binary, buildAnvilArgs(instance)...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start anvil: %w", err)
	}

	if err := writePidFile(instance.PidFile, cmd.Process.Pid); err != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("failed to write PID file: %w", err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(m.startupDelay):
	}
	return nil
}

// Stop stops an anvil instance
func (m *Manager) Stop(ctx context.Context, instance *domain.AnvilInstance) error {
	m.setFilePaths(instance)
	if !m.isRunning(instance) {
		return nil
	}

	pid, err := readPidFile(instance.PidFile)
	if err != nil {
		return fmt.Errorf("failed to read PID file: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		if err := process.Kill(); err != nil {
			return fmt.Errorf("failed to kill process: %w", err)
		}
	}

	// Wait for the process to exit, force kill on timeout
	deadline := time.Now().Add(m.stopTimeout)
	for time.Now().Before(deadline) {
		if process.Signal(syscall.Signal(0)) != nil {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if process.Signal(syscall.Signal(0)) == nil {
		_ = process.Kill()
	}

	if err := os.Remove(instance.PidFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// GetStatus gets the status of an anvil instance
func (m *Manager) GetStatus(ctx context.Context, instance *domain.AnvilInstance) (*domain.AnvilStatus, error) {
	m.setFilePaths(instance)
	status := &domain.AnvilStatus{
		RPCURL:  rpcURL(instance),
		LogFile: instance.LogFile,
	}

	if !m.isRunning(instance) {
		return status, nil
	}
	status.Running = true
	status.PID, _ = readPidFile(instance.PidFile)

	chainID, err := m.chainID(ctx, instance)
	if err != nil {
		status.Error = err.Error()
		return status, nil
	}
	status.RPCHealthy = true
	status.ChainID = chainID
	return status, nil
}

// StreamLogs copies the instance log to writer until ctx is cancelled
func (m *Manager) StreamLogs(ctx context.Context, instance *domain.AnvilInstance, writer io.Writer) error {
	m.setFilePaths(instance)
	f, err := os.Open(instance.LogFile)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("log file does not exist: %s", instance.LogFile)
		}
		return err
	}
	defer f.Close()

	for {
		if _, err := io.Copy(writer, f); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(250 * time.Millisecond):
		}
	}
}

// TakeSnapshot records the chain state and returns the snapshot ID
func (m *Manager) TakeSnapshot(ctx context.Context, instance *domain.AnvilInstance) (string, error) {
	var snapshotID string
	if err := m.call(ctx, instance, &snapshotID, "evm_snapshot"); err != nil {
		return "", fmt.Errorf("evm_snapshot failed: %w", err)
	}
	return snapshotID, nil
}

// RevertSnapshot restores the chain state recorded by TakeSnapshot
func (m *Manager) RevertSnapshot(ctx context.Context, instance *domain.AnvilInstance, snapshotID string) error {
	var ok bool
	if err := m.call(ctx, instance, &ok, "evm_revert", snapshotID); err != nil {
		return fmt.Errorf("evm_revert failed: %w", err)
	}
	if !ok {
		return errors.New("evm_revert returned false")
	}
	return nil
}

func (m *Manager) chainID(ctx context.Context, instance *domain.AnvilInstance) (uint64, error) {
	var id hexutil.Uint64
	if err := m.call(ctx, instance, &id, "eth_chainId"); err != nil {
		return 0, fmt.Errorf("RPC not responding: %w", err)
	}
	return uint64(id), nil
}

func (m *Manager) call(ctx context.Context, instance *domain.AnvilInstance, result any, method string, args ...any) error {
	client, err := rpc.DialContext(ctx, rpcURL(instance))
	if err != nil {
		return err
	}
	defer client.Close()
	return client.CallContext(ctx, result, method, args...)
}

// setFilePaths fills in name, port and per-instance pid/log files
func (m *Manager) setFilePaths(instance *domain.AnvilInstance) {
	if strings.TrimSpace(instance.Name) == "" {
		instance.Name = DefaultAnvilName
	}
	if strings.TrimSpace(instance.Port) == "" {
		instance.Port = DefaultAnvilPort
	}
	if instance.PidFile != "" && instance.LogFile != "" {
		return
	}
	pidPath := filepath.Join("/tmp", fmt.Sprintf("fundme-%s.pid", instance.Name))
	logPath := filepath.Join("/tmp", fmt.Sprintf("fundme-%s.log", instance.Name))
	if instance.Name == DefaultAnvilName && instance.Port == DefaultAnvilPort {
		pidPath, logPath = defaultPidFile, defaultLogFile
	}
	if instance.PidFile == "" {
		instance.PidFile = pidPath
	}
	if instance.LogFile == "" {
		instance.LogFile = logPath
	}
}

func (m *Manager) isRunning(instance *domain.AnvilInstance) bool {
	pid, err := readPidFile(instance.PidFile)
	if err != nil {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}

func buildAnvilArgs(instance *domain.AnvilInstance) []string {
	args := []string{"--port", instance.Port, "--host", "0.0.0.0"}
	if instance.ChainID != "" {
		args = append(args, "--chain-id", instance.ChainID)
	}
	return args
}

func rpcURL(instance *domain.AnvilInstance) string {
	return fmt.Sprintf("http://127.0.0.1:%s", instance.Port)
}

func readPidFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in file: %s", string(data))
	}
	return pid, nil
}

func writePidFile(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)), 0644)
}
