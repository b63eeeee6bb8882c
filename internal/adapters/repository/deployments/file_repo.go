package deployments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// ChainIDFile records which chain a network directory belongs to
const ChainIDFile = ".chainId"

// FileRepository stores one JSON file per deployed contract under
// <root>/<network>/<Contract>.json
type FileRepository struct {
	rootDir string
	mu      sync.RWMutex
}

// NewFileRepository creates a repository rooted at rootDir. The directory is
// created on first save.
func NewFileRepository(rootDir string) *FileRepository {
	return &FileRepository{rootDir: rootDir}
}

// NewFileRepositoryFromConfig creates a new FileRepository from RuntimeConfig
func NewFileRepositoryFromConfig(cfg *config.RuntimeConfig) *FileRepository {
	return NewFileRepository(cfg.DeploymentsDir)
}

// Get returns the record of contract on network
func (m *FileRepository) Get(ctx context.Context, network, contract string) (*domain.DeploymentRecord, error) {
	path, err := m.recordPath(network, contract)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	record, err := loadRecord(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("deployment %s on %s: %w", contract, network, domain.ErrNotFound)
	}
	return record, err
}

// Save writes the record, replacing any earlier deployment of the same contract
func (m *FileRepository) Save(ctx context.Context, record *domain.DeploymentRecord) error {
	path, err := m.recordPath(record.Network, record.Contract)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create deployments directory: %w", err)
	}
	if record.ChainID != 0 {
		if err := writeAtomic(filepath.Join(dir, ChainIDFile), []byte(strconv.FormatUint(record.ChainID, 10))); err != nil {
			return fmt.Errorf("failed to write chain ID: %w", err)
		}
	}

	data, err := json.MarshalIndent(normalize(record), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode deployment %s: %w", record.Contract, err)
	}
	if err := writeAtomic(path, data); err != nil {
		return fmt.Errorf("failed to save deployment %s: %w", record.Contract, err)
	}
	return nil
}

// List returns the records of network, or of every network when network is
// empty, ordered by network then contract
func (m *FileRepository) List(ctx context.Context, network string) ([]*domain.DeploymentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	networks := []string{network}
	if network == "" {
		var err error
		if networks, err = m.networkDirs(); err != nil {
			return nil, err
		}
	} else if err := validateName("network", network); err != nil {
		return nil, err
	}

	var records []*domain.DeploymentRecord
	for _, name := range networks {
		entries, err := os.ReadDir(filepath.Join(m.rootDir, name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read deployments of %s: %w", name, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}
			record, err := loadRecord(filepath.Join(m.rootDir, name, entry.Name()))
			if err != nil {
				return nil, err
			}
			records = append(records, record)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Network != records[j].Network {
			return records[i].Network < records[j].Network
		}
		return records[i].Contract < records[j].Contract
	})
	return records, nil
}

// Reset removes every record of network
func (m *FileRepository) Reset(ctx context.Context, network string) error {
	if err := validateName("network", network); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return os.RemoveAll(filepath.Join(m.rootDir, network))
}

func (m *FileRepository) networkDirs() ([]string, error) {
	entries, err := os.ReadDir(m.rootDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read deployments directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func (m *FileRepository) recordPath(network, contract string) (string, error) {
	if err := validateName("network", network); err != nil {
		return "", err
	}
	if err := validateName("contract", contract); err != nil {
		return "", err
	}
	return filepath.Join(m.rootDir, network, contract+".json"), nil
}

// validateName keeps names from escaping the deployments directory
func validateName(kind, name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid %s name %q", kind, name)
	}
	return nil
}

func loadRecord(path string) (*domain.DeploymentRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var record domain.DeploymentRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &record, nil
}

// normalize returns a copy whose receipt survives a JSON round trip
func normalize(record *domain.DeploymentRecord) *domain.DeploymentRecord {
	if record.Receipt == nil || record.Receipt.Logs != nil {
		return record
	}
	out := *record
	receipt := *record.Receipt
	receipt.Logs = []*types.Log{}
	out.Receipt = &receipt
	return &out
}

// writeAtomic writes to a temp file first, then renames over path
func writeAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

var _ usecase.DeploymentRepository = (*FileRepository)(nil)
