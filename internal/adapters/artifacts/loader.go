package artifacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// Loader reads compiled contracts from a forge out/ or hardhat artifacts/ tree
type Loader struct {
	dir   string
	mu    sync.Mutex
	cache map[string]*domain.Artifact
}

// NewLoader creates a loader for dir
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir, cache: make(map[string]*domain.Artifact)}
}

// NewLoaderFromConfig creates a loader for the configured artifacts directory
func NewLoaderFromConfig(cfg *config.RuntimeConfig) *Loader {
	return NewLoader(cfg.ArtifactsDir)
}

// rawArtifact covers both layouts: hardhat stores bytecode as a string, forge as {"object": ...}
type rawArtifact struct {
	Format       string          `json:"_format"`
	ContractName string          `json:"contractName"`
	SourceName   string          `json:"sourceName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     json.RawMessage `json:"bytecode"`
	Metadata     json.RawMessage `json:"metadata"`
	RawMetadata  string          `json:"rawMetadata"`
	AST          struct {
		AbsolutePath string `json:"absolutePath"`
	} `json:"ast"`
}

type debugFile struct {
	BuildInfo string `json:"buildInfo"`
}

type buildInfo struct {
	SolcLongVersion string          `json:"solcLongVersion"`
	Input           json.RawMessage `json:"input"`
}

// Load returns the artifact of contract name
func (l *Loader) Load(ctx context.Context, name string) (*domain.Artifact, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if artifact, ok := l.cache[name]; ok {
		return artifact, nil
	}

	path, err := l.find(name)
	if err != nil {
		return nil, err
	}
	artifact, err := parseArtifact(path, name)
	if err != nil {
		return nil, err
	}
	l.cache[name] = artifact
	return artifact, nil
}

// find locates <File>.sol/<name>.json under the artifacts directory
func (l *Loader) find(name string) (string, error) {
	if _, err := os.Stat(l.dir); os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %s (directory %s does not exist, compile the contracts first)", domain.ErrArtifactNotFound, name, l.dir)
	}

	var matches []string
	err := filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Skip build info and compiler caches
			if path != l.dir && (d.Name() == "build-info" || d.Name() == "cache") {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == name+".json" && strings.HasSuffix(filepath.Dir(path), ".sol") {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to scan %s: %w", l.dir, err)
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s in %s", domain.ErrArtifactNotFound, name, l.dir)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("multiple artifacts named %s: %s", name, strings.Join(matches, ", "))
	}
}

func parseArtifact(path, name string) (*domain.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}
	if len(raw.ABI) == 0 {
		return nil, fmt.Errorf("artifact %s has no ABI", path)
	}

	bytecode, err := decodeBytecode(raw.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", path, err)
	}
	if len(bytecode) == 0 {
		return nil, fmt.Errorf("artifact %s has no creation bytecode (abstract contract or interface?)", path)
	}

	artifact := &domain.Artifact{
		ContractName: name,
		SourceName:   raw.SourceName,
		Path:         path,
		ABI:          raw.ABI,
		Bytecode:     bytecode,
	}

	if raw.Format != "" {
		// hardhat keeps compiler input in build-info, referenced by the .dbg.json sibling
		if err := attachBuildInfo(artifact, path); err != nil {
			return nil, err
		}
		return artifact, nil
	}

	metadata, err := decodeMetadata(raw)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", path, err)
	}
	artifact.Metadata = metadata
	if artifact.SourceName == "" {
		artifact.SourceName = compilationTarget(metadata, name)
	}
	if artifact.SourceName == "" {
		artifact.SourceName = raw.AST.AbsolutePath
	}
	return artifact, nil
}

func decodeBytecode(raw json.RawMessage) ([]byte, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var hex string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &hex); err != nil {
			return nil, err
		}
	} else {
		var obj struct {
			Object string `json:"object"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, err
		}
		hex = obj.Object
	}
	if strings.Contains(hex, "__") {
		return nil, errors.New("bytecode has unlinked library references")
	}
	if hex == "" || hex == "0x" {
		return nil, nil
	}
	if !strings.HasPrefix(hex, "0x") {
		hex = "0x" + hex
	}
	return hexutil.Decode(hex)
}

// decodeMetadata reads forge's metadata object, falling back to rawMetadata
func decodeMetadata(raw rawArtifact) (*domain.ArtifactMetadata, error) {
	source := []byte(raw.Metadata)
	if len(source) == 0 || string(source) == "null" {
		if raw.RawMetadata == "" {
			return nil, nil
		}
		source = []byte(raw.RawMetadata)
	}
	var metadata domain.ArtifactMetadata
	if err := json.Unmarshal(source, &metadata); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}
	return &metadata, nil
}

func compilationTarget(metadata *domain.ArtifactMetadata, name string) string {
	if metadata == nil {
		return ""
	}
	var targets map[string]string
	if err := json.Unmarshal(metadata.Settings["compilationTarget"], &targets); err != nil {
		return ""
	}
	for source, contract := range targets {
		if contract == name {
			return source
		}
	}
	return ""
}

func attachBuildInfo(artifact *domain.Artifact, path string) error {
	dbgPath := strings.TrimSuffix(path, ".json") + ".dbg.json"
	data, err := os.ReadFile(dbgPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	var dbg debugFile
	if err := json.Unmarshal(data, &dbg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", dbgPath, err)
	}
	if dbg.BuildInfo == "" {
		return nil
	}

	infoPath := filepath.Join(filepath.Dir(dbgPath), filepath.FromSlash(dbg.BuildInfo))
	data, err = os.ReadFile(infoPath)
	if err != nil {
		return fmt.Errorf("failed to read build info of %s: %w", artifact.ContractName, err)
	}
	var info buildInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return fmt.Errorf("failed to parse %s: %w", infoPath, err)
	}

	var input struct {
		Language string `json:"language"`
	}
	_ = json.Unmarshal(info.Input, &input)

	metadata := &domain.ArtifactMetadata{Language: input.Language}
	metadata.Compiler.Version = info.SolcLongVersion
	artifact.Metadata = metadata
	artifact.StandardInput = info.Input
	return nil
}

var _ usecase.ArtifactLoader = (*Loader)(nil)
