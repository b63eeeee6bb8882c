package verification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// DefaultAPIURL is the Etherscan multichain API; the chain is selected by the chainid query parameter
const DefaultAPIURL = "https://api.etherscan.io/v2/api"

// Explorer answers that are not terminal
var (
	// ErrPending is returned while a submitted verification is still queued
	ErrPending = errors.New("verification pending")
	// ErrNotIndexed is returned when the explorer has not seen the contract bytecode yet
	ErrNotIndexed = errors.New("contract not yet indexed by explorer")
	// ErrRateLimited is returned when the API key hit its rate limit
	ErrRateLimited = errors.New("explorer rate limit reached")
	// ErrAlreadyVerified is returned when the explorer already holds the source
	ErrAlreadyVerified = errors.New("contract source code already verified")
)

// Service talks to an Etherscan-compatible contract verification API
type Service struct {
	client *http.Client
}

// NewService creates a new verification service
func NewService(client *http.Client) *Service {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Service{client: client}
}

// SubmitParams contains parameters for a verifysourcecode request
type SubmitParams struct {
	Endpoint        string
	ChainID         uint64
	APIKey          string
	Address         common.Address
	ContractName    string // path:Name
	CompilerVersion string // v0.8.7+commit.e28d00a7
	SourceCode      string // solc standard-json input
	ConstructorArgs string // hex, no 0x prefix
}

// etherscanResponse represents Etherscan API response
type etherscanResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

// Submit posts the source for verification and returns the explorer's GUID
func (s *Service) Submit(ctx context.Context, params SubmitParams) (string, error) {
	endpoint, err := endpointURL(params.Endpoint, params.ChainID)
	if err != nil {
		return "", err
	}

	data := url.Values{}
	data.Set("apikey", params.APIKey)
	data.Set("module", "contract")
	data.Set("action", "verifysourcecode")
	data.Set("contractaddress", params.Address.Hex())
	data.Set("sourceCode", params.SourceCode)
	data.Set("codeformat", "solidity-standard-json-input")
	data.Set("contractname", params.ContractName)
	data.Set("compilerversion", params.CompilerVersion)
	if params.ConstructorArgs != "" {
		data.Set("constructorArguements", params.ConstructorArgs) // Note: Etherscan typo
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	result, err := s.do(req)
	if err != nil {
		return "", fmt.Errorf("failed to submit verification: %w", err)
	}
	if result.Status != "1" {
		return "", classify(result.Result)
	}
	return result.Result, nil
}

// CheckStatus reports the state of a submitted verification. It returns nil
// once the source is verified, ErrPending while queued and an error otherwise.
func (s *Service) CheckStatus(ctx context.Context, endpoint string, chainID uint64, apiKey, guid string) error {
	base, err := endpointURL(endpoint, chainID)
	if err != nil {
		return err
	}
	u, _ := url.Parse(base)
	q := u.Query()
	q.Set("apikey", apiKey)
	q.Set("module", "contract")
	q.Set("action", "checkverifystatus")
	q.Set("guid", guid)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}

	result, err := s.do(req)
	if err != nil {
		return fmt.Errorf("failed to check status: %w", err)
	}
	if result.Status == "1" {
		return nil
	}
	err = classify(result.Result)
	if errors.Is(err, ErrAlreadyVerified) {
		return nil
	}
	return err
}

func (s *Service) do(req *http.Request) (*etherscanResponse, error) {
	resp, err := s.client.Do(req) //nolint:gosec // URL is constructed from configured explorer endpoint
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("explorer returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result etherscanResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &result, nil
}

// classify maps an explorer result message to an error
func classify(result string) error {
	lower := strings.ToLower(result)
	switch {
	case strings.Contains(lower, "pending"), strings.Contains(lower, "in queue"):
		return ErrPending
	case strings.Contains(lower, "already verified"):
		return ErrAlreadyVerified
	case strings.Contains(lower, "unable to locate contractcode"):
		return ErrNotIndexed
	case strings.Contains(lower, "rate limit"):
		return ErrRateLimited
	default:
		return errors.New(result)
	}
}

// endpointURL adds the chainid parameter unless the endpoint already carries one
func endpointURL(endpoint string, chainID uint64) (string, error) {
	if endpoint == "" {
		endpoint = DefaultAPIURL
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid verification endpoint %q", endpoint)
	}
	q := u.Query()
	if q.Get("chainid") == "" && chainID != 0 {
		q.Set("chainid", strconv.FormatUint(chainID, 10))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
