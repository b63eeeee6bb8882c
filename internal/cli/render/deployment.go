package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/trebuchet-org/fundme/internal/domain"
	"gopkg.in/yaml.v3"
)

// DeploymentRenderer renders detailed information about a single deployment
type DeploymentRenderer struct {
	out io.Writer
}

// NewDeploymentRenderer creates a new deployment renderer
func NewDeploymentRenderer(out io.Writer) *DeploymentRenderer {
	return &DeploymentRenderer{out: out}
}

// Render renders detailed deployment information
func (r *DeploymentRenderer) Render(record *domain.DeploymentRecord) error {
	headerStyle.Fprintf(r.out, "Deployment: %s/%s\n", record.Network, record.Contract)
	fmt.Fprintln(r.out, strings.Repeat("=", 80))

	fmt.Fprintln(r.out, "\nBasic Information:")
	fmt.Fprintf(r.out, "  Contract: %s\n", contractStyle.Sprint(record.Contract))
	fmt.Fprintf(r.out, "  Address: %s\n", addressStyle.Sprint(record.Address.Hex()))
	fmt.Fprintf(r.out, "  Network: %s (chain %d)\n", networkStyle.Sprint(record.Network), record.ChainID)
	fmt.Fprintf(r.out, "  Deployer: %s\n", record.Deployer.Hex())

	if len(record.Args) > 0 {
		fmt.Fprintln(r.out, "\nConstructor Arguments:")
		for i, arg := range record.Args {
			fmt.Fprintf(r.out, "  [%d] %s\n", i, arg)
		}
	}

	fmt.Fprintln(r.out, "\nTransaction:")
	fmt.Fprintf(r.out, "  Hash: %s\n", record.TransactionHash.Hex())
	fmt.Fprintf(r.out, "  Block: %d\n", record.BlockNumber)
	fmt.Fprintf(r.out, "  Gas Used: %s\n", FormatGas(record.GasUsed))
	fmt.Fprintf(r.out, "  Confirmations: %d\n", record.Confirmations)

	fmt.Fprintln(r.out, "\nVerification Status:")
	fmt.Fprintf(r.out, "  Status: %s\n", FormatVerification(record.Verification.Status))
	if record.Verification.ExplorerURL != "" {
		fmt.Fprintf(r.out, "  Explorer: %s\n", record.Verification.ExplorerURL)
	}
	if record.Verification.Message != "" {
		fmt.Fprintf(r.out, "  Message: %s\n", record.Verification.Message)
	}
	if record.Verification.VerifiedAt != nil {
		fmt.Fprintf(r.out, "  Verified At: %s\n", timestampStyle.Sprint(record.Verification.VerifiedAt.Format("2006-01-02 15:04:05")))
	}

	fmt.Fprintf(r.out, "\nDeployed At: %s\n", timestampStyle.Sprint(record.DeployedAt.Format("2006-01-02 15:04:05")))
	return nil
}

// RenderYAML writes the record as YAML; ABI and receipt are left out
func (r *DeploymentRenderer) RenderYAML(record *domain.DeploymentRecord) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(record); err != nil {
		return fmt.Errorf("failed to encode deployment: %w", err)
	}
	return enc.Close()
}
