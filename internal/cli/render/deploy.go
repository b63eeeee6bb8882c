package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// DeployRenderer renders the records produced by a deploy run
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// Render renders a deploy run summary
func (r *DeployRenderer) Render(result *usecase.RunDeploymentsResult) error {
	headerStyle.Fprintf(r.out, "\nDeployments on %s (chain %d)\n", result.Network.Name, result.Network.ChainID)

	if result.Mock == nil && result.FundMe == nil {
		fmt.Fprintln(r.out, "  Nothing deployed")
		return nil
	}
	if result.Mock != nil {
		r.renderRecord(result.Mock)
	}
	if result.FundMe != nil {
		r.renderRecord(result.FundMe)
	}
	return nil
}

func (r *DeployRenderer) renderRecord(record *domain.DeploymentRecord) {
	fmt.Fprintf(r.out, "\n  %s\n", contractStyle.Sprint(record.Contract))
	fmt.Fprintf(r.out, "    %s %s\n", labelStyle.Sprint("Address:     "), addressStyle.Sprint(record.Address.Hex()))
	fmt.Fprintf(r.out, "    %s %s\n", labelStyle.Sprint("Tx:          "), record.TransactionHash.Hex())
	fmt.Fprintf(r.out, "    %s %d (%d confirmations)\n", labelStyle.Sprint("Block:       "), record.BlockNumber, record.Confirmations)
	fmt.Fprintf(r.out, "    %s %s\n", labelStyle.Sprint("Gas used:    "), FormatGas(record.GasUsed))
	if len(record.Args) > 0 {
		fmt.Fprintf(r.out, "    %s %v\n", labelStyle.Sprint("Args:        "), record.Args)
	}
	fmt.Fprintf(r.out, "    %s %s\n", labelStyle.Sprint("Verification:"), FormatVerification(record.Verification.Status))
	if record.Verification.ExplorerURL != "" {
		fmt.Fprintf(r.out, "    %s %s\n", labelStyle.Sprint("Explorer:    "), record.Verification.ExplorerURL)
	}
	if record.Verification.Status == domain.VerificationStatusFailed && record.Verification.Message != "" {
		fmt.Fprintf(r.out, "    %s\n", FormatWarning(record.Verification.Message))
	}
}
