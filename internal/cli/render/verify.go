package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// VerifyRenderer handles rendering of verification results
type VerifyRenderer struct {
	out io.Writer
}

// NewVerifyRenderer creates a new verify renderer
func NewVerifyRenderer(out io.Writer) *VerifyRenderer {
	return &VerifyRenderer{out: out}
}

// Render renders the result of verifying a stored deployment
func (r *VerifyRenderer) Render(result *usecase.VerifyResult) error {
	d := result.Deployment
	name := fmt.Sprintf("%s at %s on %s", contractStyle.Sprint(d.Contract), d.Address.Hex(), networkStyle.Sprint(d.Network))

	if result.Skipped {
		color.New(color.FgYellow).Fprintf(r.out, "⏭️  Skipped %s\n", name)
		if result.Message != "" {
			fmt.Fprintf(r.out, "   %s\n", result.Message)
		}
		return nil
	}

	fmt.Fprintln(r.out, FormatSuccess("Verified "+name))
	if d.Verification.ExplorerURL != "" {
		fmt.Fprintf(r.out, "   %s\n", d.Verification.ExplorerURL)
	}
	if d.Verification.GUID != "" {
		fmt.Fprintf(r.out, "   %s %s\n", labelStyle.Sprint("GUID:"), d.Verification.GUID)
	}
	return nil
}
