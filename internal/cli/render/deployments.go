package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// DeploymentsRenderer renders deployment lists grouped by network
type DeploymentsRenderer struct {
	out io.Writer
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer) *DeploymentsRenderer {
	return &DeploymentsRenderer{out: out}
}

// Render renders the deployment list
func (r *DeploymentsRenderer) Render(result *usecase.DeploymentListResult) error {
	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.AppendHeader(table.Row{"Network", "Contract", "Address", "Block", "Verification", "Deployed"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
	})

	for _, d := range result.Deployments {
		t.AppendRow(table.Row{
			networkStyle.Sprint(d.Network),
			contractStyle.Sprint(d.Contract),
			addressStyle.Sprint(d.Address.Hex()),
			d.BlockNumber,
			FormatVerification(d.Verification.Status),
			timestampStyle.Sprint(d.DeployedAt.Format("2006-01-02 15:04")),
		})
	}
	t.Render()

	networks := make([]string, 0, len(result.Summary.ByNetwork))
	for name := range result.Summary.ByNetwork {
		networks = append(networks, name)
	}
	sort.Strings(networks)

	fmt.Fprintf(r.out, "\nTotal deployments: %d", result.Summary.Total)
	if len(networks) > 1 {
		fmt.Fprint(r.out, " (")
		for i, name := range networks {
			if i > 0 {
				fmt.Fprint(r.out, ", ")
			}
			fmt.Fprintf(r.out, "%s: %d", name, result.Summary.ByNetwork[name])
		}
		fmt.Fprint(r.out, ")")
	}
	fmt.Fprintln(r.out)
	return nil
}
