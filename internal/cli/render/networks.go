package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/fundme/internal/usecase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// Render renders the configured networks and the price feed each one deploys against
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in fundme.toml [networks]")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	title := cases.Title(language.English)
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.AppendHeader(table.Row{"", "Network", "Chain ID", "Kind", "Price Feed", "Confirmations"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})

	for _, n := range result.Networks {
		marker := " "
		if n.Name == result.Current {
			marker = "▸"
		}
		kind := title.String("live")
		if n.Development {
			kind = devStyle.Sprint(title.String("development"))
		}

		feed := skippedStyle.Sprint("-")
		switch {
		case n.Error != nil:
			feed = notVerifiedStyle.Sprintf("error: %v", n.Error)
		case n.PriceFeed != nil:
			feed = addressStyle.Sprint(n.PriceFeed.Hex())
		case n.Development:
			feed = pendingStyle.Sprint("mock not deployed")
		}

		t.AppendRow(table.Row{marker, networkStyle.Sprint(n.Name), n.ChainID, kind, feed, n.Confirmations})
	}
	t.Render()
	return nil
}
