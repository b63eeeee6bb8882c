package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/fundme/internal/cli/render"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

type networkJSON struct {
	Name          string `json:"name"`
	ChainID       uint64 `json:"chainId"`
	Development   bool   `json:"development"`
	Current       bool   `json:"current"`
	Confirmations uint64 `json:"confirmations"`
	PriceFeed     string `json:"priceFeed,omitempty"`
	Error         string `json:"error,omitempty"`
}

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List configured networks",
		Long: `List the networks configured in fundme.toml (or the built-in defaults)
with their chain ID, kind, block confirmations and the ETH/USD price feed
FundMe is deployed against.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context(), usecase.ListNetworksParams{})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return printJSON(cmd.OutOrStdout(), networksToJSON(result))
			}
			return render.NewNetworksRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	return cmd
}

func networksToJSON(result *usecase.ListNetworksResult) []networkJSON {
	out := make([]networkJSON, 0, len(result.Networks))
	for _, n := range result.Networks {
		item := networkJSON{
			Name:          n.Name,
			ChainID:       n.ChainID,
			Development:   n.Development,
			Current:       n.Name == result.Current,
			Confirmations: n.Confirmations,
		}
		if n.PriceFeed != nil {
			item.PriceFeed = n.PriceFeed.Hex()
		}
		if n.Error != nil {
			item.Error = n.Error.Error()
		}
		out = append(out, item)
	}
	return out
}
