package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/fundme/internal/cli/render"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// errDeployCancelled is returned when the live network confirmation is declined
var errDeployCancelled = errors.New("deployment cancelled")

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var (
		tags  []string
		reset bool
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the price feed mock and FundMe",
		Long: `Run the deploy steps on the selected network.

Steps run in order and can be selected with --tags:
  mocks   deploy MockV3Aggregator (development networks only)
  fundme  deploy FundMe against the network's ETH/USD price feed and
          verify it when the network is live and ETHERSCAN_API_KEY is set
  all     every step (default)

Deployments to live networks ask for confirmation unless --yes or
--non-interactive is given.`,
		Example: `  # Deploy everything on the local development network
  fundme deploy

  # Redeploy from scratch
  fundme deploy --reset

  # Deploy and verify on a live network
  fundme deploy --network rinkeby --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			cfg := app.Config

			if !cfg.IsDevelopment() && !cfg.Yes && !cfg.NonInteractive && !cfg.JSON {
				label := fmt.Sprintf("Deploy to live network %s (chain %d)", cfg.Network.Name, cfg.Network.ChainID)
				if !confirmPrompt(label) {
					return errDeployCancelled
				}
			}

			result, err := app.RunDeployments.Run(cmd.Context(), usecase.RunDeploymentsParams{
				Tags:  tags,
				Reset: reset,
			})
			stopProgress(cmd, app)
			if err != nil {
				return err
			}

			if cfg.JSON {
				return printJSON(cmd.OutOrStdout(), result)
			}
			return render.NewDeployRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Deploy steps to run ("+strings.Join(usecase.KnownTags, ", ")+")")
	cmd.Flags().BoolVar(&reset, "reset", false, "Drop the network's deployment records before deploying")

	return cmd
}
