package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/fundme/internal/cli/render"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "verify [contract]",
		Short: "Verify a stored deployment on the block explorer",
		Long: `Submit the source of a deployment recorded on the selected network to the
network's Etherscan-compatible explorer and wait for the result.

Development networks and runs without ETHERSCAN_API_KEY are skipped.`,
		Example: `  fundme verify --network rinkeby
  fundme verify FundMe --network polygon --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			options := usecase.VerifyOptions{Force: force}
			if len(args) == 1 {
				options.Contract = args[0]
			}

			result, err := app.VerifyDeployment.Run(cmd.Context(), options)
			stopProgress(cmd, app)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return printJSON(cmd.OutOrStdout(), result)
			}
			return render.NewVerifyRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Re-verify even if already verified")

	return cmd
}
