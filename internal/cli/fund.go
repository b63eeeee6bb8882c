package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/fundme/internal/cli/render"
)

// NewFundCmd creates the fund command
func NewFundCmd() *cobra.Command {
	var (
		value   string
		account int
	)

	cmd := &cobra.Command{
		Use:   "fund",
		Short: "Send ETH to the deployed FundMe",
		Long: `Call fund() on the FundMe deployed on the selected network.

The contract rejects contributions below its USD minimum with
"Spend this money boss!".`,
		Example: `  fundme fund --value 1ether
  fundme fund --value 0.05eth --account 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			amount, err := parseAmount(value)
			if err != nil {
				return err
			}

			result, err := app.InteractFundMe.Fund(cmd.Context(), amount, account)
			stopProgress(cmd, app)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return printJSON(cmd.OutOrStdout(), result)
			}
			return render.NewFundMeRenderer(cmd.OutOrStdout()).RenderTx(fmt.Sprintf("Funded %s", render.FormatEther(amount)), result)
		},
	}

	cmd.Flags().StringVar(&value, "value", "0.1ether", "Amount to send (e.g. 1ether, 0.5eth, 20gwei, or wei)")
	cmd.Flags().IntVar(&account, "account", 0, "Sending account index (0 is the deployer, others need a development network)")

	return cmd
}

// NewWithdrawCmd creates the withdraw command
func NewWithdrawCmd() *cobra.Command {
	var (
		cheaper bool
		account int
	)

	cmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Withdraw the FundMe balance to the owner",
		Long: `Call withdraw() (or cheaperWithdraw() with --cheaper) on the FundMe
deployed on the selected network. Only the owner may withdraw; other
accounts get FundMe__NotOwner.`,
		Example: `  fundme withdraw
  fundme withdraw --cheaper`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.InteractFundMe.Withdraw(cmd.Context(), cheaper, account)
			stopProgress(cmd, app)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return printJSON(cmd.OutOrStdout(), result)
			}
			action := "Withdraw"
			if cheaper {
				action = "Cheaper withdraw"
			}
			return render.NewFundMeRenderer(cmd.OutOrStdout()).RenderTx(action, result)
		},
	}

	cmd.Flags().BoolVar(&cheaper, "cheaper", false, "Use cheaperWithdraw()")
	cmd.Flags().IntVar(&account, "account", 0, "Sending account index (0 is the deployer)")

	return cmd
}

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the state of the deployed FundMe",
		Long:  `Show owner, price feed, balance and funders of the FundMe deployed on the selected network.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			status, err := app.InteractFundMe.Status(cmd.Context())
			stopProgress(cmd, app)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return printJSON(cmd.OutOrStdout(), status)
			}
			return render.NewFundMeRenderer(cmd.OutOrStdout()).RenderStatus(status)
		},
	}

	return cmd
}
