package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/fundme/internal/cli/render"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "show [contract|address]",
		Short: "Show detailed deployment information",
		Long: `Show a deployment recorded on the selected network.

The deployment is looked up by contract name or by deployed address and
defaults to FundMe.`,
		Example: `  fundme show
  fundme show MockV3Aggregator
  fundme show 0x5FbDB2315678afecb367f032d93F642f64180aa3 --yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ShowDeploymentParams{}
			if len(args) == 1 {
				params.Identifier = args[0]
			}

			record, err := app.ShowDeployment.Run(cmd.Context(), params)
			stopProgress(cmd, app)
			if err != nil {
				return fmt.Errorf("failed to resolve deployment: %w", err)
			}

			renderer := render.NewDeploymentRenderer(cmd.OutOrStdout())
			switch {
			case app.Config.JSON:
				return printJSON(cmd.OutOrStdout(), record)
			case asYAML:
				return renderer.RenderYAML(record)
			default:
				return renderer.Render(record)
			}
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Output as YAML")

	return cmd
}
