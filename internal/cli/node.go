package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/fundme/internal/cli/render"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// NewNodeCmd creates the node command with subcommands
func NewNodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Manage the local anvil node",
		Long: `Manage a local anvil node serving the development networks. The port and
chain ID default to the first development network's RPC URL and chain ID.`,
	}

	cmd.AddCommand(newNodeCmd("start", "Start local anvil node", "Start a local anvil node. Fails if already running."))
	cmd.AddCommand(newNodeCmd("stop", "Stop local anvil node", "Stop the local anvil node if running."))
	cmd.AddCommand(newNodeCmd("restart", "Restart local anvil node", "Restart the local anvil node. Deployments recorded for it become stale."))
	cmd.AddCommand(newNodeCmd("status", "Show anvil status", "Show status of the local anvil node."))
	cmd.AddCommand(newNodeCmd("logs", "Show anvil logs", "Follow the logs of the local anvil node."))
	cmd.AddCommand(newNodeCmd("snapshot", "Snapshot chain state", "Take an evm_snapshot of the local node and print its ID."))
	cmd.AddCommand(newNodeRevertCmd())

	return cmd
}

// nodeFlags holds common flags for node commands
type nodeFlags struct {
	name string
	port string
}

// addNodeFlags adds common flags to a node command
func addNodeFlags(cmd *cobra.Command, flags *nodeFlags) {
	cmd.Flags().StringVar(&flags.name, "name", "", "Instance name (defaults to anvil)")
	cmd.Flags().StringVar(&flags.port, "port", "", "RPC port to bind (defaults to the development network's port)")
}

func newNodeCmd(operation, short, long string) *cobra.Command {
	flags := &nodeFlags{}

	cmd := &cobra.Command{
		Use:   operation,
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNodeCommand(cmd, usecase.ManageAnvilParams{
				Operation: operation,
				Name:      flags.name,
				Port:      flags.port,
			})
		},
	}

	addNodeFlags(cmd, flags)
	return cmd
}

func newNodeRevertCmd() *cobra.Command {
	flags := &nodeFlags{}

	cmd := &cobra.Command{
		Use:   "revert <snapshot-id>",
		Short: "Revert chain state to a snapshot",
		Long:  `Revert the local node to a snapshot taken with "fundme node snapshot".`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNodeCommand(cmd, usecase.ManageAnvilParams{
				Operation:  "revert",
				Name:       flags.name,
				Port:       flags.port,
				SnapshotID: args[0],
			})
		},
	}

	addNodeFlags(cmd, flags)
	return cmd
}

// runNodeCommand executes a node management command
func runNodeCommand(cmd *cobra.Command, params usecase.ManageAnvilParams) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	result, err := app.ManageAnvil.Execute(cmd.Context(), params)
	if err != nil {
		return err
	}

	renderer := render.NewAnvilRenderer(cmd.OutOrStdout())

	// Logs are streamed until the context is cancelled
	if params.Operation == "logs" {
		if err := renderer.RenderLogsHeader(result); err != nil {
			return err
		}
		return app.AnvilManager.StreamLogs(cmd.Context(), result.Instance, cmd.OutOrStdout())
	}

	if app.Config.JSON {
		return printJSON(cmd.OutOrStdout(), result)
	}
	return renderer.Render(result)
}
