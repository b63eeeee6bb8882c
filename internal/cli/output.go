package cli

import (
	"encoding/json"
	"io"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/fundme/internal/app"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// confirmPrompt asks the user a yes/no question and returns their choice.
func confirmPrompt(label string) bool {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	_, err := prompt.Run()
	return err == nil
}

// stopProgress clears a running spinner before results are printed
func stopProgress(cmd *cobra.Command, a *app.App) {
	a.Progress.OnProgress(cmd.Context(), usecase.ProgressEvent{})
}
