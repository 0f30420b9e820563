package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/veridoc-labs/veridoc-cli/internal/cache"
	"github.com/veridoc-labs/veridoc-cli/internal/citation"
	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate citation tags in existing answer text",
	Long: `Extracts every citation tag from the given text and checks it
against the stored page text of the corpus. Reads from the file
argument, or from stdin when no argument is given.

No generation happens; this checks text produced elsewhere.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	var (
		text []byte
		err  error
	)
	if len(args) == 1 {
		text, err = os.ReadFile(args[0])
	} else {
		text, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("reading answer text: %w", err)
	}

	store, err := deps.OpenStore()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	validator := citation.NewValidator(cache.NewPageTextCache(store))
	results, grounding, err := validator.Validate(cmd.Context(), string(text))
	if err != nil {
		return err
	}

	if grounding.Total == 0 {
		cmd.Println("No citation tags found.")
		return nil
	}

	for _, result := range results {
		cmd.Printf("%-20s %s\n", result.Status, result.Raw)
		if result.Status == domain.StatusTextMismatch {
			cmd.Printf("%-20s page says: %s\n", "", snippet(result.CitedText, 120))
		}
	}
	cmd.Printf("\nGrounding: %d/%d valid (%.0f%%)\n",
		grounding.Valid, grounding.Total, grounding.Percent)
	return nil
}
