package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veridoc-labs/veridoc-cli/internal/citation"
	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/services"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question over the ingested corpus",
	Long: `Retrieves the most relevant chunks for the question, generates an
answer with the configured LLM provider, and validates every citation
the answer makes against stored page text.

The grounding summary reports how many citations verified. An answer
is never withheld for bad citations; they are reported alongside it.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the full answer record as JSON")
	askCmd.Flags().StringVar(&queryPolicy, "policy", "", "chunking policy override (structural or semantic)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	env, err := openQueryEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	generator, err := deps.NewGenerator(env.settings)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrGenerationUnavailable, err)
	}
	defer generator.Close()

	// Fail before retrieval rather than after a generation timeout.
	if err := generator.Ping(cmd.Context()); err != nil {
		return fmt.Errorf("%w: provider unreachable: %v", domain.ErrGenerationUnavailable, err)
	}

	validator := citation.NewValidator(env.session.Pages())
	answerer := services.NewAnswerer(env.retrieval, generator, validator, env.settings)

	answer, err := answerer.Ask(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if askJSON {
		return outputAnswerJSON(cmd, answer)
	}
	return outputAnswerText(cmd, answer)
}

func outputAnswerJSON(cmd *cobra.Command, answer *domain.Answer) error {
	data, err := json.MarshalIndent(answer, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswerText(cmd *cobra.Command, answer *domain.Answer) error {
	cmd.Println(answer.Text)
	cmd.Println()

	if answer.Grounding.Total == 0 {
		cmd.Println("Citations: none")
		return nil
	}

	cmd.Printf("Citations: %d/%d valid (%.0f%% grounded)\n",
		answer.Grounding.Valid, answer.Grounding.Total, answer.Grounding.Percent)
	for _, result := range answer.Citations {
		marker := "ok"
		if result.Status != domain.StatusValid {
			marker = string(result.Status)
		}
		cmd.Printf("  %-20s %s\n", marker, result.Raw)
		if result.Status == domain.StatusValid {
			cmd.Printf("  %-20s > %s\n", "", snippet(result.CitedText, 120))
		}
	}
	return nil
}
