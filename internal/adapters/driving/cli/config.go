package cli

import (
	"github.com/spf13/cobra"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := deps.Config.Save(domain.DefaultSettings()); err != nil {
			return err
		}
		cmd.Println("Wrote default configuration.")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		settings, err := deps.Config.Load()
		if err != nil {
			return err
		}
		cmd.Printf("chunking_policy                %s\n", settings.ChunkingPolicy)
		cmd.Printf("structural_window_tokens       %d\n", settings.StructuralWindowTokens)
		cmd.Printf("structural_overlap_tokens      %d\n", settings.StructuralOverlapTokens)
		cmd.Printf("semantic_similarity_threshold  %.2f\n", settings.SemanticSimilarityThreshold)
		cmd.Printf("retrieval_top_k                %d\n", settings.RetrievalTopK)
		cmd.Printf("rrf_k_constant                 %d\n", settings.RRFKConstant)
		cmd.Printf("bm25_k1                        %.2f\n", settings.BM25K1)
		cmd.Printf("bm25_b                         %.2f\n", settings.BM25B)
		cmd.Printf("embedding provider             %s\n", orNone(string(settings.Embedding.Provider)))
		cmd.Printf("llm provider                   %s\n", orNone(string(settings.LLM.Provider)))
		return nil
	},
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
