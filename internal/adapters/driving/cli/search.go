package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veridoc-labs/veridoc-cli/internal/cache"
	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
	"github.com/veridoc-labs/veridoc-cli/internal/core/services"
	"github.com/veridoc-labs/veridoc-cli/internal/index/dense"
	"github.com/veridoc-labs/veridoc-cli/internal/index/lexical"
)

var (
	searchLimit int
	searchJSON  bool
	queryPolicy string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the ingested corpus",
	Long: `Runs hybrid retrieval over the ingested corpus: BM25 keyword
ranking and dense vector similarity are computed independently and
merged with reciprocal rank fusion.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (default from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringVar(&queryPolicy, "policy", "", "chunking policy override (structural or semantic)")
	rootCmd.AddCommand(searchCmd)
}

// queryEnv bundles the session state the query-side commands share.
type queryEnv struct {
	store     driven.DocumentStore
	embedder  driven.EmbeddingService
	session   *cache.Session
	retrieval *services.Retrieval
	settings  domain.Settings
}

// openQueryEnv loads settings, opens the store and builds the
// in-memory corpus session.
func openQueryEnv(ctx context.Context) (*queryEnv, error) {
	settings, err := loadSettings(queryPolicy)
	if err != nil {
		return nil, err
	}

	store, err := deps.OpenStore()
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	embedder := openEmbedder(ctx, settings)
	session := cache.NewSession(store)
	retrieval := services.NewRetrieval(store, lexical.New(
		lexical.WithK1(settings.BM25K1),
		lexical.WithB(settings.BM25B),
	), dense.New(), embedder, session, settings)

	if _, err := retrieval.BuildCorpus(ctx); err != nil {
		store.Close()
		return nil, err
	}

	return &queryEnv{
		store:     store,
		embedder:  embedder,
		session:   session,
		retrieval: retrieval,
		settings:  settings,
	}, nil
}

func (e *queryEnv) Close() {
	if e.embedder != nil {
		e.embedder.Close()
	}
	e.store.Close()
}

func runSearch(cmd *cobra.Command, args []string) error {
	env, err := openQueryEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	results, err := env.retrieval.Retrieve(cmd.Context(), args[0], searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.RetrievedChunk) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.RetrievedChunk) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range results {
		c := r.Chunk
		cmd.Printf("  [%d] %s p.%d %d:%d (fused %.4f)\n",
			i+1, c.DocID, c.Page, c.CharStart, c.CharEnd, r.FusedScore)
		if c.Heading != "" {
			cmd.Printf("      Section: %s\n", c.Heading)
		}
		cmd.Printf("      %s\n", snippet(c.Text, 160))
		cmd.Println()
	}
	return nil
}

// snippet trims text to at most n bytes on a word boundary.
func snippet(text string, n int) string {
	if len(text) <= n {
		return text
	}
	cut := text[:n]
	for i := len(cut) - 1; i > 0; i-- {
		if cut[i] == ' ' {
			cut = cut[:i]
			break
		}
	}
	return cut + "..."
}
