package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
	"github.com/veridoc-labs/veridoc-cli/internal/core/services"
	"github.com/veridoc-labs/veridoc-cli/internal/logger"
)

var ingestPolicy string

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest a PDF file or a directory of PDFs",
	Long: `Extracts page text, cuts it into chunks under the configured
chunking policy, embeds the chunks when an embedding provider is
configured, and stores everything in the local corpus.

Re-ingesting a file refreshes its pages and replaces its chunks under
the active policy. Chunks cut under the other policy are kept, so a
structural and a semantic corpus can coexist over the same documents.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestPolicy, "policy", "", "chunking policy override (structural or semantic)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(ingestPolicy)
	if err != nil {
		return err
	}

	store, err := deps.OpenStore()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	embedder, err := deps.NewEmbedder(settings)
	if err == nil {
		if pingErr := embedder.Ping(cmd.Context()); pingErr != nil {
			embedder.Close()
			embedder, err = nil, fmt.Errorf("embedding provider unreachable: %w", pingErr)
		}
	}
	if err != nil {
		// Semantic chunking cannot run without embeddings; structural
		// ingestion can, it just skips the embedding pass.
		if settings.ChunkingPolicy == domain.PolicySemantic {
			return fmt.Errorf("%w: semantic policy needs an embedding provider", domain.ErrEmbeddingUnavailable)
		}
		logger.Warn("no embedding provider: %v; chunks stored without embeddings", err)
		embedder = nil
	}
	if embedder != nil {
		defer embedder.Close()
	}

	chunker, err := deps.BuildChunker(settings, embedder)
	if err != nil {
		return err
	}

	ingester := services.NewIngester(store, deps.Extractor, chunker, embedder, settings)

	info, err := os.Stat(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	var report *domain.IngestReport
	if info.IsDir() {
		report, err = ingester.IngestDir(cmd.Context(), args[0])
	} else {
		report, err = ingester.IngestFile(cmd.Context(), args[0])
	}
	if err != nil {
		return err
	}

	cmd.Printf("Ingested %d document(s): %d pages, %d chunks (%s policy)\n",
		report.Documents, report.Pages, report.Chunks, settings.ChunkingPolicy)
	if report.SkippedPages > 0 {
		cmd.Printf("Skipped %d page(s) with no extractable text\n", report.SkippedPages)
	}
	return nil
}

// openEmbedder is shared by the query-side commands: a missing or
// unreachable embedding provider degrades to lexical-only retrieval.
func openEmbedder(ctx context.Context, settings domain.Settings) driven.EmbeddingService {
	embedder, err := deps.NewEmbedder(settings)
	if err != nil {
		logger.Warn("no embedding provider: %v; dense retrieval disabled", err)
		return nil
	}
	if err := embedder.Ping(ctx); err != nil {
		logger.Warn("embedding provider unreachable: %v; dense retrieval disabled", err)
		embedder.Close()
		return nil
	}
	return embedder
}
