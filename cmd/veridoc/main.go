// Command veridoc answers questions over local PDF files with
// verifiable, offset-exact citations.
package main

import (
	"fmt"
	"os"

	"github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/config/file"
	embollama "github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/embedding/ollama"
	embopenai "github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/embedding/openai"
	"github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/extract/pdf"
	llmollama "github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/llm/ollama"
	llmopenai "github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/llm/openai"
	"github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/storage/sqlite"
	"github.com/veridoc-labs/veridoc-cli/internal/adapters/driving/cli"
	"github.com/veridoc-labs/veridoc-cli/internal/chunkers"
	"github.com/veridoc-labs/veridoc-cli/internal/chunkers/semantic"
	"github.com/veridoc-labs/veridoc-cli/internal/chunkers/structural"
	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
)

func main() {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cli.SetDeps(&cli.Deps{
		Config: configStore,
		OpenStore: func() (driven.DocumentStore, error) {
			return sqlite.NewStore("")
		},
		Extractor:    pdf.NewExtractor(),
		BuildChunker: buildChunker,
		NewEmbedder:  newEmbedder,
		NewGenerator: newGenerator,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildChunker resolves the configured policy through the chunker
// registry. The embedder only matters for the semantic policy.
func buildChunker(settings domain.Settings, embedder driven.EmbeddingService) (driven.Chunker, error) {
	registry := chunkers.NewRegistry()
	registry.Register(domain.PolicyStructural, func(s domain.Settings) (driven.Chunker, error) {
		return structural.New(
			structural.WithWindowTokens(s.StructuralWindowTokens),
			structural.WithOverlapTokens(s.StructuralOverlapTokens),
		), nil
	})
	registry.Register(domain.PolicySemantic, func(s domain.Settings) (driven.Chunker, error) {
		if embedder == nil {
			return nil, domain.ErrEmbeddingUnavailable
		}
		return semantic.New(embedder,
			semantic.WithThreshold(s.SemanticSimilarityThreshold),
			semantic.WithMaxTokens(s.StructuralWindowTokens),
		), nil
	})
	return registry.Build(settings.ChunkingPolicy, settings)
}

func newEmbedder(settings domain.Settings) (driven.EmbeddingService, error) {
	cfg := settings.Embedding
	switch cfg.Provider {
	case domain.AIProviderOllama:
		return embollama.NewEmbeddingService(embollama.Config{
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: settings.EmbeddingDimension,
		}), nil
	case domain.AIProviderOpenAI:
		return embopenai.NewEmbeddingService(embopenai.Config{
			APIKey:     apiKey(cfg, "OPENAI_API_KEY"),
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: settings.EmbeddingDimension,
		})
	case "":
		return nil, fmt.Errorf("no embedding provider configured")
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

func newGenerator(settings domain.Settings) (driven.GenerationService, error) {
	cfg := settings.LLM
	switch cfg.Provider {
	case domain.AIProviderOllama:
		return llmollama.NewGenerationService(llmollama.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}), nil
	case domain.AIProviderOpenAI:
		return llmopenai.NewGenerationService(llmopenai.Config{
			APIKey:  apiKey(cfg, "OPENAI_API_KEY"),
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	case "":
		return nil, fmt.Errorf("no llm provider configured")
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// apiKey prefers the config file value, falling back to the
// environment.
func apiKey(cfg domain.ProviderSettings, envVar string) string {
	if cfg.APIKey != "" {
		return cfg.APIKey
	}
	return os.Getenv(envVar)
}
