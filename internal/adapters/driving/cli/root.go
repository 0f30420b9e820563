// Package cli implements the command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
	"github.com/veridoc-labs/veridoc-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Deps are the adapter factories the commands compose services from.
// Collaborator factories run lazily so commands that never talk to a
// provider (validate, docs) work without one configured.
type Deps struct {
	// Config loads and saves settings.
	Config driven.ConfigStore

	// OpenStore opens the document store.
	OpenStore func() (driven.DocumentStore, error)

	// Extractor reads PDF files.
	Extractor driven.PageExtractor

	// BuildChunker creates the chunker for the policy in settings. The
	// embedder is only used by the semantic policy and may be nil.
	BuildChunker func(domain.Settings, driven.EmbeddingService) (driven.Chunker, error)

	// NewEmbedder creates the embedding collaborator, nil when none is
	// configured.
	NewEmbedder func(domain.Settings) (driven.EmbeddingService, error)

	// NewGenerator creates the generation collaborator, nil when none
	// is configured.
	NewGenerator func(domain.Settings) (driven.GenerationService, error)
}

// deps holds the wiring injected by main.
var deps *Deps

// SetDeps injects the adapter factories before Execute runs.
func SetDeps(d *Deps) {
	deps = d
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "veridoc",
	Short: "Question answering over local PDFs with verifiable citations",
	Long: `Veridoc ingests local PDF files and answers questions about them.

Every factual claim in an answer carries a citation tag addressing an
exact character range of a stored page, and every tag is checked
against the stored text before the answer is shown. A citation is not
a hint; it is a verifiable claim.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose progress output")
}

// Execute runs the CLI.
func Execute() error {
	if deps == nil {
		return fmt.Errorf("cli dependencies not configured")
	}
	return rootCmd.Execute()
}

// loadSettings reads the config file, applying the policy override
// shared by the corpus-facing commands.
func loadSettings(policyOverride string) (domain.Settings, error) {
	settings, err := deps.Config.Load()
	if err != nil {
		return domain.Settings{}, err
	}
	if policyOverride != "" {
		settings.ChunkingPolicy = domain.ChunkPolicy(policyOverride)
		if err := settings.Validate(); err != nil {
			return domain.Settings{}, err
		}
	}
	return settings, nil
}
