package domain

import "fmt"

// Default values for the recognised settings.
const (
	DefaultStructuralWindowTokens      = 512
	DefaultStructuralOverlapTokens     = 50
	DefaultSemanticSimilarityThreshold = 0.75
	DefaultRetrievalTopK               = 4
	DefaultRRFKConstant                = 60
	DefaultBM25K1                      = 1.5
	DefaultBM25B                       = 0.75
)

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	return p == AIProviderOllama || p == AIProviderOpenAI
}

// ProviderSettings configures one AI collaborator.
type ProviderSettings struct {
	// Provider selects the adapter ("openai" or "ollama").
	Provider AIProvider `toml:"provider"`

	// BaseURL overrides the provider's default endpoint.
	BaseURL string `toml:"base_url"`

	// Model is the provider-specific model name.
	Model string `toml:"model"`

	// APIKey authenticates cloud providers. Ignored by Ollama.
	APIKey string `toml:"api_key"`
}

// Settings is the recognised configuration surface. Values are read from
// the TOML config file and overridden by CLI flags.
type Settings struct {
	// ChunkingPolicy selects structural or semantic segmentation.
	ChunkingPolicy ChunkPolicy `toml:"chunking_policy"`

	// StructuralWindowTokens is the token budget per structural window.
	StructuralWindowTokens int `toml:"structural_window_tokens"`

	// StructuralOverlapTokens is the token overlap between consecutive
	// windows within one structural section.
	StructuralOverlapTokens int `toml:"structural_overlap_tokens"`

	// SemanticSimilarityThreshold is the minimum centroid cosine
	// similarity for a sentence unit to join the current chunk.
	SemanticSimilarityThreshold float64 `toml:"semantic_similarity_threshold"`

	// RetrievalTopK is how many fused chunks feed generation.
	RetrievalTopK int `toml:"retrieval_top_k"`

	// RRFKConstant is the k in the 1/(k+rank) fusion formula.
	RRFKConstant int `toml:"rrf_k_constant"`

	// BM25K1 is the BM25 term-frequency saturation parameter.
	BM25K1 float64 `toml:"bm25_k1"`

	// BM25B is the BM25 length-normalisation parameter.
	BM25B float64 `toml:"bm25_b"`

	// EmbeddingDimension pins the expected vector size. Zero means
	// "whatever the embedding collaborator reports".
	EmbeddingDimension int `toml:"embedding_dimension"`

	// Embedding configures the embedding collaborator.
	Embedding ProviderSettings `toml:"embedding"`

	// LLM configures the generation collaborator.
	LLM ProviderSettings `toml:"llm"`
}

// DefaultSettings returns the settings with all defaults applied.
func DefaultSettings() Settings {
	return Settings{
		ChunkingPolicy:              PolicyStructural,
		StructuralWindowTokens:      DefaultStructuralWindowTokens,
		StructuralOverlapTokens:     DefaultStructuralOverlapTokens,
		SemanticSimilarityThreshold: DefaultSemanticSimilarityThreshold,
		RetrievalTopK:               DefaultRetrievalTopK,
		RRFKConstant:                DefaultRRFKConstant,
		BM25K1:                      DefaultBM25K1,
		BM25B:                       DefaultBM25B,
	}
}

// Validate checks the settings for values the pipeline cannot run with.
func (s Settings) Validate() error {
	if !s.ChunkingPolicy.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownPolicy, s.ChunkingPolicy)
	}
	if s.StructuralWindowTokens <= 0 {
		return fmt.Errorf("%w: structural_window_tokens must be positive", ErrInvalidInput)
	}
	if s.StructuralOverlapTokens < 0 {
		return fmt.Errorf("%w: structural_overlap_tokens must not be negative", ErrInvalidInput)
	}
	if s.SemanticSimilarityThreshold < -1 || s.SemanticSimilarityThreshold > 1 {
		return fmt.Errorf("%w: semantic_similarity_threshold must be in [-1, 1]", ErrInvalidInput)
	}
	if s.RetrievalTopK <= 0 {
		return fmt.Errorf("%w: retrieval_top_k must be positive", ErrInvalidInput)
	}
	if s.RRFKConstant <= 0 {
		return fmt.Errorf("%w: rrf_k_constant must be positive", ErrInvalidInput)
	}
	if s.BM25K1 < 0 || s.BM25B < 0 || s.BM25B > 1 {
		return fmt.Errorf("%w: bm25 parameters out of range", ErrInvalidInput)
	}
	return nil
}
