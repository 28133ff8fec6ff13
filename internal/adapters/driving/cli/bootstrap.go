package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/custodia-labs/lexrag-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/lexrag-cli/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/lexrag-cli/internal/adapters/driven/llm/anthropic"
	"github.com/custodia-labs/lexrag-cli/internal/adapters/driven/llm/gemini"
	"github.com/custodia-labs/lexrag-cli/internal/adapters/driven/source/filesystem"
	"github.com/custodia-labs/lexrag-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/lexrag-cli/internal/adapters/driven/vector/chroma"
	"github.com/custodia-labs/lexrag-cli/internal/chunking"
	"github.com/custodia-labs/lexrag-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lexrag-cli/internal/core/services"
	"github.com/custodia-labs/lexrag-cli/internal/query"
)

// configDir is the --config-dir flag value.
var configDir string

// Wired driven adapters, shared across commands after bootstrap.
var (
	configStore  driven.ConfigStore
	vectorStore  driven.VectorStore
	historyStore driven.HistoryStore
	watchSource  driven.DocumentSource
)

// Configuration keys. Values set with `lexrag config set` take
// precedence; API keys fall back to the conventional env variables.
const (
	keySourceDir        = "source.dir"
	keyChromaURL        = "chroma.url"
	keyChromaCollection = "chroma.collection"
	keyEmbeddingAPIKey  = "embedding.api_key"
	keyEmbeddingModel   = "embedding.model"
	keyLLMProvider      = "llm.provider"
	keyLLMAPIKey        = "llm.api_key"
	keyLLMModel         = "llm.model"
	keyChunkSize        = "chunking.max_size"
	keyChunkOverlap     = "chunking.overlap"
	keyIndexWorkers     = "indexing.workers"
)

// ensureConfig wires the config store. Idempotent.
func ensureConfig() error {
	if configStore != nil {
		return nil
	}
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("open configuration: %w", err)
	}
	configStore = store
	return nil
}

// ensureQueryService wires everything a question needs: embeddings,
// vector store, LLM, history and prompt overrides.
func ensureQueryService(ctx context.Context) error {
	if queryService != nil {
		return nil
	}
	if err := ensureConfig(); err != nil {
		return err
	}

	embedder, err := buildEmbedder()
	if err != nil {
		return err
	}
	store := buildVectorStore()
	llm, err := buildLLM(ctx)
	if err != nil {
		return err
	}
	history, err := buildHistoryStore()
	if err != nil {
		return err
	}
	prompts, err := file.NewPromptStore(promptDir())
	if err != nil {
		return err
	}

	vectorStore = store
	historyStore = history
	queryService = services.NewQueryProcessor(query.NewRouter(embedder, store), llm, history, prompts)
	return nil
}

// ensureIndexService wires the batch indexing pipeline.
func ensureIndexService(sourceDir string) error {
	if indexService != nil {
		return nil
	}
	if err := ensureConfig(); err != nil {
		return err
	}

	if sourceDir == "" {
		sourceDir = configStore.GetString(keySourceDir)
	}
	if sourceDir == "" {
		return errors.New("no source directory: pass one or set source.dir")
	}
	source, err := filesystem.NewSource(sourceDir)
	if err != nil {
		return err
	}

	embedder, err := buildEmbedder()
	if err != nil {
		return err
	}
	store := buildVectorStore()
	sqlStore, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("open local storage: %w", err)
	}

	chunker, err := buildChunker()
	if err != nil {
		return err
	}

	vectorStore = store
	watchSource = source
	indexService = services.NewIndexOrchestrator(
		source, embedder, store, sqlStore.ProcessedStore(),
		chunker, configStore.GetInt(keyIndexWorkers),
	)
	return nil
}

func buildEmbedder() (driven.EmbeddingService, error) {
	apiKey := firstNonEmpty(configStore.GetString(keyEmbeddingAPIKey), os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("no embedding API key: set embedding.api_key or OPENAI_API_KEY")
	}
	return openai.NewEmbeddingService(openai.Config{
		APIKey: apiKey,
		Model:  configStore.GetString(keyEmbeddingModel),
	})
}

func buildVectorStore() driven.VectorStore {
	return chroma.NewStore(chroma.Config{
		BaseURL:    configStore.GetString(keyChromaURL),
		Collection: configStore.GetString(keyChromaCollection),
	})
}

// buildLLM selects the generation provider from configuration.
// Anthropic is the default; Gemini is available as llm.provider=gemini.
func buildLLM(ctx context.Context) (driven.LLMService, error) {
	provider := configStore.GetString(keyLLMProvider)
	switch provider {
	case "", "anthropic":
		apiKey := firstNonEmpty(configStore.GetString(keyLLMAPIKey), os.Getenv("ANTHROPIC_API_KEY"))
		if apiKey == "" {
			return nil, errors.New("no LLM API key: set llm.api_key or ANTHROPIC_API_KEY")
		}
		return anthropic.NewLLMService(anthropic.Config{
			APIKey: apiKey,
			Model:  configStore.GetString(keyLLMModel),
		})
	case "gemini":
		apiKey := firstNonEmpty(configStore.GetString(keyLLMAPIKey), os.Getenv("GEMINI_API_KEY"))
		if apiKey == "" {
			return nil, errors.New("no LLM API key: set llm.api_key or GEMINI_API_KEY")
		}
		return gemini.NewLLMService(ctx, gemini.Config{
			APIKey: apiKey,
			Model:  configStore.GetString(keyLLMModel),
		})
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", provider)
	}
}

func buildHistoryStore() (driven.HistoryStore, error) {
	store, err := sqlite.NewStore("")
	if err != nil {
		return nil, fmt.Errorf("open local storage: %w", err)
	}
	return store.HistoryStore(), nil
}

func buildChunker() (*chunking.Chunker, error) {
	var opts []chunking.Option
	if size := configStore.GetInt(keyChunkSize); size > 0 {
		opts = append(opts, chunking.WithChunkSize(size))
	}
	if overlap := configStore.GetInt(keyChunkOverlap); overlap > 0 {
		opts = append(opts, chunking.WithOverlap(overlap))
	}
	return chunking.NewChunker(opts...)
}

func promptDir() string {
	if configDir == "" {
		return ""
	}
	return configDir + string(os.PathSeparator) + "prompts"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// commandContext bounds wiring and remote calls made by one command.
func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Minute)
}
