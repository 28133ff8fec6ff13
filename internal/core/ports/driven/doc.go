// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentSource: Supplies raw document text and metadata blobs
//   - EmbeddingService: Generates vector embeddings
//   - VectorStore: Stores and queries chunk vectors with metadata predicates
//   - LLMService: Generates answers from assembled context
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - HistoryStore: Query history persistence. Without it, history is not recorded.
//   - ProcessedStore: Index-run cache. Without it, every document is reindexed.
//   - PromptStore: Prompt template overrides. Without it, embedded defaults apply.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
