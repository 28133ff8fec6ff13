// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters): the IndexOrchestrator runs the
// chunk-normalize-embed-upsert pipeline and the QueryProcessor runs
// extraction, tiered retrieval and answer generation.
package services
