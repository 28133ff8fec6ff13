package driven

// Prompt names known to the prompt store.
const (
	// PromptAnswer frames retrieved context and the user's question for
	// answer generation. Takes two %s placeholders: context, question.
	PromptAnswer = "answer"
)

// PromptStore provides prompt templates for LLM operations. Templates
// are user-editable; implementations fall back to embedded defaults when
// no override exists.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any caching, forcing fresh loads.
	Reload()

	// Dir returns where user overrides live, for display purposes.
	Dir() string
}
