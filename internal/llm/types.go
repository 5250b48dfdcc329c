package llm

type LLMRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
	// Schema constrains the completion to a JSON document when the provider supports it.
	Schema *JSONSchema
}

// JSONSchema names a JSON schema for structured completions.
type JSONSchema struct {
	Name        string
	Description string
	Schema      map[string]any
	Strict      bool
}

type LLMResponse struct {
	Content    string
	StopReason string
}
