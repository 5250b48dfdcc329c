package ollama

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/povarna/generative-ai-agents/synereval/internal/llm"
)

const DefaultHost = "http://localhost:11434"

// Client talks to an Ollama server. ModelID is used for completions and
// EmbeddingModelID for embeddings; either may be empty when unused.
type Client struct {
	api              *api.Client
	Host             string
	ModelID          string
	EmbeddingModelID string
	KeepAlive        time.Duration
	Retry            llm.RetryPolicy
}

func NewClient(host string, modelID string, embeddingModelID string) (*Client, error) {
	if modelID == "" && embeddingModelID == "" {
		return nil, fmt.Errorf("ollama client needs a completion or an embedding model")
	}

	base, err := parseHost(host)
	if err != nil {
		return nil, err
	}

	return &Client{
		api:              api.NewClient(base, &http.Client{Timeout: 5 * time.Minute}),
		Host:             base.String(),
		ModelID:          modelID,
		EmbeddingModelID: embeddingModelID,
		KeepAlive:        30 * time.Minute,
		Retry:            llm.DefaultRetryPolicy(),
	}, nil
}

func parseHost(host string) (*url.URL, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		host = DefaultHost
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}

	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
	}
	if base.Port() == "" && base.Scheme == "http" {
		base.Host = base.Hostname() + ":11434"
	}
	return base, nil
}
