package ollama

import (
	"context"
	"fmt"

	"github.com/ollama/ollama/api"
)

// Embed returns one embedding per input using a single /api/embed call.
func (c *Client) Embed(ctx context.Context, inputs []string) ([][]float64, error) {
	if c.EmbeddingModelID == "" {
		return nil, fmt.Errorf("ollama embedding model is not configured")
	}
	if len(inputs) == 0 {
		return [][]float64{}, nil
	}

	req := &api.EmbedRequest{
		Model: c.EmbeddingModelID,
		Input: inputs,
	}
	if c.KeepAlive > 0 {
		req.KeepAlive = &api.Duration{Duration: c.KeepAlive}
	}

	res, err := c.api.Embed(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("unable to embed with %s: %w", c.EmbeddingModelID, err)
	}

	if len(res.Embeddings) != len(inputs) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(inputs), len(res.Embeddings))
	}

	embeddings := make([][]float64, 0, len(res.Embeddings))
	for _, embedding := range res.Embeddings {
		vector := make([]float64, len(embedding))
		for i, v := range embedding {
			vector[i] = float64(v)
		}
		embeddings = append(embeddings, vector)
	}
	return embeddings, nil
}
