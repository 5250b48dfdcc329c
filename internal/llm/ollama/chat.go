package ollama

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ollama/ollama/api"
	"github.com/povarna/generative-ai-agents/synereval/internal/llm"
)

func (c *Client) InvokeModel(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	if c.ModelID == "" {
		return nil, fmt.Errorf("ollama completion model is not configured")
	}

	chatRequest, err := c.buildChatRequest(request)
	if err != nil {
		return nil, err
	}

	var response llm.LLMResponse
	err = c.api.Chat(ctx, chatRequest, func(resp api.ChatResponse) error {
		response.Content += resp.Message.Content
		if resp.Done {
			response.StopReason = resp.DoneReason
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to invoke ollama model %s: %w", c.ModelID, err)
	}

	return &response, nil
}

func (c *Client) InvokeModelWithRetry(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	return c.Retry.Do(ctx, func(ctx context.Context) (*llm.LLMResponse, error) {
		return c.InvokeModel(ctx, request)
	})
}

func (c *Client) buildChatRequest(request llm.LLMRequest) (*api.ChatRequest, error) {
	var messages []api.Message
	if request.System != "" {
		messages = append(messages, api.Message{Role: "system", Content: request.System})
	}
	messages = append(messages, api.Message{Role: "user", Content: request.Prompt})

	stream := false
	options := map[string]any{
		"temperature": request.Temperature,
	}
	if request.MaxTokens > 0 {
		options["num_predict"] = request.MaxTokens
	}

	chatRequest := &api.ChatRequest{
		Model:    c.ModelID,
		Messages: messages,
		Stream:   &stream,
		Options:  options,
	}
	if c.KeepAlive > 0 {
		chatRequest.KeepAlive = &api.Duration{Duration: c.KeepAlive}
	}

	if request.Schema != nil {
		format, err := json.Marshal(request.Schema.Schema)
		if err != nil {
			return nil, fmt.Errorf("unable to serialize response schema: %w", err)
		}
		chatRequest.Format = format
	}

	return chatRequest, nil
}
