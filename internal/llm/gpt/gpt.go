package gpt

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/povarna/generative-ai-agents/synereval/internal/llm"
)

// MaxRetries is the SDK retry budget of InvokeModelWithRetry. InvokeModel never retries.
const MaxRetries = 3

func (c *Client) InvokeModel(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	return c.invoke(ctx, request)
}

// InvokeModelWithRetry relies on the SDK's own retry middleware.
func (c *Client) InvokeModelWithRetry(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	return c.invoke(ctx, request, option.WithMaxRetries(MaxRetries))
}

func (c *Client) invoke(ctx context.Context, request llm.LLMRequest, opts ...option.RequestOption) (*llm.LLMResponse, error) {
	output, err := c.Client.Chat.Completions.New(ctx, c.buildParams(request), opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to invoke gpt model: %w", err)
	}

	if len(output.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	choice := output.Choices[0]
	if choice.Message.Refusal != "" {
		return nil, fmt.Errorf("model refused the request: %s", choice.Message.Refusal)
	}

	return &llm.LLMResponse{
		Content:    choice.Message.Content,
		StopReason: string(choice.FinishReason),
	}, nil
}

func (c *Client) buildParams(request llm.LLMRequest) openai.ChatCompletionNewParams {
	var messages []openai.ChatCompletionMessageParamUnion
	if request.System != "" {
		messages = append(messages, openai.SystemMessage(request.System))
	}
	messages = append(messages, openai.UserMessage(request.Prompt))

	params := openai.ChatCompletionNewParams{
		Messages:    messages,
		Temperature: openai.Float(request.Temperature),
		Model:       shared.ChatModel(c.ModelID),
	}
	if request.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(request.MaxTokens))
	}

	if request.Schema != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        request.Schema.Name,
					Schema:      request.Schema.Schema,
					Strict:      openai.Bool(request.Schema.Strict),
					Description: openai.String(request.Schema.Description),
				},
			},
		}
	}

	return params
}
