package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/synereval/internal/flowcount"
	"github.com/povarna/generative-ai-agents/synereval/internal/models"
)

// Evaluator grades model responses against reference responses.
type Evaluator interface {
	Execute(ctx context.Context, instruction string, candidates []string, references []string, rubric models.RubricSpec) ([]models.DocumentResult, error)
}

// EvaluateInput is the MCP tool input schema (matches HTTP API field names).
type EvaluateInput struct {
	RequestID          string            `json:"request_id,omitempty" jsonschema:"optional request identifier echoed in the result"`
	Instruction        string            `json:"instruction" jsonschema:"instruction the responses answer"`
	ModelResponses     []string          `json:"model_responses" jsonschema:"responses to grade"`
	ReferenceResponses []string          `json:"reference_responses" jsonschema:"reference answer for each response, same length"`
	Rubric             models.RubricSpec `json:"rubric" jsonschema:"five-level grading rubric"`
}

// CountInput is the MCP tool input schema for counting generative answers.
type CountInput struct {
	YAML string `json:"yaml" jsonschema:"dialog definition in YAML"`
}

// CountOutput mirrors flowcount.Summary with the nested flow as a plain object,
// since tool schemas cannot describe the recursive flow type.
type CountOutput struct {
	MainFlow   map[string]any `json:"main_flow" jsonschema:"count and condition groups of the main flow"`
	TotalCount int            `json:"total_count" jsonschema:"generative answers across all flows"`
}

// NewEvaluateHandler returns a tool handler that uses the given evaluator.
// Pass the returned function to mcp.AddTool.
func NewEvaluateHandler(evaluator Evaluator) func(context.Context, *mcp.CallToolRequest, EvaluateInput) (*mcp.CallToolResult, models.EvaluationResponse, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input EvaluateInput) (*mcp.CallToolResult, models.EvaluationResponse, error) {
		return EvaluateResponses(ctx, evaluator, req, input)
	}
}

// EvaluateResponses runs the document evaluation and returns one result per response.
func EvaluateResponses(
	ctx context.Context,
	evaluator Evaluator,
	req *mcp.CallToolRequest,
	input EvaluateInput,
) (*mcp.CallToolResult, models.EvaluationResponse, error) {
	results, err := evaluator.Execute(ctx, input.Instruction, input.ModelResponses, input.ReferenceResponses, input.Rubric)
	if err != nil {
		return nil, models.EvaluationResponse{}, fmt.Errorf("evaluation rejected: %w", err)
	}
	return nil, models.EvaluationResponse{RequestID: input.RequestID, Results: results}, nil
}

// CountGenerativeResponses counts SearchAndSummarizeContent actions in a dialog YAML.
func CountGenerativeResponses(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input CountInput,
) (*mcp.CallToolResult, CountOutput, error) {
	summary, err := flowcount.Count([]byte(input.YAML))
	if err != nil {
		return nil, CountOutput{}, err
	}

	data, err := json.Marshal(summary.MainFlow)
	if err != nil {
		return nil, CountOutput{}, err
	}
	out := CountOutput{TotalCount: summary.TotalCount}
	if err := json.Unmarshal(data, &out.MainFlow); err != nil {
		return nil, CountOutput{}, err
	}
	return nil, out, nil
}

// NewServer registers the grading tools on a new MCP server.
func NewServer(evaluator Evaluator, version string) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "synereval",
			Version: version,
		}, nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "evaluate_responses",
		Description: "Grade model responses against reference responses with similarity, a rubric judge and a structured multi-criterion grade",
	}, NewEvaluateHandler(evaluator))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "count_generative_responses",
		Description: "Count generative answer actions (SearchAndSummarizeContent) in a dialog YAML, per flow and condition",
	}, CountGenerativeResponses)

	return server
}
