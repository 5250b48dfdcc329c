package grader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/povarna/generative-ai-agents/synereval/internal/config"
	"github.com/povarna/generative-ai-agents/synereval/internal/llm"
	"github.com/povarna/generative-ai-agents/synereval/internal/models"
	"github.com/povarna/generative-ai-agents/synereval/internal/scorer"
	"github.com/rs/zerolog"
)

const Name = "structured-grader"

// ErrDisabled is the cause reported by Disabled.
var ErrDisabled = errors.New("structured grader is not configured")

// Structured grades a response on the fixed criteria through a schema-constrained completion.
type Structured struct {
	name           string
	modelID        string
	systemPrompt   string
	promptTemplate *template.Template
	modelConfig    config.ModelConfig
	schema         *llm.JSONSchema
	llmClient      llm.LLMClient
	logger         *zerolog.Logger
}

type gradeResponse struct {
	Evaluations map[string]*models.CriterionScore `json:"evaluations"`
	FinalScore  *json.Number                      `json:"final_score"`
}

func NewStructured(
	cfg config.StructuredConfig,
	modelID string,
	llmClient llm.LLMClient,
	logger *zerolog.Logger,
) (*Structured, error) {
	if llmClient == nil {
		return nil, fmt.Errorf("structured grader requires an llm client")
	}
	if cfg.Model == nil {
		return nil, fmt.Errorf("structured grader has nil model config (should be populated by config loader)")
	}

	name := cfg.Name
	if name == "" {
		name = Name
	}

	tmpl, err := template.New(name).Parse(cfg.Prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template for %s: %w", name, err)
	}

	return &Structured{
		name:           name,
		modelID:        modelID,
		systemPrompt:   cfg.SystemPrompt,
		promptTemplate: tmpl,
		modelConfig:    *cfg.Model,
		schema:         gradeSchema(),
		llmClient:      llmClient,
		logger:         logger,
	}, nil
}

func (g *Structured) ModelID() string {
	return g.modelID
}

func (g *Structured) Grade(ctx context.Context, instruction string, candidate string, reference string) scorer.Result[models.StructuredGrade] {
	now := time.Now()

	var buf bytes.Buffer
	err := g.promptTemplate.Execute(&buf, struct {
		Instruction string
		Response    string
		Reference   string
	}{instruction, candidate, reference})
	if err != nil {
		return scorer.Failure[models.StructuredGrade](Name, scorer.KindInvalidInput,
			fmt.Errorf("template execution failed: %w", err))
	}

	request := llm.LLMRequest{
		System:      g.systemPrompt,
		Prompt:      buf.String(),
		MaxTokens:   g.modelConfig.MaxTokens,
		Temperature: g.modelConfig.Temperature,
		Schema:      g.schema,
	}

	var resp *llm.LLMResponse
	if g.modelConfig.Retry {
		resp, err = g.llmClient.InvokeModelWithRetry(ctx, request)
	} else {
		resp, err = g.llmClient.InvokeModel(ctx, request)
	}
	if err != nil {
		g.logger.Error().
			Err(err).
			Str("grader", g.name).
			Msg("LLM call failed")
		return scorer.Failure[models.StructuredGrade](Name, scorer.KindUnavailable, err)
	}

	grade, kind, err := ParseGrade(resp.Content)
	if err != nil {
		g.logger.Error().
			Err(err).
			Str("grader", g.name).
			Str("content", resp.Content).
			Msg("invalid structured grade")
		return scorer.Failure[models.StructuredGrade](Name, kind, err)
	}

	g.logger.Info().
		Str("grader", g.name).
		Int("final_score", grade.FinalScore).
		Dur("duration", time.Since(now)).
		Msg("structured grade completed")

	return scorer.Success(grade)
}

// ParseGrade decodes and validates a structured grade. The returned kind
// distinguishes unparsable output from scores outside [1, 10].
func ParseGrade(content string) (models.StructuredGrade, scorer.Kind, error) {
	content = stripMarkdownCodeBlock(content)

	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()
	var parsed gradeResponse
	if err := dec.Decode(&parsed); err != nil {
		return models.StructuredGrade{}, scorer.KindMalformedResponse, fmt.Errorf("failed to deserialize grade: %w", err)
	}

	if parsed.FinalScore == nil {
		return models.StructuredGrade{}, scorer.KindMalformedResponse, fmt.Errorf("missing final_score")
	}
	finalScore, err := parsed.FinalScore.Int64()
	if err != nil {
		return models.StructuredGrade{}, scorer.KindMalformedResponse, fmt.Errorf("final_score %s is not an integer", parsed.FinalScore.String())
	}
	if finalScore < MinScore || finalScore > MaxScore {
		return models.StructuredGrade{}, scorer.KindOutOfRange, fmt.Errorf("final_score %d out of range [%d, %d]", finalScore, MinScore, MaxScore)
	}

	grade := models.StructuredGrade{
		Criteria:   make(map[string]models.CriterionScore, len(models.StructuredCriteria)),
		FinalScore: int(finalScore),
	}
	for _, name := range models.StructuredCriteria {
		c, ok := parsed.Evaluations[name]
		if !ok || c == nil {
			return models.StructuredGrade{}, scorer.KindMalformedResponse, fmt.Errorf("missing criterion %s", name)
		}
		if c.Score < MinScore || c.Score > MaxScore {
			return models.StructuredGrade{}, scorer.KindOutOfRange, fmt.Errorf("criterion %s score %d out of range [%d, %d]", name, c.Score, MinScore, MaxScore)
		}
		grade.Criteria[name] = *c
	}

	return grade, "", nil
}

// stripMarkdownCodeBlock removes markdown code block formatting if present
func stripMarkdownCodeBlock(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		firstNewline := strings.Index(content, "\n")
		if firstNewline == -1 {
			return content
		}

		closingBackticks := strings.LastIndex(content, "```")
		if closingBackticks == -1 || closingBackticks <= firstNewline {
			return content
		}

		content = strings.TrimSpace(content[firstNewline+1 : closingBackticks])
	}

	return content
}

// Disabled is used when no structured model is configured; every grade fails.
type Disabled struct{}

func (Disabled) Grade(context.Context, string, string, string) scorer.Result[models.StructuredGrade] {
	return scorer.Failure[models.StructuredGrade](Name, scorer.KindUnavailable, ErrDisabled)
}

func (Disabled) ModelID() string {
	return ""
}
