package judge

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/povarna/generative-ai-agents/synereval/internal/config"
	"github.com/povarna/generative-ai-agents/synereval/internal/llm"
	"github.com/povarna/generative-ai-agents/synereval/internal/models"
	"github.com/povarna/generative-ai-agents/synereval/internal/scorer"
	"github.com/rs/zerolog"
)

const (
	Name     = "rubric-judge"
	MinScore = 1
	MaxScore = 5
)

var (
	resultMarker  = "[RESULT]"
	leadingNumber = regexp.MustCompile(`^[\s:(\[]*(-?\d+(?:\.\d+)?)`)
	scoreFallback = regexp.MustCompile(`(?i)(?:\[RESULT\]|score:|result:)\s*(-?\d+(?:\.\d+)?)`)
)

// RubricJudge grades one response at a time against a five-level rubric.
// It holds no mutable state after construction and is safe for concurrent use.
type RubricJudge struct {
	name           string
	modelID        string
	systemPrompt   string
	promptTemplate *template.Template
	rubricTemplate *template.Template
	modelConfig    config.ModelConfig
	llmClient      llm.LLMClient
	logger         *zerolog.Logger
}

type promptData struct {
	Instruction string
	Response    string
	Reference   string
	Rubric      string
}

func NewRubricJudge(
	judgeCfg config.JudgeConfig,
	modelID string,
	llmClient llm.LLMClient,
	logger *zerolog.Logger,
) (*RubricJudge, error) {
	if llmClient == nil {
		return nil, fmt.Errorf("rubric judge requires an llm client")
	}
	if judgeCfg.Model == nil {
		return nil, fmt.Errorf("judge %s has nil model config (should be populated by config loader)", judgeCfg.Name)
	}

	name := judgeCfg.Name
	if name == "" {
		name = Name
	}

	promptTmpl, err := template.New(name).Parse(judgeCfg.Prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template for judge %s: %w", name, err)
	}
	rubricTmpl, err := template.New(name + "-rubric").Parse(judgeCfg.RubricTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rubric template for judge %s: %w", name, err)
	}

	return &RubricJudge{
		name:           name,
		modelID:        modelID,
		systemPrompt:   judgeCfg.SystemPrompt,
		promptTemplate: promptTmpl,
		rubricTemplate: rubricTmpl,
		modelConfig:    *judgeCfg.Model,
		llmClient:      llmClient,
		logger:         logger,
	}, nil
}

// ModelID identifies the model every grade of this judge comes from.
func (j *RubricJudge) ModelID() string {
	return j.modelID
}

func (j *RubricJudge) Name() string {
	return j.name
}

// Grade asks the model for feedback and an integer score in [1, 5].
// Feedback and score always come from the same completion.
func (j *RubricJudge) Grade(ctx context.Context, unit models.EvaluationUnit) scorer.Result[models.AbsoluteGrade] {
	now := time.Now()

	if err := unit.Rubric.Validate(); err != nil {
		return scorer.Failure[models.AbsoluteGrade](Name, scorer.KindInvalidInput, err)
	}

	prompt, err := j.buildPrompt(unit)
	if err != nil {
		j.logger.Error().
			Err(err).
			Str("judge", j.name).
			Msg("failed to build prompt from template")
		return scorer.Failure[models.AbsoluteGrade](Name, scorer.KindInvalidInput, err)
	}

	request := llm.LLMRequest{
		System:      j.systemPrompt,
		Prompt:      prompt,
		MaxTokens:   j.modelConfig.MaxTokens,
		Temperature: j.modelConfig.Temperature,
	}

	var resp *llm.LLMResponse
	if j.modelConfig.Retry {
		resp, err = j.llmClient.InvokeModelWithRetry(ctx, request)
	} else {
		resp, err = j.llmClient.InvokeModel(ctx, request)
	}
	if err != nil {
		j.logger.Error().
			Err(err).
			Str("judge", j.name).
			Str("model", j.modelID).
			Msg("LLM call failed")
		return scorer.Failure[models.AbsoluteGrade](Name, scorer.KindUnavailable, err)
	}

	feedback, score, err := ParseOutput(resp.Content)
	if err != nil {
		j.logger.Error().
			Err(err).
			Str("judge", j.name).
			Str("content", resp.Content).
			Msg("failed to parse judge output")
		return scorer.Failure[models.AbsoluteGrade](Name, scorer.KindMalformedResponse, err)
	}

	if score < MinScore || score > MaxScore {
		j.logger.Error().
			Str("judge", j.name).
			Float64("score", score).
			Msg("judge returned score out of range")
		return scorer.Failure[models.AbsoluteGrade](Name, scorer.KindOutOfRange,
			fmt.Errorf("score %v out of range [%d, %d]", score, MinScore, MaxScore))
	}

	j.logger.Info().
		Str("judge", j.name).
		Float64("score", score).
		Dur("duration", time.Since(now)).
		Msg("judge completed")

	return scorer.Success(models.AbsoluteGrade{Feedback: feedback, Score: score})
}

func (j *RubricJudge) buildPrompt(unit models.EvaluationUnit) (string, error) {
	var rubric bytes.Buffer
	if err := j.rubricTemplate.Execute(&rubric, unit.Rubric); err != nil {
		return "", fmt.Errorf("rubric template execution failed: %w", err)
	}

	var buf bytes.Buffer
	err := j.promptTemplate.Execute(&buf, promptData{
		Instruction: unit.Instruction,
		Response:    unit.Candidate,
		Reference:   unit.Reference,
		Rubric:      rubric.String(),
	})
	if err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}
	return buf.String(), nil
}

// ParseOutput splits "<feedback> [RESULT] <integer>" into feedback and score.
// When the marker is missing it falls back to "Score:" or "Result:" labels.
func ParseOutput(content string) (string, float64, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", 0, fmt.Errorf("empty judge output")
	}

	var feedback, raw string
	if idx := strings.LastIndex(content, resultMarker); idx >= 0 {
		m := leadingNumber.FindStringSubmatch(content[idx+len(resultMarker):])
		if m == nil {
			return "", 0, fmt.Errorf("no score after %s", resultMarker)
		}
		feedback, raw = content[:idx], m[1]
	} else {
		loc := scoreFallback.FindStringSubmatchIndex(content)
		if loc == nil {
			return "", 0, fmt.Errorf("no score found in judge output")
		}
		feedback, raw = content[:loc[0]], content[loc[2]:loc[3]]
	}

	feedback = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(feedback), "Feedback:"))
	if feedback == "" {
		return "", 0, fmt.Errorf("judge output has no feedback")
	}

	score, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid score %q: %w", raw, err)
	}
	if score != math.Trunc(score) {
		return "", 0, fmt.Errorf("score %q is not an integer", raw)
	}

	return feedback, score, nil
}
