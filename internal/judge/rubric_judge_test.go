package judge

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/povarna/generative-ai-agents/synereval/internal/config"
	"github.com/povarna/generative-ai-agents/synereval/internal/llm"
	"github.com/povarna/generative-ai-agents/synereval/internal/models"
	"github.com/povarna/generative-ai-agents/synereval/internal/scorer"
	"github.com/rs/zerolog"
)

type MockLLMClient struct {
	ResponseToReturn *llm.LLMResponse
	ErrorToReturn    error

	mu          sync.Mutex
	Calls       int
	RetryCalls  int
	LastRequest *llm.LLMRequest
}

func (m *MockLLMClient) InvokeModel(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	m.LastRequest = &request
	if m.ErrorToReturn != nil {
		return nil, m.ErrorToReturn
	}
	return m.ResponseToReturn, nil
}

func (m *MockLLMClient) InvokeModelWithRetry(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	m.mu.Lock()
	m.RetryCalls++
	m.mu.Unlock()
	return m.InvokeModel(ctx, request)
}

func testRubric() models.RubricSpec {
	return models.RubricSpec{
		Criteria:          "Is the answer factually correct?",
		Score1Description: "Completely wrong.",
		Score2Description: "Mostly wrong.",
		Score3Description: "Partially correct.",
		Score4Description: "Mostly correct.",
		Score5Description: "Fully correct.",
	}
}

func testJudgeConfig(retry bool) config.JudgeConfig {
	return config.JudgeConfig{
		Name:           "test-judge",
		SystemPrompt:   "You are a fair judge assistant.",
		RubricTemplate: "[{{.Criteria}}]\nScore 1: {{.Score1Description}}\nScore 5: {{.Score5Description}}",
		Prompt:         "I: {{.Instruction}}\nR: {{.Response}}\nREF: {{.Reference}}\n{{.Rubric}}",
		Model:          &config.ModelConfig{MaxTokens: 256, Retry: retry},
	}
}

func newTestJudge(t *testing.T, client *MockLLMClient, retry bool) *RubricJudge {
	t.Helper()
	logger := zerolog.Nop()
	j, err := NewRubricJudge(testJudgeConfig(retry), "llama3.2:3b", client, &logger)
	if err != nil {
		t.Fatalf("NewRubricJudge failed: %v", err)
	}
	return j
}

func testUnit() models.EvaluationUnit {
	return models.EvaluationUnit{
		Instruction: "What is the capital of France?",
		Candidate:   "Paris",
		Reference:   "Paris is the capital of France.",
		Rubric:      testRubric(),
	}
}

func TestNewRubricJudge_Errors(t *testing.T) {
	logger := zerolog.Nop()

	cfg := testJudgeConfig(false)
	cfg.Prompt = "{{.Invalid"
	if _, err := NewRubricJudge(cfg, "m", &MockLLMClient{}, &logger); err == nil {
		t.Error("Expected error for invalid template")
	}

	cfg = testJudgeConfig(false)
	cfg.Model = nil
	if _, err := NewRubricJudge(cfg, "m", &MockLLMClient{}, &logger); err == nil {
		t.Error("Expected error for nil model config")
	}

	if _, err := NewRubricJudge(testJudgeConfig(false), "m", nil, &logger); err == nil {
		t.Error("Expected error for nil client")
	}
}

func TestRubricJudge_Grade_Success(t *testing.T) {
	client := &MockLLMClient{
		ResponseToReturn: &llm.LLMResponse{Content: "The response is correct but terse. [RESULT] 4"},
	}
	j := newTestJudge(t, client, false)

	res := j.Grade(context.Background(), testUnit())
	if !res.OK() {
		t.Fatalf("Expected success, got %v", res.Err)
	}
	if res.Value.Score != 4 {
		t.Errorf("Expected score 4, got %v", res.Value.Score)
	}
	if res.Value.Feedback != "The response is correct but terse." {
		t.Errorf("Unexpected feedback %q", res.Value.Feedback)
	}

	req := client.LastRequest
	if req.System != "You are a fair judge assistant." {
		t.Errorf("Expected system prompt to be sent, got %q", req.System)
	}
	for _, want := range []string{"What is the capital of France?", "REF: Paris is the capital", "[Is the answer factually correct?]", "Score 5: Fully correct."} {
		if !strings.Contains(req.Prompt, want) {
			t.Errorf("Expected prompt to contain %q, got:\n%s", want, req.Prompt)
		}
	}
	if client.RetryCalls != 0 {
		t.Error("Expected InvokeModel without retry")
	}
	if j.ModelID() != "llama3.2:3b" {
		t.Errorf("Unexpected model id %s", j.ModelID())
	}
}

func TestRubricJudge_Grade_UsesRetryWhenConfigured(t *testing.T) {
	client := &MockLLMClient{ResponseToReturn: &llm.LLMResponse{Content: "Fine. [RESULT] 5"}}
	j := newTestJudge(t, client, true)

	if res := j.Grade(context.Background(), testUnit()); !res.OK() {
		t.Fatalf("Expected success, got %v", res.Err)
	}
	if client.RetryCalls != 1 {
		t.Errorf("Expected 1 retry call, got %d", client.RetryCalls)
	}
}

func TestRubricJudge_Grade_Failures(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		err      error
		unit     func() models.EvaluationUnit
		wantKind scorer.Kind
	}{
		{name: "llm error", err: errors.New("connection refused"), wantKind: scorer.KindUnavailable},
		{name: "out of range high", content: "Excellent. [RESULT] 7", wantKind: scorer.KindOutOfRange},
		{name: "out of range low", content: "Nothing. [RESULT] 0", wantKind: scorer.KindOutOfRange},
		{name: "no score", content: "I cannot grade this.", wantKind: scorer.KindMalformedResponse},
		{name: "no feedback", content: "[RESULT] 3", wantKind: scorer.KindMalformedResponse},
		{
			name:    "invalid rubric",
			content: "ok [RESULT] 3",
			unit: func() models.EvaluationUnit {
				u := testUnit()
				u.Rubric.Score3Description = ""
				return u
			},
			wantKind: scorer.KindInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &MockLLMClient{
				ResponseToReturn: &llm.LLMResponse{Content: tt.content},
				ErrorToReturn:    tt.err,
			}
			j := newTestJudge(t, client, false)

			unit := testUnit()
			if tt.unit != nil {
				unit = tt.unit()
			}

			res := j.Grade(context.Background(), unit)
			if res.OK() {
				t.Fatalf("Expected failure, got %+v", res.Value)
			}
			if res.Err.Kind != tt.wantKind {
				t.Errorf("Expected kind %s, got %s", tt.wantKind, res.Err.Kind)
			}
			if got := res.ValueOr(scorer.AbsoluteSentinel); got != scorer.AbsoluteSentinel {
				t.Errorf("Expected sentinel grade, got %+v", got)
			}
		})
	}
}

func TestParseOutput(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		wantFeedback string
		wantScore    float64
		wantErr      bool
	}{
		{"standard", "Good answer. [RESULT] 5", "Good answer.", 5, false},
		{"feedback label", "Feedback: Weak answer. [RESULT] 2", "Weak answer.", 2, false},
		{"parenthesised", "Okay. [RESULT] (3)", "Okay.", 3, false},
		{"integer float", "Okay. [RESULT] 3.0", "Okay.", 3, false},
		{"fallback score label", "Partially right.\nScore: 3", "Partially right.", 3, false},
		{"fallback result label", "Mostly right. result: 4", "Mostly right.", 4, false},
		{"marker used twice", "Use [RESULT] format. Good. [RESULT] 4", "Use [RESULT] format. Good.", 4, false},
		{"fractional", "Meh. [RESULT] 2.5", "", 0, true},
		{"empty", "   ", "", 0, true},
		{"marker without number", "Hmm [RESULT] none", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feedback, score, err := ParseOutput(tt.content)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOutput() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if feedback != tt.wantFeedback {
				t.Errorf("Expected feedback %q, got %q", tt.wantFeedback, feedback)
			}
			if score != tt.wantScore {
				t.Errorf("Expected score %v, got %v", tt.wantScore, score)
			}
		})
	}
}

func TestRubricJudge_ConcurrentGrades(t *testing.T) {
	client := &MockLLMClient{ResponseToReturn: &llm.LLMResponse{Content: "Fine. [RESULT] 3"}}
	j := newTestJudge(t, client, false)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if res := j.Grade(context.Background(), testUnit()); !res.OK() {
				t.Errorf("Expected success, got %v", res.Err)
			}
		}()
	}
	wg.Wait()

	if client.Calls != 20 {
		t.Errorf("Expected 20 calls, got %d", client.Calls)
	}
}
