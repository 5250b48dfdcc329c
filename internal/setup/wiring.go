package setup

import (
	"context"
	"fmt"

	"github.com/povarna/generative-ai-agents/synereval/internal/aggregator"
	"github.com/povarna/generative-ai-agents/synereval/internal/batch"
	"github.com/povarna/generative-ai-agents/synereval/internal/config"
	"github.com/povarna/generative-ai-agents/synereval/internal/executor"
	"github.com/povarna/generative-ai-agents/synereval/internal/grader"
	"github.com/povarna/generative-ai-agents/synereval/internal/judge"
	"github.com/povarna/generative-ai-agents/synereval/internal/llm"
	"github.com/povarna/generative-ai-agents/synereval/internal/llm/bedrock"
	"github.com/povarna/generative-ai-agents/synereval/internal/llm/gpt"
	"github.com/povarna/generative-ai-agents/synereval/internal/llm/ollama"
	"github.com/povarna/generative-ai-agents/synereval/internal/scorer"
	"github.com/povarna/generative-ai-agents/synereval/internal/similarity"
	"github.com/rs/zerolog"
)

// ModelInfo describes the models behind each scorer.
type ModelInfo struct {
	JudgeProvider      string `json:"judge_provider"`
	JudgeModel         string `json:"judge_model"`
	StructuredProvider string `json:"structured_provider"`
	StructuredModel    string `json:"structured_model"`
	SimilarityBackend  string `json:"similarity_backend"`
	EmbeddingModel     string `json:"embedding_model,omitempty"`
	Language           string `json:"language"`
}

type Dependencies struct {
	Judge            *judge.RubricJudge
	Similarity       scorer.SimilarityScorer
	Structured       scorer.StructuredGrader
	DocumentExecutor *executor.DocumentExecutor
	Orchestrator     *batch.Orchestrator
	Aggregator       *aggregator.Aggregator
	ModelInfo        ModelInfo
	Logger           *zerolog.Logger
}

// Wire builds every scorer once and injects them into the executors.
func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	graderConfig, err := config.LoadGraderConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load grader config: %w", err)
	}

	judgeClient, judgeModel, err := createLLMClient(ctx, cfg.JudgeProvider, cfg.JudgeModelID, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create judge client: %w", err)
	}
	rubricJudge, err := judge.NewRubricJudge(graderConfig.Judge, judgeModel, judgeClient, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build rubric judge: %w", err)
	}

	var structured scorer.StructuredGrader = grader.Disabled{}
	structuredModel := ""
	structuredClient, model, err := createLLMClient(ctx, cfg.StructuredProvider, cfg.StructuredModelID, cfg)
	if err != nil {
		logger.Warn().Err(err).Str("provider", cfg.StructuredProvider).Msg("structured grader disabled")
	} else {
		g, err := grader.NewStructured(graderConfig.Structured, model, structuredClient, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to build structured grader: %w", err)
		}
		structured = g
		structuredModel = model
	}

	backend := graderConfig.Similarity.Backend
	if cfg.SimilarityBackend != "" {
		backend = cfg.SimilarityBackend
	}
	embeddingModel := firstNonEmpty(cfg.EmbeddingModelID, graderConfig.Similarity.EmbeddingModel, similarity.DefaultEmbeddingModel())

	var embedder llm.Embedder
	if backend != similarity.BackendLexical {
		embeddingClient, err := ollama.NewClient(cfg.OllamaHost, "", embeddingModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create embedding client: %w", err)
		}
		embedder = embeddingClient
	} else {
		embeddingModel = ""
	}
	similarityScorer, err := similarity.New(backend, embedder, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build similarity scorer: %w", err)
	}

	docExec := executor.NewDocumentExecutor(similarityScorer, rubricJudge, structured, cfg.Workers, logger)
	orchestrator := batch.NewOrchestrator(similarityScorer, rubricJudge, cfg.Workers, logger)

	return &Dependencies{
		Judge:            rubricJudge,
		Similarity:       similarityScorer,
		Structured:       structured,
		DocumentExecutor: docExec,
		Orchestrator:     orchestrator,
		Aggregator:       aggregator.NewAggregator(logger),
		ModelInfo: ModelInfo{
			JudgeProvider:      cfg.JudgeProvider,
			JudgeModel:         judgeModel,
			StructuredProvider: cfg.StructuredProvider,
			StructuredModel:    structuredModel,
			SimilarityBackend:  backend,
			EmbeddingModel:     embeddingModel,
			Language:           similarity.Language,
		},
		Logger: logger,
	}, nil
}

const DefaultOllamaModel = "llama3.2:3b"

// createLLMClient returns the client and the model id it is bound to.
// An empty modelID selects the provider's configured model.
func createLLMClient(ctx context.Context, provider string, modelID string, cfg *Config) (llm.LLMClient, string, error) {
	switch provider {
	case "ollama":
		modelID = firstNonEmpty(modelID, DefaultOllamaModel)
		client, err := ollama.NewClient(cfg.OllamaHost, modelID, "")
		return client, modelID, err
	case "bedrock":
		modelID = firstNonEmpty(modelID, cfg.ClaudeModelID)
		if modelID == "" {
			return nil, "", fmt.Errorf("CLAUDE_MODEL_ID is required for the bedrock provider")
		}
		client, err := bedrock.NewClient(ctx, cfg.AWSRegion, modelID)
		return client, modelID, err
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, "", fmt.Errorf("OPEN_AI_KEY is required for the openai provider")
		}
		modelID = firstNonEmpty(modelID, cfg.OpenAIModelID)
		client, err := gpt.NewClient(cfg.OpenAIKey, modelID, cfg.OpenAIBaseURL)
		return client, modelID, err
	default:
		return nil, "", fmt.Errorf("unknown llm provider %q", provider)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
