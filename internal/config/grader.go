package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default_grader.yaml
var defaultGraderYAML []byte

// GraderConfig holds the prompts and model parameters of every scorer.
type GraderConfig struct {
	DefaultModel ModelConfig      `yaml:"default_model"`
	Judge        JudgeConfig      `yaml:"judge"`
	Structured   StructuredConfig `yaml:"structured"`
	Similarity   SimilarityConfig `yaml:"similarity"`
}

// ModelConfig holds LLM parameters; a nil pointer in a scorer section inherits DefaultModel.
type ModelConfig struct {
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	Retry       bool    `yaml:"retry"`
}

type JudgeConfig struct {
	Name           string       `yaml:"name"`
	SystemPrompt   string       `yaml:"system_prompt"`
	RubricTemplate string       `yaml:"rubric_template"`
	Prompt         string       `yaml:"prompt"`
	Model          *ModelConfig `yaml:"model,omitempty"`
}

type StructuredConfig struct {
	Name         string       `yaml:"name"`
	SystemPrompt string       `yaml:"system_prompt"`
	Prompt       string       `yaml:"prompt"`
	Model        *ModelConfig `yaml:"model,omitempty"`
}

type SimilarityConfig struct {
	Backend        string `yaml:"backend"`
	EmbeddingModel string `yaml:"embedding_model"`
}

// LoadGraderConfig reads the embedded defaults and overlays the file at
// GRADER_CONFIG_PATH when it is set.
func LoadGraderConfig() (*GraderConfig, error) {
	var cfg GraderConfig
	if err := yaml.Unmarshal(defaultGraderYAML, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse embedded grader config: %w", err)
	}

	if path := os.Getenv("GRADER_CONFIG_PATH"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read grader config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse grader config %s: %w", path, err)
		}
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *GraderConfig) {
	if cfg.DefaultModel.MaxTokens == 0 {
		cfg.DefaultModel.MaxTokens = 1024
	}
	if cfg.Judge.Model == nil {
		model := cfg.DefaultModel
		cfg.Judge.Model = &model
	}
	if cfg.Structured.Model == nil {
		model := cfg.DefaultModel
		cfg.Structured.Model = &model
	}
	if cfg.Similarity.Backend == "" {
		cfg.Similarity.Backend = "embedding"
	}
}

func (c *GraderConfig) Validate() error {
	if c.Judge.Prompt == "" {
		return fmt.Errorf("judge prompt is empty")
	}
	if c.Judge.RubricTemplate == "" {
		return fmt.Errorf("judge rubric_template is empty")
	}
	if c.Structured.Prompt == "" {
		return fmt.Errorf("structured prompt is empty")
	}

	for name, model := range map[string]*ModelConfig{"judge": c.Judge.Model, "structured": c.Structured.Model} {
		if model.MaxTokens <= 0 {
			return fmt.Errorf("%s max_tokens must be positive, got %d", name, model.MaxTokens)
		}
		if model.Temperature < 0 || model.Temperature > 2 {
			return fmt.Errorf("%s temperature must be within [0, 2], got %v", name, model.Temperature)
		}
	}

	switch c.Similarity.Backend {
	case "embedding", "lexical":
	default:
		return fmt.Errorf("unknown similarity backend %q", c.Similarity.Backend)
	}

	return nil
}
