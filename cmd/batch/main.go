package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/synereval/internal/batch"
	"github.com/povarna/generative-ai-agents/synereval/internal/models"
	"github.com/povarna/generative-ai-agents/synereval/internal/setup"
	"github.com/povarna/generative-ai-agents/synereval/internal/setup/logger"
	"github.com/rs/zerolog"
)

func main() {
	startTime := time.Now()

	input := flag.String("input", "", "Submission grid (.xlsx or .csv)")
	request := flag.String("request", "", "JSON file with rubric, reference_responses and instructions")
	output := flag.String("output", "", "Output file (.xlsx or .csv). Defaults to csv on stdout")
	dryRun := flag.Bool("dry-run", false, "Validate input without evaluating")
	flag.Parse()

	envErr := godotenv.Load()
	cfg := setup.LoadConfig()
	log := logger.New(cfg.LogLevel, cfg.LogPretty)
	if envErr != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	if *input == "" || *request == "" {
		fmt.Fprintln(os.Stderr, "Usage: batch -input answers.xlsx -request eval_req.json [-output graded.xlsx]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, &log, *input, *request, *output, *dryRun); err != nil {
		log.Error().Err(err).Msg("Batch grading failed")
		os.Exit(1)
	}

	log.Info().Dur("duration", time.Since(startTime)).Msg("Batch grading complete")
}

func run(ctx context.Context, cfg *setup.Config, log *zerolog.Logger, input, request, output string, dryRun bool) error {
	evalReq, err := readRequest(request)
	if err != nil {
		return err
	}

	questions, err := models.BuildQuestions(evalReq.ReferenceResponses, evalReq.Instructions)
	if err != nil {
		return err
	}

	grid, err := readGrid(input)
	if err != nil {
		return err
	}
	log.Info().
		Str("file", input).
		Int("students", len(grid.Rows)).
		Int("questions", len(grid.AnswerColumns)).
		Msg("Input grid parsed")

	if dryRun {
		if err := batch.Validate(grid, questions, evalReq.Rubric); err != nil {
			return err
		}
		log.Info().Msg("Validation successful")
		return nil
	}

	deps, err := setup.Wire(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to wire dependencies: %w", err)
	}

	results, err := deps.Orchestrator.EvaluateGrid(ctx, grid, questions, evalReq.Rubric)
	if err != nil {
		return err
	}

	table := batch.Flatten(results, questions)
	if output == "" {
		err = batch.WriteTable(os.Stdout, table, batch.FormatCSV)
	} else {
		err = batch.WriteFile(output, table)
	}
	if err != nil {
		return err
	}

	summary := deps.Aggregator.Summarize(results)
	log.Info().
		Int("students", summary.Students).
		Int("questions", summary.Questions).
		Float64("mean_grade", summary.MeanGrade).
		Float64("min_grade", summary.MinGrade).
		Float64("max_grade", summary.MaxGrade).
		Int("failed_cells", summary.FailedCells).
		Str("output", output).
		Msg("Results written")

	return nil
}

func readRequest(path string) (models.TeacherEvaluationRequest, error) {
	var req models.TeacherEvaluationRequest

	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("failed to read request file: %w", err)
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("%w: invalid request file: %v", models.ErrMalformedRequest, err)
	}
	return req, nil
}

func readGrid(path string) (models.StudentGrid, error) {
	format, err := batch.FormatFromFilename(path)
	if err != nil {
		return models.StudentGrid{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return models.StudentGrid{}, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	return batch.ReadGrid(f, format)
}
