package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/synereval/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/synereval/internal/batch"
	"github.com/povarna/generative-ai-agents/synereval/internal/flowcount"
	"github.com/povarna/generative-ai-agents/synereval/internal/models"
	"github.com/povarna/generative-ai-agents/synereval/internal/setup"
	"github.com/rs/zerolog"
)

const (
	mimeXLSX       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	maxUploadBytes = 32 << 20
	exportBaseName = "teacher_evaluation"
)

// DocumentEvaluator grades model responses against reference responses.
type DocumentEvaluator interface {
	Execute(ctx context.Context, instruction string, candidates []string, references []string, rubric models.RubricSpec) ([]models.DocumentResult, error)
}

// GridEvaluator grades a student × question grid.
type GridEvaluator interface {
	EvaluateGrid(ctx context.Context, grid models.StudentGrid, questions []models.QuestionSpec, rubric models.RubricSpec) ([]models.StudentResult, error)
}

type Handler struct {
	documents DocumentEvaluator
	grids     GridEvaluator
	modelInfo setup.ModelInfo
	logger    *zerolog.Logger
}

func NewHandler(documents DocumentEvaluator, grids GridEvaluator, modelInfo setup.ModelInfo, logger *zerolog.Logger) *Handler {
	return &Handler{
		documents: documents,
		grids:     grids,
		modelInfo: modelInfo,
		logger:    logger,
	}
}

// POST /api/v1/evaluation/evaluate
// Body: EvaluationRequest
// Returns: EvaluationResponse
func (h *Handler) Evaluate(req *restful.Request, resp *restful.Response) {
	var evalRequest models.EvaluationRequest
	if err := req.ReadEntity(&evalRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, fmt.Errorf("%w: %v", models.ErrMalformedRequest, err), http.StatusBadRequest)
		return
	}

	h.logger.Info().
		Str("request_id", evalRequest.RequestID).
		Int("responses", len(evalRequest.ModelResponses)).
		Msg("Start evaluation")

	ctx := req.Request.Context()
	results, err := h.documents.Execute(ctx,
		evalRequest.Instruction,
		evalRequest.ModelResponses,
		evalRequest.ReferenceResponses,
		evalRequest.Rubric,
	)
	if err != nil {
		h.writeError(resp, err)
		return
	}

	h.logger.Info().
		Str("request_id", evalRequest.RequestID).
		Int("results", len(results)).
		Msg("Evaluation complete")

	resp.WriteHeaderAndEntity(http.StatusOK, models.EvaluationResponse{
		RequestID: evalRequest.RequestID,
		Results:   results,
	})
}

// POST /api/v1/teacher/evaluate
// Multipart: file (xlsx or csv), eval_req (form field or query parameter)
// Returns: the flattened grades in the upload's format
func (h *Handler) TeacherEvaluate(req *restful.Request, resp *restful.Response) {
	if err := req.Request.ParseMultipartForm(maxUploadBytes); err != nil {
		middleware.HandleError(resp, fmt.Errorf("%w: %v", models.ErrMalformedRequest, err), http.StatusBadRequest)
		return
	}

	file, header, err := req.Request.FormFile("file")
	if err != nil {
		middleware.HandleError(resp, middleware.ErrMissingFile, http.StatusBadRequest)
		return
	}
	defer file.Close()

	rawRequest := req.Request.FormValue("eval_req")
	if rawRequest == "" {
		middleware.HandleError(resp, middleware.ErrMissingRequest, http.StatusBadRequest)
		return
	}

	var teacherRequest models.TeacherEvaluationRequest
	if err := json.Unmarshal([]byte(rawRequest), &teacherRequest); err != nil {
		middleware.HandleError(resp, fmt.Errorf("%w: eval_req: %v", models.ErrMalformedRequest, err), http.StatusBadRequest)
		return
	}

	format, err := batch.FormatFromFilename(header.Filename)
	if err != nil {
		middleware.HandleError(resp, fmt.Errorf("%w: %v", models.ErrMalformedRequest, err), http.StatusBadRequest)
		return
	}

	questions, err := models.BuildQuestions(teacherRequest.ReferenceResponses, teacherRequest.Instructions)
	if err != nil {
		h.writeError(resp, err)
		return
	}

	grid, err := batch.ReadGrid(file, format)
	if err != nil {
		h.writeError(resp, err)
		return
	}

	h.logger.Info().
		Str("file", header.Filename).
		Int("students", len(grid.Rows)).
		Int("questions", len(questions)).
		Msg("Start teacher evaluation")

	results, err := h.grids.EvaluateGrid(req.Request.Context(), grid, questions, teacherRequest.Rubric)
	if err != nil {
		h.writeError(resp, err)
		return
	}

	var buf bytes.Buffer
	if err := batch.WriteTable(&buf, batch.Flatten(results, questions), format); err != nil {
		h.logger.Error().Err(err).Msg("Failed to write export")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	resp.Header().Set("Content-Type", format.ContentType())
	resp.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.%s", exportBaseName, format))
	resp.WriteHeader(http.StatusOK)
	if _, err := io.Copy(resp, &buf); err != nil {
		h.logger.Error().Err(err).Msg("Failed to stream export")
	}
}

// POST /api/v1/count-responses
// Multipart: file (dialog YAML)
func (h *Handler) CountResponses(req *restful.Request, resp *restful.Response) {
	file, _, err := req.Request.FormFile("file")
	if err != nil {
		middleware.HandleError(resp, middleware.ErrMissingFile, http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	summary, err := flowcount.Count(data)
	if err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, summary)
}

// GET /api/v1/model/info
func (h *Handler) ModelInfo(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, h.modelInfo)
}

// Health handler GET API /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	}

	resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}

func (h *Handler) writeError(resp *restful.Response, err error) {
	if models.IsClientError(err) {
		h.logger.Warn().Err(err).Msg("Rejected request")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	h.logger.Error().Err(err).Msg("Request failed")
	middleware.HandleError(resp, err, http.StatusInternalServerError)
}
