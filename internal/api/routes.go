package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/synereval/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/synereval/internal/flowcount"
	"github.com/povarna/generative-ai-agents/synereval/internal/models"
	"github.com/povarna/generative-ai-agents/synereval/internal/setup"
)

const MIME_MULTIPART = "multipart/form-data"

// OpenAPI tags used by the routes below.
const (
	TagHealth     = "health"
	TagModel      = "model"
	TagEvaluation = "evaluation"
	TagTeacher    = "teacher"
	TagCount      = "count"
)

// Tag describes one OpenAPI tag.
type Tag struct {
	Name        string
	Description string
}

// Tags lists every tag a route may carry, in display order.
var Tags = []Tag{
	{TagHealth, "Health checks"},
	{TagModel, "Scorer models"},
	{TagEvaluation, "Document grading"},
	{TagTeacher, "Batch grading of student spreadsheets"},
	{TagCount, "Generative response counts in dialog flows"},
}

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{TagHealth}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.GET("/model/info").
			To(handler.ModelInfo).
			Doc("Models behind each scorer").
			Metadata(restfulspec.KeyOpenAPITags, []string{TagModel}).
			Writes(setup.ModelInfo{}).
			Returns(200, "OK", setup.ModelInfo{}))

	ws.
		Route(ws.POST("/evaluation/evaluate").
			To(handler.Evaluate).
			Doc("Grade model responses against reference responses").
			Metadata(restfulspec.KeyOpenAPITags, []string{TagEvaluation}).
			Reads(models.EvaluationRequest{}).
			Writes(models.EvaluationResponse{}).
			Returns(200, "OK", models.EvaluationResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/teacher/evaluate").
			To(handler.TeacherEvaluate).
			Doc("Grade a spreadsheet of student answers").
			Metadata(restfulspec.KeyOpenAPITags, []string{TagTeacher}).
			Consumes(MIME_MULTIPART).
			Produces(mimeXLSX, "text/csv", restful.MIME_JSON).
			Param(ws.FormParameter("file", "xlsx or csv file with a student_name column and one column per question").DataType("file").Required(true)).
			Param(ws.FormParameter("eval_req", "JSON TeacherEvaluationRequest; may also be sent as a query parameter").DataType("string")).
			Param(ws.QueryParameter("eval_req", "JSON TeacherEvaluationRequest").DataType("string").Required(false)).
			Returns(200, "Spreadsheet with one row per student", nil).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/count-responses").
			To(handler.CountResponses).
			Doc("Count generative answers in a dialog YAML").
			Metadata(restfulspec.KeyOpenAPITags, []string{TagCount}).
			Consumes(MIME_MULTIPART).
			Param(ws.FormParameter("file", "dialog YAML file").DataType("file").Required(true)).
			Writes(flowcount.Summary{}).
			Returns(200, "OK", flowcount.Summary{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}))

	container.Add(ws)
}
