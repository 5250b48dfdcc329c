package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog/log"
)

type ErrorResponse struct {
	Error   string `json:"error" description:"Error message"`
	Code    int    `json:"code" description:"HTTP status code"`
	Details string `json:"details,omitempty" description:"Additional error details"`
}

var (
	ErrMissingFile    = errors.New("missing uploaded file")
	ErrMissingRequest = errors.New("missing eval_req")
)

// Logger logs every request with its status and latency.
func Logger(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	start := time.Now()
	chain.ProcessFilter(req, resp)

	log.Info().
		Str("method", req.Request.Method).
		Str("path", req.Request.URL.Path).
		Int("status", resp.StatusCode()).
		Dur("duration", time.Since(start)).
		Msg("request")
}

// RecoverPanic turns a handler panic into a 500 ErrorResponse.
func RecoverPanic(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("path", req.Request.URL.Path).
				Msg("recovered from panic")
			_ = resp.WriteHeaderAndJson(http.StatusInternalServerError, ErrorResponse{
				Error: "internal server error",
				Code:  http.StatusInternalServerError,
			}, restful.MIME_JSON)
		}
	}()
	chain.ProcessFilter(req, resp)
}

// HandleError writes err as a JSON ErrorResponse with the given status.
func HandleError(resp *restful.Response, err error, status int) {
	_ = resp.WriteHeaderAndJson(status, ErrorResponse{
		Error: err.Error(),
		Code:  status,
	}, restful.MIME_JSON)
}
