package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog"
)

// ErrorResponse is the JSON body written for failed requests.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func HandleError(resp *restful.Response, err error, status int) {
	_ = resp.WriteHeaderAndEntity(status, ErrorResponse{
		Error:  err.Error(),
		Status: status,
	})
}

// RequestLogger returns a filter that logs every request with its latency.
func RequestLogger(logger *zerolog.Logger) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		start := time.Now()
		chain.ProcessFilter(req, resp)
		logger.Info().
			Str("method", req.Request.Method).
			Str("path", req.Request.URL.Path).
			Int("status", resp.StatusCode()).
			Dur("latency", time.Since(start)).
			Msg("Request handled")
	}
}

// Recover returns a filter that converts handler panics into 500 responses.
func Recover(logger *zerolog.Logger) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().
					Interface("panic", r).
					Str("path", req.Request.URL.Path).
					Bytes("stack", debug.Stack()).
					Msg("Handler panicked")
				_ = resp.WriteHeaderAndEntity(http.StatusInternalServerError, ErrorResponse{
					Error:  "internal server error",
					Status: http.StatusInternalServerError,
				})
			}
		}()
		chain.ProcessFilter(req, resp)
	}
}
